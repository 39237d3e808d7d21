// Copyright (c) 2026 Editaliza. All rights reserved.

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/editaliza/editaliza/internal/platform/migration"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@db:5432/editaliza?sslmode=disable", "pgx5://u:p@db:5432/editaliza?sslmode=disable"},
		{"postgresql://u@db/editaliza", "pgx5://u@db/editaliza"},
		{"pgx5://u@db/editaliza", "pgx5://u@db/editaliza"},
		{"host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.MigrateURL(tt.dsn), tt.dsn)
	}
}
