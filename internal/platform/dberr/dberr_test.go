// Copyright (c) 2026 Editaliza. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/dberr"
)

func TestClassify(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_login_key"})
	missing := &pgconn.PgError{Code: "42P01"}

	assert.True(t, dberr.IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, dberr.IsUniqueViolation(unique))
	assert.Equal(t, "users_login_key", dberr.ConstraintName(unique))
	assert.True(t, dberr.IsUndefinedTable(missing))
	assert.False(t, dberr.IsUniqueViolation(missing))
	assert.Empty(t, dberr.ConstraintName(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "editals"))
	assert.True(t, apperr.HasStatus(dberr.Wrap(pgx.ErrNoRows, "Edital"), http.StatusNotFound))
	assert.True(t, apperr.HasStatus(dberr.Wrap(&pgconn.PgError{Code: "23505"}, "User"), http.StatusConflict))

	err := dberr.Wrap(errors.New("conn reset"), "editals")
	assert.True(t, apperr.HasStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "Failed to load editals", apperr.As(err).Message)
}
