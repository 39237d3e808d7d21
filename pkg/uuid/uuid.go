// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package uuid generates the time-ordered identifiers used as primary keys.

Version 7 values sort by creation time, so rows inserted by the register
flow land at the end of the users_pkey B-tree, and request IDs in the logs
sort chronologically.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is unrecoverable
	if err != nil {
		panic("uuid: failed to generate v7: " + err.Error())
	}

	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
