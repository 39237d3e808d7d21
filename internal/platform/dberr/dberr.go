// Copyright (c) 2026 Editaliza. All rights reserved.

// Package dberr classifies pgx errors so stores can translate them into
// domain errors without matching on driver internals.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/editaliza/editaliza/internal/platform/apperr"
)

// SQLSTATE codes the stores care about.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsUndefinedTable reports whether err was raised because a table is missing.
func IsUndefinedTable(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

// ConstraintName returns the violated constraint, or "" for other errors.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// Wrap turns a database error into an [apperr.AppError] for the named resource.
//
// No rows becomes 404, unique violations become 409 and everything else a
// 500 carrying the original error as its hidden cause.
func Wrap(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case IsNoRows(err):
		return apperr.NotFound(resource).WithCause(err)
	case IsUniqueViolation(err):
		return apperr.Conflict(resource + " already exists").WithCause(err)
	default:
		return apperr.InternalMessage("Failed to load "+resource, err)
	}
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
