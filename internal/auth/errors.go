// Copyright (c) 2026 Editaliza. All rights reserved.

package auth

import "errors"

// ErrDuplicateUser is returned by repositories when login or email is taken.
var ErrDuplicateUser = errors.New("auth: login or email already registered")

// lookupError is a failure resolving a verified token to a stored account.
//
// It labels itself through Reason so the request gate can log the cause
// without depending on this package.
type lookupError struct {
	reason  string
	message string
}

func (e *lookupError) Error() string  { return e.message }
func (e *lookupError) Reason() string { return e.reason }

var (
	// ErrUserNotFound means the token verified but its user no longer exists.
	ErrUserNotFound error = &lookupError{reason: "user_not_found", message: "auth: user not found"}

	// ErrStoreUnavailable means the user store could not answer.
	ErrStoreUnavailable error = &lookupError{reason: "store_unavailable", message: "auth: user store unavailable"}
)
