// Copyright (c) 2026 Editaliza. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for accounts.
//
// Lookups return [ErrUserNotFound] when nothing matches; Create returns
// [ErrDuplicateUser] when the login or email is taken. Any other error means
// the store itself failed.
type UserRepository interface {

	// FindByID returns the account with the given primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByIdentifier returns the account whose login or email equals identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)

	// Create persists a new account.
	Create(ctx context.Context, user *User) error

	// Ping checks that the users table exists and is readable.
	Ping(ctx context.Context) error
}
