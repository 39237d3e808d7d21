// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package auth owns user identity: credential checks, token issuance on login,
token-to-user resolution, and the /api/auth HTTP endpoints.

Architecture:

  - Service: login, register, verify and current-user use cases.
  - UserRepository: storage contract, implemented over pgx.
  - Handler: JSON transport; sets and clears the auth-token cookie.

The signing primitives live in platform/sec; this package binds them to
stored accounts.
*/
package auth

import (
	"time"

	"github.com/editaliza/editaliza/internal/platform/sec"
)

// # Domain Entities

// User is a stored account. Artists and proposers share the table and are
// told apart by Type.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	Name         string
	Type         sec.UserType
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the public projection of a [User].
type UserSummary struct {
	ID         string       `json:"id"`
	Login      string       `json:"login"`
	Email      string       `json:"email"`
	Name       string       `json:"name,omitempty"`
	Type       sec.UserType `json:"user_type,omitempty"`
	CanPublish bool         `json:"can_publish"`
}

// Summary projects u for API responses.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		Login:      u.Login,
		Email:      u.Email,
		Name:       u.Name,
		Type:       u.Type,
		CanPublish: u.Type.CanPublish(),
	}
}

// # Field Identifiers

const (
	FieldLogin    = "login"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
	FieldUserType = "user_type"
)
