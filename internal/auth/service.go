// Copyright (c) 2026 Editaliza. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/sec"
	"github.com/editaliza/editaliza/pkg/uuid"
)

// # Contracts & Types

// TokenProvider issues and verifies auth tokens; [*sec.TokenService] implements it.
type TokenProvider interface {
	GenerateToken(userID, identifier string) (string, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
	Validity() time.Duration
}

// Service implements the authentication use cases.
//
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	users  UserRepository
	tokens TokenProvider
}

// NewService constructs a [Service].
func NewService(users UserRepository, tokens TokenProvider) *Service {
	return &Service{users: users, tokens: tokens}
}

// # Authentication Flow

// LoginInput holds credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // login or email
	Password   string
}

// LoginResult is a successful login: the signed token and who it belongs to.
type LoginResult struct {
	Token string
	User  *User
}

// errInvalidCredentials is shared by "no such user" and "wrong password" so
// responses do not reveal which accounts exist.
var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

/*
Login checks credentials and issues a token for the account.

Returns:
  - *LoginResult on success
  - 401 AppError for unknown identifiers or wrong passwords
  - 500 AppError when the store or signer fails
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.users.FindByIdentifier(ctx, canonical(input.Identifier))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.InternalMessage("Failed to look up user", err)
	}

	// bcrypt compares in constant time
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	token, err := service.tokens.GenerateToken(user.ID, user.Login)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	return &LoginResult{Token: token, User: user}, nil
}

// TokenValidity returns the validity window of issued tokens.
func (service *Service) TokenValidity() time.Duration {
	return service.tokens.Validity()
}

// # Token Resolution

// Verify checks a token without touching the store.
//
// The error wraps one of [sec.ErrMalformedToken], [sec.ErrSignatureInvalid]
// or [sec.ErrTokenExpired].
func (service *Service) Verify(_ context.Context, token string) (*sec.AuthClaims, error) {
	return service.tokens.VerifyToken(token)
}

/*
CurrentUser verifies token and loads the account it names.

Returns:
  - the token's error when verification fails
  - ErrUserNotFound when the account no longer exists
  - ErrStoreUnavailable (wrapping the cause) when the lookup fails
*/
func (service *Service) CurrentUser(ctx context.Context, token string) (*UserSummary, error) {
	_, user, err := service.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return user.Summary(), nil
}

// VerifyResolved verifies token and requires its account to exist.
//
// It has the [Service.Verify] signature so the request gate can use it as a
// stricter verifier.
func (service *Service) VerifyResolved(ctx context.Context, token string) (*sec.AuthClaims, error) {
	claims, _, err := service.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (service *Service) resolve(ctx context.Context, token string) (*sec.AuthClaims, *User, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil, err
	}

	user, err := service.users.FindByID(ctx, claims.UserID)
	switch {
	case err == nil:
		return claims, user, nil
	case errors.Is(err, ErrUserNotFound):
		return nil, nil, ErrUserNotFound
	default:
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Login    string
	Email    string
	Password string
	Name     string
	Type     sec.UserType
}

// Register hashes the password and persists a new account.
//
// A taken login or email yields a 409 AppError.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if !input.Type.Valid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldUserType,
			Message: "Must be one of: ARTIST, PROPOSER",
		})
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		ID:           uuid.New(),
		Login:        canonical(input.Login),
		Email:        strings.ToLower(canonical(input.Email)),
		PasswordHash: hashedPassword,
		Name:         canonical(input.Name),
		Type:         input.Type,
	}

	if err := service.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return nil, apperr.Conflict("Login or email already registered").WithCause(err)
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_register_failed: %w", err))
	}

	return user, nil
}

// # Provisioning

// Setup reports whether the users table is reachable.
func (service *Service) Setup(ctx context.Context) error {
	if err := service.users.Ping(ctx); err != nil {
		return apperr.InternalMessage("Users table is not available; run the migrations", err)
	}
	return nil
}

// canonical trims s and composes it to NFC, so "José" typed with a combining
// accent and with a precomposed é name the same account.
func canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
