// Copyright (c) 2026 Editaliza. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/editaliza/editaliza/internal/platform/dberr"
)

// # User Repository

// userColumns is the projection shared by every lookup; see scanUser.
const userColumns = `id, login, email, password_hash, name, user_type, COALESCE(img_url, ''), created_at, updated_at`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID retrieves an account by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, lookupFailure("find_by_id", err)
	}
	return user, nil
}

/*
FindByIdentifier retrieves an account by login, falling back to email.

Logins and emails are each unique, but a login may equal someone else's
email; the login match wins.
*/
func (repository *PostgresUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE login = $1 OR email = lower($1)
		ORDER BY (login = $1) DESC
		LIMIT 1`

	user, err := scanUser(repository.pool.QueryRow(ctx, query, identifier))
	if err != nil {
		return nil, lookupFailure("find_by_identifier", err)
	}
	return user, nil
}

// Create inserts a new account, initializing its timestamps.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, login, email, password_hash, name, user_type, img_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Login,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Type,
		user.ImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return fmt.Errorf("%w (%s)", ErrDuplicateUser, dberr.ConstraintName(err))
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// Ping reads zero rows from users, failing if the table is missing.
func (repository *PostgresUserRepository) Ping(ctx context.Context) error {
	rows, err := repository.pool.Query(ctx, `SELECT login FROM users LIMIT 1`)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_ping_failed: %w", err)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_user_repo_ping_failed: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Type,
		&user.ImageURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// lookupFailure maps no-rows onto ErrUserNotFound and wraps everything else.
func lookupFailure(action string, err error) error {
	if dberr.IsNoRows(err) {
		return ErrUserNotFound
	}
	return fmt.Errorf("postgres_user_repo_%s_failed: %w", action, err)
}
