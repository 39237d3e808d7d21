// Copyright (c) 2026 Editaliza. All rights reserved.

package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListEditals pages editals_data, newest publication first.
func (repository *PostgresRepository) ListEditals(ctx context.Context, filter EditalFilter) ([]Edital, int, error) {
	var (
		where strings.Builder
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&where, " WHERE status = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM editals_data` + where.String()
	if err := repository.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_feed_repo_count_editals_failed: %w", err)
	}

	query := `
		SELECT id, title, COALESCE(description, ''), publish_date, end_date, status,
			COALESCE(inscription_link, ''), COALESCE(complete_edital_link, ''),
			COALESCE(img_cover_url, ''), proposer_id, created_at, updated_at
		FROM editals_data` + where.String() + `
		ORDER BY publish_date DESC NULLS LAST, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_feed_repo_list_editals_failed: %w", err)
	}

	editals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Edital, error) {
		var e Edital
		err := row.Scan(
			&e.ID, &e.Title, &e.Description, &e.PublishDate, &e.EndDate, &e.Status,
			&e.InscriptionLink, &e.CompleteEditalLink, &e.ImageCoverURL,
			&e.ProposerID, &e.CreatedAt, &e.UpdatedAt,
		)
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_feed_repo_scan_editals_failed: %w", err)
	}

	return nonNil(editals), total, nil
}

// ListProposers returns every proposer_data row by name.
func (repository *PostgresRepository) ListProposers(ctx context.Context) ([]Proposer, error) {
	const query = `
		SELECT id, name, email, COALESCE(img_url, ''), created_at
		FROM proposer_data
		ORDER BY name`

	return list(ctx, repository.pool, "proposers", query, nil, func(row pgx.CollectableRow) (Proposer, error) {
		var p Proposer
		err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ImageURL, &p.CreatedAt)
		return p, err
	})
}

// ListArtists returns every artist_data row by name.
func (repository *PostgresRepository) ListArtists(ctx context.Context) ([]Artist, error) {
	const query = `
		SELECT id, name, email, COALESCE(img_url, ''), created_at
		FROM artist_data
		ORDER BY name`

	return list(ctx, repository.pool, "artists", query, nil, func(row pgx.CollectableRow) (Artist, error) {
		var a Artist
		err := row.Scan(&a.ID, &a.Name, &a.Email, &a.ImageURL, &a.CreatedAt)
		return a, err
	})
}

// ListProfiles returns every user_data row by name.
func (repository *PostgresRepository) ListProfiles(ctx context.Context) ([]Profile, error) {
	const query = `
		SELECT id, name, email, COALESCE(img_url, ''), user_type, created_at
		FROM user_data
		ORDER BY name`

	return list(ctx, repository.pool, "profiles", query, nil, func(row pgx.CollectableRow) (Profile, error) {
		var p Profile
		err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ImageURL, &p.UserType, &p.CreatedAt)
		return p, err
	})
}

// ListTags returns every tags_data row by name.
func (repository *PostgresRepository) ListTags(ctx context.Context) ([]Tag, error) {
	const query = `
		SELECT id, name, COALESCE(description, ''), color
		FROM tags_data
		ORDER BY name`

	return list(ctx, repository.pool, "tags", query, nil, func(row pgx.CollectableRow) (Tag, error) {
		var t Tag
		err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Color)
		return t, err
	})
}

// ListComments returns comments oldest first, optionally for one edital.
func (repository *PostgresRepository) ListComments(ctx context.Context, filter CommentFilter) ([]Comment, error) {
	query := `
		SELECT id, author_name, content, approved, status, user_id::text, edital_id, created_at
		FROM comments_data`

	var args []any
	if filter.EditalID != nil {
		query += ` WHERE edital_id = $1`
		args = append(args, *filter.EditalID)
	}
	query += ` ORDER BY created_at, id`

	return list(ctx, repository.pool, "comments", query, args, func(row pgx.CollectableRow) (Comment, error) {
		var c Comment
		err := row.Scan(&c.ID, &c.AuthorName, &c.Content, &c.Approved, &c.Status, &c.UserID, &c.EditalID, &c.CreatedAt)
		return c, err
	})
}

// list runs query and collects every row with scan.
func list[T any](ctx context.Context, pool *pgxpool.Pool, resource, query string, args []any, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_list_%s_failed: %w", resource, err)
	}

	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("postgres_feed_repo_scan_%s_failed: %w", resource, err)
	}
	return nonNil(items), nil
}

// nonNil makes empty listings encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
