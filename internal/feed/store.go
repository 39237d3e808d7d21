// Copyright (c) 2026 Editaliza. All rights reserved.

package feed

import "context"

// Repository defines read access to the content tables.
//
// Listings return an empty, non-nil slice when nothing matches.
type Repository interface {

	// ListEditals returns one page of editais, newest first, and the total
	// number matching the filter.
	ListEditals(ctx context.Context, filter EditalFilter) ([]Edital, int, error)

	ListProposers(ctx context.Context) ([]Proposer, error)

	ListArtists(ctx context.Context) ([]Artist, error)

	ListProfiles(ctx context.Context) ([]Profile, error)

	ListTags(ctx context.Context) ([]Tag, error)

	ListComments(ctx context.Context, filter CommentFilter) ([]Comment, error)
}
