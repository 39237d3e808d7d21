// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package feed serves the read-only content behind the logged-in pages:
editais, their proposers, artist and user profiles, tags and comments.

Architecture:

  - Repository: read contract over the content tables (pgx implementation).
  - CachedRepository: Repository decorator backed by a [Cache] (Redis).
  - Service: paginates editais and assembles the /api/data aggregate.
  - Handler: JSON transport mounted under /api behind RequireAuth.
*/
package feed

import "time"

// # Domain Entities

// EditalStatus is the publication state of an edital.
type EditalStatus string

const (
	StatusDraft     EditalStatus = "DRAFT"
	StatusPublished EditalStatus = "PUBLISHED"
	StatusOpen      EditalStatus = "OPEN"
	StatusClosed    EditalStatus = "CLOSED"
	StatusCancelled EditalStatus = "CANCELLED"
)

// Statuses lists every valid [EditalStatus] in lifecycle order.
var Statuses = []EditalStatus{StatusDraft, StatusPublished, StatusOpen, StatusClosed, StatusCancelled}

// Valid reports whether s is a known status.
func (s EditalStatus) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Edital is a public call for proposals.
type Edital struct {
	ID                 int64        `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	PublishDate        *time.Time   `json:"publish_date"`
	EndDate            *time.Time   `json:"end_date"`
	Status             EditalStatus `json:"status"`
	InscriptionLink    string       `json:"inscription_link,omitempty"`
	CompleteEditalLink string       `json:"complete_edital_link,omitempty"`
	ImageCoverURL      string       `json:"img_cover_url,omitempty"`
	ProposerID         *int64       `json:"proposer_id"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Proposer is an organization publishing editais.
type Proposer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"img_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Artist is an individual creator.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"img_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public card of any account (table user_data).
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"img_url,omitempty"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag labels editais and artists.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// Comment is a remark left on an edital.
type Comment struct {
	ID         int64     `json:"id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Approved   bool      `json:"approved"`
	Status     string    `json:"status"`
	UserID     *string   `json:"user_id"`
	EditalID   *int64    `json:"edital_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// AllData is the /api/data aggregate consumed by the feed page.
type AllData struct {
	UserData  []Profile  `json:"userData"`
	Artists   []Artist   `json:"artists"`
	Proposers []Proposer `json:"proposers"`
	Editals   []Edital   `json:"editals"`
	Tags      []Tag      `json:"tags"`
	Comments  []Comment  `json:"comments"`
}

// # Filters

// EditalFilter narrows and pages an edital listing.
type EditalFilter struct {
	Status EditalStatus // empty means any
	Limit  int          // zero means no limit
	Offset int
}

// CommentFilter narrows a comment listing.
type CommentFilter struct {
	EditalID *int64
}
