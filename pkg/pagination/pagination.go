// Copyright (c) 2026 Editaliza. All rights reserved.

// Package pagination reads ?page=&limit= and builds the meta block of
// paginated list responses.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (Page-1)*MaxLimit inside an int.
	MaxPage = math.MaxInt / MaxLimit
)

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page returned alongside a list.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// FromRequest parses page and limit. Missing or garbled values fall back to
// page 1 and [DefaultLimit]. A limit above [MaxLimit] or a page above
// [MaxPage] is capped.
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()
	return Params{
		Page:  min(positive(query.Get("page"), 1), MaxPage),
		Limit: min(positive(query.Get("limit"), DefaultLimit), MaxLimit),
	}
}

// Offset is the number of rows preceding the page, saturating at
// math.MaxInt for hand-built Params that would overflow.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta describes this page of a result set holding total rows.
func (p Params) Meta(total int) Meta {
	meta := Meta{Page: p.Page, Limit: p.Limit, Total: total}
	if p.Limit > 0 {
		meta.TotalPages = (total + p.Limit - 1) / p.Limit
	}
	meta.HasNext = p.Page < meta.TotalPages
	return meta
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
