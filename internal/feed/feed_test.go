// Copyright (c) 2026 Editaliza. All rights reserved.

package feed_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editaliza/editaliza/internal/feed"
)

// # Fakes

// stubRepository is a fixed in-memory [feed.Repository] counting its calls.
type stubRepository struct {
	mu      sync.Mutex
	calls   map[string]int
	editals []feed.Edital
	failOn  string
}

var errStore = errors.New("conn reset by peer")

func newStubRepository() *stubRepository {
	published := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &stubRepository{
		calls: map[string]int{},
		editals: []feed.Edital{
			{ID: 2, Title: "Edital de Música", Status: feed.StatusOpen, PublishDate: &published},
			{ID: 1, Title: "Edital de Teatro", Status: feed.StatusClosed},
		},
	}
}

func (s *stubRepository) hit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	if s.failOn == name {
		return errStore
	}
	return nil
}

func (s *stubRepository) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubRepository) ListEditals(_ context.Context, filter feed.EditalFilter) ([]feed.Edital, int, error) {
	if err := s.hit("editals"); err != nil {
		return nil, 0, err
	}
	matched := []feed.Edital{}
	for _, e := range s.editals {
		if filter.Status == "" || e.Status == filter.Status {
			matched = append(matched, e)
		}
	}
	total := len(matched)
	if filter.Limit > 0 {
		end := min(filter.Offset+filter.Limit, total)
		start := min(filter.Offset, total)
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (s *stubRepository) ListProposers(context.Context) ([]feed.Proposer, error) {
	if err := s.hit("proposers"); err != nil {
		return nil, err
	}
	return []feed.Proposer{{ID: 1, Name: "Secretaria de Cultura"}}, nil
}

func (s *stubRepository) ListArtists(context.Context) ([]feed.Artist, error) {
	if err := s.hit("artists"); err != nil {
		return nil, err
	}
	return []feed.Artist{{ID: 1, Name: "Maria"}}, nil
}

func (s *stubRepository) ListProfiles(context.Context) ([]feed.Profile, error) {
	if err := s.hit("profiles"); err != nil {
		return nil, err
	}
	return []feed.Profile{{ID: 1, Name: "Maria", UserType: "ARTIST"}}, nil
}

func (s *stubRepository) ListTags(context.Context) ([]feed.Tag, error) {
	if err := s.hit("tags"); err != nil {
		return nil, err
	}
	return []feed.Tag{{ID: 1, Name: "Música", Color: "#ff0000"}}, nil
}

func (s *stubRepository) ListComments(_ context.Context, filter feed.CommentFilter) ([]feed.Comment, error) {
	if err := s.hit("comments"); err != nil {
		return nil, err
	}
	one, two := int64(1), int64(2)
	all := []feed.Comment{
		{ID: 1, Content: "Ótimo", EditalID: &one},
		{ID: 2, Content: "Prazo?", EditalID: &two},
	}
	if filter.EditalID == nil {
		return all, nil
	}
	matched := []feed.Comment{}
	for _, c := range all {
		if *c.EditalID == *filter.EditalID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// memoryCache is an in-memory [feed.Cache].
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	broken  bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return nil, errors.New("redis: connection refused")
	}
	value, ok := c.entries[key]
	if !ok {
		return nil, feed.ErrCacheMiss
	}
	return value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return errors.New("redis: connection refused")
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

// # Cache Decorator

/*
TestCachedRepository_ServesFromCache hits the store once per key within the TTL.
*/
func TestCachedRepository_ServesFromCache(t *testing.T) {
	store := newStubRepository()
	cache := newMemoryCache()
	repository := feed.NewCachedRepository(store, cache, 30*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tags, err := repository.ListTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Música", tags[0].Name)
	}
	assert.Equal(t, 1, store.count("tags"))
	assert.Equal(t, 30*time.Second, cache.ttls["tags"])

	first, total, err := repository.ListEditals(ctx, feed.EditalFilter{Status: feed.StatusOpen, Limit: 10})
	require.NoError(t, err)
	second, _, err := repository.ListEditals(ctx, feed.EditalFilter{Status: feed.StatusOpen, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.count("editals"))

	// A different filter is a different key.
	_, _, err = repository.ListEditals(ctx, feed.EditalFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, store.count("editals"))

	one := int64(1)
	comments, err := repository.ListComments(ctx, feed.CommentFilter{EditalID: &one})
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	_, err = repository.ListComments(ctx, feed.CommentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.count("comments"))
}

/*
TestCachedRepository_FallsThrough ignores a broken cache.
*/
func TestCachedRepository_FallsThrough(t *testing.T) {
	store := newStubRepository()
	cache := newMemoryCache()
	cache.broken = true
	repository := feed.NewCachedRepository(store, cache, time.Minute)

	for i := 0; i < 2; i++ {
		proposers, err := repository.ListProposers(context.Background())
		require.NoError(t, err)
		assert.Len(t, proposers, 1)
	}
	assert.Equal(t, 2, store.count("proposers"))
}

/*
TestCachedRepository_CorruptEntry reloads when the cached bytes do not decode.
*/
func TestCachedRepository_CorruptEntry(t *testing.T) {
	store := newStubRepository()
	cache := newMemoryCache()
	cache.entries["artists"] = []byte("{not json")
	repository := feed.NewCachedRepository(store, cache, time.Minute)

	artists, err := repository.ListArtists(context.Background())
	require.NoError(t, err)
	assert.Len(t, artists, 1)
	assert.Equal(t, 1, store.count("artists"))
	assert.True(t, json.Valid(cache.entries["artists"]))
}

/*
TestCachedRepository_StoreErrorNotCached propagates failures without caching them.
*/
func TestCachedRepository_StoreErrorNotCached(t *testing.T) {
	store := newStubRepository()
	store.failOn = "tags"
	cache := newMemoryCache()
	repository := feed.NewCachedRepository(store, cache, time.Minute)

	_, err := repository.ListTags(context.Background())
	assert.ErrorIs(t, err, errStore)
	assert.Empty(t, cache.entries)
}

// # Service

/*
TestService_Data assembles every listing.
*/
func TestService_Data(t *testing.T) {
	service := feed.NewService(newStubRepository())

	data, err := service.Data(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.UserData, 1)
	assert.Len(t, data.Artists, 1)
	assert.Len(t, data.Proposers, 1)
	assert.Len(t, data.Editals, 2)
	assert.Len(t, data.Tags, 1)
	assert.Len(t, data.Comments, 2)
}

/*
TestService_DataFailure fails the aggregate when any listing fails.
*/
func TestService_DataFailure(t *testing.T) {
	for _, resource := range []string{"profiles", "artists", "proposers", "editals", "tags", "comments"} {
		t.Run(resource, func(t *testing.T) {
			store := newStubRepository()
			store.failOn = resource

			data, err := feed.NewService(store).Data(context.Background())
			assert.Nil(t, data)
			assert.ErrorIs(t, err, errStore)
			assert.Equal(t, "Failed to load data", err.Error())
		})
	}
}

// # HTTP

func get(t *testing.T, handler *feed.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

/*
TestHandler_Editals paginates and filters by status.
*/
func TestHandler_Editals(t *testing.T) {
	handler := feed.NewHandler(feed.NewService(newStubRepository()))

	recorder, body := get(t, handler, "/editals?page=1&limit=1")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["data"], 1)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])
	assert.Equal(t, float64(2), meta["total_pages"])

	recorder, body = get(t, handler, "/editals?status=CLOSED")
	require.Equal(t, http.StatusOK, recorder.Code)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Edital de Teatro", items[0].(map[string]any)["title"])

	recorder, body = get(t, handler, "/editals?status=ARCHIVED")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

/*
TestHandler_Comments validates the edital_id filter.
*/
func TestHandler_Comments(t *testing.T) {
	handler := feed.NewHandler(feed.NewService(newStubRepository()))

	recorder, body := get(t, handler, "/comments?edital_id=2")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["data"], 1)

	recorder, _ = get(t, handler, "/comments?edital_id=abc")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_Data returns the aggregate keys at the top level.
*/
func TestHandler_Data(t *testing.T) {
	handler := feed.NewHandler(feed.NewService(newStubRepository()))

	recorder, body := get(t, handler, "/data")
	require.Equal(t, http.StatusOK, recorder.Code)
	for _, key := range []string{"userData", "artists", "proposers", "editals", "tags", "comments"} {
		assert.Contains(t, body, key)
	}
}

/*
TestHandler_StoreFailures answers 500 with a resource-specific message.
*/
func TestHandler_StoreFailures(t *testing.T) {
	tests := []struct {
		path    string
		failOn  string
		message string
	}{
		{"/editals", "editals", "Failed to load editals"},
		{"/proposers", "proposers", "Failed to load proposers"},
		{"/users", "profiles", "Failed to load users"},
		{"/tags", "tags", "Failed to load tags"},
		{"/comments", "comments", "Failed to load comments"},
		{"/data", "artists", "Failed to load data"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			store := newStubRepository()
			store.failOn = tt.failOn
			handler := feed.NewHandler(feed.NewService(store))

			recorder, body := get(t, handler, tt.path)
			assert.Equal(t, http.StatusInternalServerError, recorder.Code)
			assert.Equal(t, tt.message, body["error"])
			assert.NotContains(t, recorder.Body.String(), "conn reset")
		})
	}
}
