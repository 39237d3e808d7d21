// Copyright (c) 2026 Editaliza. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/editaliza/editaliza/internal/auth"
	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/sec"
)

const testSecret = "auth-test-secret-that-is-long-enough"

// memoryUsers is an in-memory [auth.UserRepository].
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	failing error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*auth.User{}}
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memoryUsers) FindByIdentifier(_ context.Context, identifier string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	for _, user := range m.byID {
		if user.Login == identifier {
			copied := *user
			return &copied, nil
		}
	}
	for _, user := range m.byID {
		if strings.EqualFold(user.Email, identifier) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	for _, existing := range m.byID {
		if existing.Login == user.Login || existing.Email == user.Email {
			return auth.ErrDuplicateUser
		}
	}
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memoryUsers) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failing
}

func (m *memoryUsers) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

func (m *memoryUsers) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = err
}

// fixture bundles a service with its fake store and controllable clock.
type fixture struct {
	now     time.Time
	users   *memoryUsers
	tokens  *sec.TokenService
	service *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		now:   time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		users: newMemoryUsers(),
	}

	tokens, err := sec.NewTokenService(testSecret, constants.AuthIssuer, 24*time.Hour,
		sec.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.tokens = tokens
	f.service = auth.NewService(f.users, tokens)
	return f
}

// seed registers an artist account with the given credentials.
func (f *fixture) seed(t *testing.T, login, email, password string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Login:    login,
		Email:    email,
		Password: password,
		Name:     "Maria Souza",
		Type:     sec.UserTypeArtist,
	})
	require.NoError(t, err)
	return user
}

var errConnRefused = errors.New("dial tcp: connection refused")
