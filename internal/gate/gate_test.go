// Copyright (c) 2026 Editaliza. All rights reserved.

package gate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/editaliza/editaliza/internal/gate"
	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	"github.com/editaliza/editaliza/internal/platform/sec"
)

const testSecret = "gate-test-secret-long-enough-000001"

// clock is a settable time source shared by issuer and verifier.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

// fixture wires a real token service behind the gate.
type fixture struct {
	clock  *clock
	tokens *sec.TokenService
	gate   *gate.Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := &clock{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
	tokens, err := sec.NewTokenService(testSecret, constants.AuthIssuer, 24*time.Hour, sec.WithClock(c.Now))
	require.NoError(t, err)

	verifier := gate.VerifierFunc(func(_ context.Context, token string) (*sec.AuthClaims, error) {
		return tokens.VerifyToken(token)
	})
	return &fixture{clock: c, tokens: tokens, gate: gate.New(verifier)}
}

func (f *fixture) issue(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.GenerateToken("42", "a@b.com")
	require.NoError(t, err)
	return token
}

// serve runs one request through the gate middleware and reports whether
// the downstream handler ran.
func (f *fixture) serve(path, token string) (*httptest.ResponseRecorder, *sec.AuthClaims, bool) {
	var (
		reached bool
		claims  *sec.AuthClaims
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims = ctxutil.GetAuthUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.AddCookie(&http.Cookie{Name: constants.AuthCookieName, Value: token})
	}
	recorder := httptest.NewRecorder()
	f.gate.Middleware(next).ServeHTTP(recorder, request)
	return recorder, claims, reached
}

func clearsCookie(recorder *httptest.ResponseRecorder) bool {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == constants.AuthCookieName && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

/*
TestRouteTable_Classify checks the static partition, including prefix boundaries.
*/
func TestRouteTable_Classify(t *testing.T) {
	routes := gate.DefaultRoutes()

	tests := []struct {
		path  string
		class gate.RouteClass
	}{
		{"/login", gate.ClassPublic},
		{"/login/google", gate.ClassPublic},
		{"/cadastro", gate.ClassPublic},
		{"/login-extra", gate.ClassProtected},
		{"/loginx", gate.ClassProtected},
		{"/", gate.ClassProtected},
		{"/dashboard", gate.ClassProtected},
		{"/feed", gate.ClassProtected},
		{"/_next/static/chunk.js", gate.ClassAsset},
		{"/_next/data/build/feed", gate.ClassAsset},
		{"/favicon.ico", gate.ClassAsset},
		{"/images/logo.png", gate.ClassAsset},
		{"/login/logo.svg", gate.ClassAsset},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.class, routes.Classify(tt.path))
		})
	}
}

/*
TestRouteTable_Excludes checks which paths the gate never intercepts.
*/
func TestRouteTable_Excludes(t *testing.T) {
	routes := gate.DefaultRoutes()

	assert.True(t, routes.Excludes("/api"))
	assert.True(t, routes.Excludes("/api/auth/login"))
	assert.True(t, routes.Excludes("/_next/static/app.js"))
	assert.True(t, routes.Excludes("/health"))
	assert.False(t, routes.Excludes("/apiary"))
	assert.False(t, routes.Excludes("/dashboard"))
	assert.False(t, routes.Excludes("/login"))
}

/*
TestGate_ProtectedWithoutToken redirects to login carrying the original path.
*/
func TestGate_ProtectedWithoutToken(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/", "/dashboard", "/feed", "/editais/7", "/login-extra"} {
		t.Run(path, func(t *testing.T) {
			recorder, _, reached := f.serve(path, "")

			assert.False(t, reached)
			assert.Equal(t, http.StatusFound, recorder.Code)

			location, err := url.Parse(recorder.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, constants.PathLogin, location.Path)
			assert.Equal(t, path, location.Query().Get(constants.QueryRedirect))
			assert.False(t, clearsCookie(recorder))
		})
	}
}

/*
TestGate_DotSegments gates a path the way the router resolves it, so dot
segments neither look like assets nor escape through an excluded prefix.
*/
func TestGate_DotSegments(t *testing.T) {
	f := newFixture(t)

	tests := map[string]string{
		"/dashboard/.":             "/dashboard",
		"/x/../dashboard":          "/dashboard",
		"/api/../dashboard":        "/dashboard",
		"/_next/static/../../feed": "/feed",
		"//dashboard":              "/dashboard",
		"/health/../editais/7":     "/editais/7",
	}

	for raw, clean := range tests {
		t.Run(raw, func(t *testing.T) {
			recorder, _, reached := f.serve(raw, "")

			assert.False(t, reached)
			assert.Equal(t, http.StatusFound, recorder.Code)

			location, err := url.Parse(recorder.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, constants.PathLogin, location.Path)
			assert.Equal(t, clean, location.Query().Get(constants.QueryRedirect))
		})
	}

	recorder, _, reached := f.serve("/x/../login", "")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCanonicalPath(t *testing.T) {
	assert.Equal(t, "/dashboard", gate.CanonicalPath("/dashboard/."))
	assert.Equal(t, "/dashboard", gate.CanonicalPath("/api/../dashboard"))
	assert.Equal(t, "/", gate.CanonicalPath(""))
	assert.Equal(t, "/", gate.CanonicalPath("/../.."))
	assert.Equal(t, "/_next/static/app.js", gate.CanonicalPath("/_next/static/app.js"))
}

/*
TestGate_PublicWithoutToken lets anonymous visitors reach public pages.
*/
func TestGate_PublicWithoutToken(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/login", "/login/google", "/cadastro"} {
		t.Run(path, func(t *testing.T) {
			recorder, claims, reached := f.serve(path, "")

			assert.True(t, reached)
			assert.Nil(t, claims)
			assert.Equal(t, http.StatusOK, recorder.Code)
		})
	}
}

/*
TestGate_ScenarioValidTokenOnProtected: issue, cookie, then /dashboard is allowed.
*/
func TestGate_ScenarioValidTokenOnProtected(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t)

	f.clock.now = f.clock.now.Add(time.Hour)
	recorder, claims, reached := f.serve("/dashboard", token)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Identifier)
}

/*
TestGate_ScenarioValidTokenOnLogin sends signed-in users home.
*/
func TestGate_ScenarioValidTokenOnLogin(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t)

	recorder, _, reached := f.serve("/login", token)

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, constants.PathHome, recorder.Header().Get("Location"))
	assert.False(t, clearsCookie(recorder))
}

/*
TestGate_ScenarioExpiredTokenOnProtected redirects to login and clears the cookie.
*/
func TestGate_ScenarioExpiredTokenOnProtected(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t)

	f.clock.now = f.clock.now.Add(24*time.Hour + time.Second)
	recorder, _, reached := f.serve("/dashboard", token)

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, constants.PathLogin, location.Path)
	assert.True(t, clearsCookie(recorder))
}

/*
TestGate_StaleTokenOnPublic treats an invalid token on a public page as anonymous.
*/
func TestGate_StaleTokenOnPublic(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t)
	f.clock.now = f.clock.now.Add(48 * time.Hour)

	recorder, claims, reached := f.serve("/login", token)

	assert.True(t, reached)
	assert.Nil(t, claims)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, clearsCookie(recorder))
}

/*
TestGate_TamperedToken behaves exactly like a missing-but-present token.
*/
func TestGate_TamperedToken(t *testing.T) {
	f := newFixture(t)
	token := []byte(f.issue(t))
	token[len(token)-2] ^= 0x01

	recorder, _, reached := f.serve("/feed", string(token))

	assert.False(t, reached)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.True(t, clearsCookie(recorder))
}

/*
TestGate_AssetsBypass never consults the verifier for asset paths.
*/
func TestGate_AssetsBypass(t *testing.T) {
	called := false
	g := gate.New(gate.VerifierFunc(func(context.Context, string) (*sec.AuthClaims, error) {
		called = true
		return nil, errors.New("unreachable")
	}))

	for _, path := range []string{"/_next/static/x.js", "/favicon.ico", "/logo.png", "/login/bg.jpg"} {
		outcome := g.Decide(context.Background(), path, "garbage")
		assert.Equal(t, gate.Allow, outcome.Decision, path)
		assert.Equal(t, gate.ClassAsset, outcome.Class, path)
	}
	assert.False(t, called)
}

/*
TestGate_VerifierFailures collapses errors and panics into "unauthenticated".
*/
func TestGate_VerifierFailures(t *testing.T) {
	verifiers := map[string]gate.VerifierFunc{
		"error": func(context.Context, string) (*sec.AuthClaims, error) {
			return nil, errors.New("store unavailable")
		},
		"panic": func(context.Context, string) (*sec.AuthClaims, error) {
			panic("boom")
		},
		"nil_claims": func(context.Context, string) (*sec.AuthClaims, error) {
			return nil, nil
		},
	}

	for name, verifier := range verifiers {
		t.Run(name, func(t *testing.T) {
			g := gate.New(verifier)

			protected := g.Decide(context.Background(), "/dashboard", "tok")
			assert.Equal(t, gate.RedirectLogin, protected.Decision)
			assert.True(t, protected.ClearCookie)
			assert.Error(t, protected.Cause)

			public := g.Decide(context.Background(), "/login", "tok")
			assert.Equal(t, gate.Allow, public.Decision)
			assert.Nil(t, public.Claims)
		})
	}
}

/*
TestGate_ExcludedPathsPassThrough leaves API and health-check paths untouched.
*/
func TestGate_ExcludedPathsPassThrough(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/editals", "/api/auth/verify", "/health"} {
		recorder, _, reached := f.serve(path, "")
		assert.True(t, reached, path)
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}

/*
TestGate_ConcurrentVerification checks that the same token verifies identically
across concurrent requests.
*/
func TestGate_ConcurrentVerification(t *testing.T) {
	f := newFixture(t)
	token := f.issue(t)

	const workers = 16
	results := make(chan gate.Decision, workers)
	for i := 0; i < workers; i++ {
		go func() {
			results <- f.gate.Decide(context.Background(), "/feed", token).Decision
		}()
	}
	for i := 0; i < workers; i++ {
		assert.Equal(t, gate.Allow, <-results)
	}
}

/*
TestReason labels each verification failure kind.
*/
func TestReason(t *testing.T) {
	assert.Equal(t, "expired", gate.Reason(sec.ErrTokenExpired))
	assert.Equal(t, "signature_invalid", gate.Reason(sec.ErrSignatureInvalid))
	assert.Equal(t, "malformed", gate.Reason(sec.ErrMalformedToken))
	assert.Equal(t, "canceled", gate.Reason(context.Canceled))
	assert.Equal(t, "lookup_failed", gate.Reason(errors.New("x")))
}
