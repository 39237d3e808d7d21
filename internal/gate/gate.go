// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package gate implements the request gate that runs before every page handler.

For each request it classifies the path against a static [RouteTable] and
decides one of three outcomes:

  - Allow: the page handler runs.
  - RedirectLogin: 302 to /login?redirect=<path>; a stale cookie is cleared.
  - RedirectHome: 302 to / for signed-in visitors of public pages.

Decision table:

	class      token    verify   outcome
	asset      any      -        Allow
	public     none     -        Allow
	public     present  ok       RedirectHome
	public     present  fails    Allow
	protected  none     -        RedirectLogin (with redirect=<path>)
	protected  present  ok       Allow
	protected  present  fails    RedirectLogin + clear cookie

Every verification failure (malformed, bad signature, expired, unknown user,
store outage, or the verifier itself panicking) collapses into the same
"unauthenticated" outcome. The cause is logged, never returned to the client.
The gate holds no mutable state and never writes a 5xx.
*/
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	pathpkg "path"

	"github.com/editaliza/editaliza/internal/platform/constants"
	"github.com/editaliza/editaliza/internal/platform/cookie"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	"github.com/editaliza/editaliza/internal/platform/sec"
)

// # Contracts

// Verifier validates a token and returns its claims.
//
// Implementations must be safe for concurrent use and free of side effects.
type Verifier interface {
	Verify(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// VerifierFunc adapts a function to [Verifier].
type VerifierFunc func(ctx context.Context, token string) (*sec.AuthClaims, error)

// Verify calls fn(ctx, token).
func (fn VerifierFunc) Verify(ctx context.Context, token string) (*sec.AuthClaims, error) {
	return fn(ctx, token)
}

// # Decisions

// Decision is the terminal state of the gate for one request.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

// String returns the decision name used in logs.
func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "allow"
	}
}

// Outcome is the full result of [Gate.Decide].
type Outcome struct {
	Decision Decision
	Class    RouteClass

	// Location is the redirect target; empty for Allow.
	Location string

	// ClearCookie asks the caller to delete the auth cookie.
	ClearCookie bool

	// Claims is set when the request carried a valid token.
	Claims *sec.AuthClaims

	// Cause is the verification failure, kept for logs only.
	Cause error
}

// # Gate

// Gate is the authentication checkpoint for page routes.
type Gate struct {
	routes   RouteTable
	verifier Verifier
	cookies  cookie.Options
}

// Option customizes a [Gate].
type Option func(*Gate)

// WithRoutes replaces the default route table.
func WithRoutes(routes RouteTable) Option {
	return func(g *Gate) { g.routes = routes }
}

// WithCookieOptions sets the attributes used when clearing the auth cookie.
func WithCookieOptions(opts cookie.Options) Option {
	return func(g *Gate) { g.cookies = opts }
}

// New constructs a Gate backed by verifier.
func New(verifier Verifier, opts ...Option) *Gate {
	g := &Gate{
		routes:   DefaultRoutes(),
		verifier: verifier,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide evaluates the decision table for path and an optional token.
func (g *Gate) Decide(ctx context.Context, path, token string) Outcome {
	class := g.routes.Classify(path)

	switch class {
	case ClassAsset:
		return Outcome{Decision: Allow, Class: class}

	case ClassPublic:
		if token == "" {
			return Outcome{Decision: Allow, Class: class}
		}
		claims, err := g.verify(ctx, token)
		if err != nil {
			// A stale token must not lock anyone out of the login page.
			return Outcome{Decision: Allow, Class: class, Cause: err}
		}
		return Outcome{Decision: RedirectHome, Class: class, Location: constants.PathHome, Claims: claims}

	default:
		if token == "" {
			return Outcome{Decision: RedirectLogin, Class: class, Location: loginLocation(path)}
		}
		claims, err := g.verify(ctx, token)
		if err != nil {
			return Outcome{
				Decision:    RedirectLogin,
				Class:       class,
				Location:    loginLocation(path),
				ClearCookie: true,
				Cause:       err,
			}
		}
		return Outcome{Decision: Allow, Class: class, Claims: claims}
	}
}

// Middleware applies the gate to every request not excluded by the route table.
//
// Decisions are made on the cleaned path, the same path the router and the
// page handler resolve, so "/x/../feed" is gated as "/feed".
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path := CanonicalPath(request.URL.Path)
		if g.routes.Excludes(path) {
			next.ServeHTTP(writer, request)
			return
		}

		ctx := request.Context()
		outcome := g.Decide(ctx, path, cookie.Token(request))
		logOutcome(ctx, path, outcome)

		switch outcome.Decision {
		case Allow:
			if outcome.Claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(ctx, outcome.Claims))
			}
			next.ServeHTTP(writer, request)

		default:
			if outcome.ClearCookie {
				cookie.Clear(writer, g.cookies)
			}
			http.Redirect(writer, request, outcome.Location, http.StatusFound)
		}
	})
}

// CanonicalPath resolves dot segments and duplicate slashes in p.
func CanonicalPath(p string) string {
	return pathpkg.Clean("/" + p)
}

// verify calls the verifier, turning a panic into an ordinary failure.
func (g *Gate) verify(ctx context.Context, token string) (claims *sec.AuthClaims, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			claims, err = nil, fmt.Errorf("gate: verifier panicked: %v", recovered)
		}
	}()

	claims, err = g.verifier.Verify(ctx, token)
	if err == nil && claims == nil {
		err = errors.New("gate: verifier returned no claims")
	}
	return claims, err
}

// loginLocation builds /login?redirect=<path>.
func loginLocation(path string) string {
	query := url.Values{constants.QueryRedirect: []string{path}}
	return constants.PathLogin + "?" + query.Encode()
}

// logOutcome records the decision and, internally, why a token was rejected.
func logOutcome(ctx context.Context, path string, outcome Outcome) {
	logger := ctxutil.GetLogger(ctx)

	attrs := []any{
		slog.String("path", path),
		slog.String("class", outcome.Class.String()),
		slog.String("decision", outcome.Decision.String()),
	}
	if outcome.Cause != nil {
		attrs = append(attrs,
			slog.String("reason", Reason(outcome.Cause)),
			slog.String("error", outcome.Cause.Error()),
		)
	}

	if outcome.Decision == Allow && outcome.Cause == nil {
		logger.DebugContext(ctx, "gate_decision", attrs...)
		return
	}
	logger.InfoContext(ctx, "gate_decision", attrs...)
}

// Reason labels a verification failure for telemetry.
//
// Errors from other packages may label themselves by implementing Reason() string.
func Reason(err error) string {
	var labelled interface{ Reason() string }
	switch {
	case errors.As(err, &labelled):
		return labelled.Reason()
	case errors.Is(err, sec.ErrTokenExpired):
		return "expired"
	case errors.Is(err, sec.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, sec.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "lookup_failed"
	}
}
