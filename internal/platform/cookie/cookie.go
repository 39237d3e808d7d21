// Copyright (c) 2026 Editaliza. All rights reserved.

// Package cookie issues, reads and clears the auth-token cookie.
//
// The login handler, the logout handler and the request gate all touch the
// same cookie, so its attributes live in one place.
package cookie

import (
	"net/http"
	"time"

	"github.com/editaliza/editaliza/internal/platform/constants"
)

// Options defines how the auth cookie is issued.
type Options struct {
	// Secure restricts the cookie to HTTPS; enabled in production.
	Secure bool
	// MaxAge is the cookie lifetime; it matches the token validity window.
	MaxAge time.Duration
}

// SetToken issues the auth cookie carrying token.
func SetToken(writer http.ResponseWriter, token string, opts Options) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = constants.DefaultTokenTTL
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    token,
		Path:     constants.AuthCookiePath,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear removes the auth cookie from the client (Max-Age=0).
func Clear(writer http.ResponseWriter, opts Options) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AuthCookieName,
		Value:    "",
		Path:     constants.AuthCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Token returns the auth cookie value, or "" when the request carries none.
func Token(request *http.Request) string {
	c, err := request.Cookie(constants.AuthCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
