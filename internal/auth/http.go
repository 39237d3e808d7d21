// Copyright (c) 2026 Editaliza. All rights reserved.

package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/cookie"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	requestutil "github.com/editaliza/editaliza/internal/platform/request"
	"github.com/editaliza/editaliza/internal/platform/respond"
	"github.com/editaliza/editaliza/internal/platform/sec"
	"github.com/editaliza/editaliza/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the /api/auth endpoints.
type Handler struct {
	service *Service
	cookies cookie.Options
}

// NewHandler constructs a [Handler]. secureCookies marks the auth cookie
// Secure and should be true in production.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{
		service: service,
		cookies: cookie.Options{Secure: secureCookies, MaxAge: service.TokenValidity()},
	}
}

// CookieOptions returns the attributes this handler issues the cookie with,
// so other components clear it identically.
func (handler *Handler) CookieOptions() cookie.Options {
	return handler.cookies
}

// Routes returns a [chi.Router] with the authentication endpoints.
//
// # Endpoints
//   - POST /login    : checks credentials, sets the auth cookie
//   - POST /logout   : clears the auth cookie
//   - GET  /verify   : reports whether the cookie holds a valid token
//   - GET  /me       : the account the cookie belongs to
//   - POST /register : creates an account
//   - POST /setup    : checks the users table is provisioned
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/verify", handler.verify)
	router.Get("/me", handler.me)
	router.Post("/register", handler.register)
	router.Post("/setup", handler.setup)

	return router
}

// # Request & Response Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
	UserType string `json:"user_type" validate:"required,oneof=ARTIST PROPOSER"`
}

type loginUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"email,omitempty"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

type verifyResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          *loginUser `json:"user,omitempty"`
	Error         string     `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

/*
Login authenticates by login or email and password.

POST /api/auth/login

Response:
  - 200: {message, user:{id, login, email}} and the auth-token cookie
  - 400: empty or malformed body, missing fields
  - 401: unknown account or wrong password
  - 500: store failure
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identifier := input.Login
	if identifier == "" {
		identifier = input.Email
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, identifier).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(ctx, LoginInput{Identifier: identifier, Password: input.Password})
	if err != nil {
		if apperr.HasStatus(err, http.StatusUnauthorized) {
			ctxutil.GetLogger(ctx).InfoContext(ctx, "login_failed", slog.String("reason", "invalid_credentials"))
		}
		respond.Error(writer, request, err)
		return
	}

	cookie.SetToken(writer, result.Token, handler.cookies)
	ctxutil.GetLogger(ctx).InfoContext(ctx, "login_succeeded", slog.String("user_id", result.User.ID))

	respond.JSON(writer, http.StatusOK, loginResponse{
		Message: "Login successful",
		User: loginUser{
			ID:    result.User.ID,
			Login: result.User.Login,
			Email: result.User.Email,
		},
	})
}

// logout clears the auth cookie. Tokens are stateless, so there is nothing to revoke.
func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	cookie.Clear(writer, handler.cookies)
	respond.NoContent(writer)
}

/*
Verify reports whether the request's cookie holds a valid token.

GET /api/auth/verify

Response:
  - 200: {authenticated: true, user:{id, login}}
  - 401: {authenticated: false, error}
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	token := cookie.Token(request)
	if token == "" {
		respond.JSON(writer, http.StatusUnauthorized, verifyResponse{Error: "Token not found"})
		return
	}

	claims, err := handler.service.Verify(request.Context(), token)
	if err != nil {
		respond.JSON(writer, http.StatusUnauthorized, verifyResponse{Error: "Invalid token"})
		return
	}

	respond.JSON(writer, http.StatusOK, verifyResponse{
		Authenticated: true,
		User:          &loginUser{ID: claims.UserID, Login: claims.Identifier},
	})
}

/*
Me returns the account named by the cookie's token.

GET /api/auth/me

Response:
  - 200: {data: UserSummary}
  - 401: missing or invalid token, or the account is gone
  - 503: the user store is unavailable
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	token := cookie.Token(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), token)
	switch {
	case err == nil:
		respond.OK(writer, user)
	case errors.Is(err, ErrStoreUnavailable):
		respond.Error(writer, request, apperr.ServiceUnavailable("User store unavailable", err))
	case errors.Is(err, ErrUserNotFound):
		cookie.Clear(writer, handler.cookies)
		respond.Error(writer, request, apperr.Unauthorized("User no longer exists").WithCause(err))
	default:
		respond.Error(writer, request, apperr.Unauthorized(tokenFailureMessage(err)).WithCause(err))
	}
}

/*
Register creates an account.

POST /api/auth/register

Response:
  - 201: {data: UserSummary}
  - 400: validation failure
  - 409: login or email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), RegisterInput{
		Login:    input.Login,
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Type:     sec.UserType(input.UserType),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user.Summary())
}

// setup reports whether the users table is provisioned.
func (handler *Handler) setup(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Setup(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, messageResponse{Message: "Users table exists and is configured"})
}

func tokenFailureMessage(err error) string {
	if errors.Is(err, sec.ErrTokenExpired) {
		return "Token expired"
	}
	return "Invalid token"
}
