// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/recipebox/internal/platform/ctxutil"
	"github.com/taibuivan/recipebox/internal/platform/middleware"
	requestutil "github.com/taibuivan/recipebox/internal/platform/request"
	"github.com/taibuivan/recipebox/internal/platform/respond"
	"github.com/taibuivan/recipebox/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the /api/user endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with user routes.
//
// # Endpoints
//   - POST /signup : Creates a normal account and returns a token.
//   - POST /login  : Checks credentials and returns a token.
//   - GET  /me     : Returns the caller (gate).
//   - GET  /       : Lists accounts (gate + admin).
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/signup", handler.signup)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/me", handler.me)

		r.With(middleware.RequireAdmin).Get("/", handler.list)
	})

	return router
}

/*
Signup handles the creation of a new account.

POST /api/user/signup

Response:
  - 201: {"token": "..."}
  - 400: Missing username or password
  - 409: Username already taken
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input Credentials
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Signup(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "user_signed_up",
		slog.String("username", NormalizeUsername(input.Username)),
	)

	respond.Created(writer, map[string]string{FieldToken: token})
}

/*
Login authenticates an account.

POST /api/user/login

Response:
  - 200: {"token": "..."}
  - 404: User not found
  - 401: Wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input Credentials
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldToken: token})
}

// me returns the identity bound by the gate.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	who, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, who)
}

// list returns a page of accounts. Admin only.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	accounts, total, err := handler.authService.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, pagination.NewMeta(page.Page, page.Limit, total))
}
