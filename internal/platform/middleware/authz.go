// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/constants"
	"github.com/taibuivan/recipebox/internal/platform/ctxutil"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/metrics"
	"github.com/taibuivan/recipebox/internal/platform/respond"
	"github.com/taibuivan/recipebox/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// UserResolver loads the account a verified token refers to.
// A missing account must be reported as a [dberr.ErrNotFound] chain.
type UserResolver interface {
	FindByID(ctx context.Context, id int64) (*identity.Identity, error)
}

// GateOption customises [Authenticate].
type GateOption func(*gate)

// WithRecorder counts rejections on the given recorder.
func WithRecorder(recorder metrics.Recorder) GateOption {
	return func(g *gate) {
		g.recorder = recorder
	}
}

type gate struct {
	verifier TokenVerifier
	resolver UserResolver
	recorder metrics.Recorder
}

// Authenticate is the required authentication gate.
//
// # Flow
//  1. Read the raw token from the 'authorization' header ('Bearer ' is tolerated).
//  2. If absent, abort with 401 "No token provided".
//  3. Verify signature and expiry via [TokenVerifier], else 401 "Invalid token".
//  4. Re-resolve the account by ID, 404 "User not found" if it no longer exists.
//  5. Bind the resolved [*identity.Identity] to the context and call next.
//
// The role carried by the token is not trusted: the stored account wins.
func Authenticate(verifier TokenVerifier, resolver UserResolver, opts ...GateOption) func(http.Handler) http.Handler {
	g := &gate{verifier: verifier, resolver: resolver, recorder: metrics.Nop{}}
	for _, opt := range opts {
		opt(g)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// 1. Token presence
			token := extractToken(request)
			if token == "" {
				g.reject(writer, request, metrics.ReasonMissingToken, apperr.Unauthorized("No token provided"))
				return
			}

			// 2. Token verification
			claims, err := g.verifier.Verify(token)
			if err != nil {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "token_verify_failed", slog.String("error", err.Error()))
				g.reject(writer, request, metrics.ReasonInvalidToken, apperr.Unauthorized("Invalid token"))
				return
			}

			// 3. Account resolution
			who, err := g.resolver.FindByID(ctx, claims.UserID)
			if err != nil {
				if dberr.IsNotFound(err) {
					g.reject(writer, request, metrics.ReasonUnknownUser, apperr.NotFound("User").WithCause(err))
					return
				}
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// 4. Context injection
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(ctx, who)))
		})
	}
}

func (g *gate) reject(writer http.ResponseWriter, request *http.Request, reason string, err *apperr.AppError) {
	g.recorder.RecordAuthRejection(reason)
	ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "token_rejected",
		slog.String("reason", reason),
	)
	respond.Error(writer, request, err)
}

// RequireAdmin blocks requests whose resolved identity is not an admin.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		who := ctxutil.GetIdentity(request.Context())

		if who == nil {
			respond.Error(writer, request, apperr.Unauthorized("No token provided"))
			return
		}

		if !who.IsAdmin() {
			respond.Error(writer, request, apperr.Forbidden("You are not an admin"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// extractToken returns the raw token, without an optional "Bearer " prefix.
func extractToken(request *http.Request) string {
	raw := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	prefix := constants.BearerPrefix
	if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
		raw = strings.TrimSpace(raw[len(prefix):])
	}
	return raw
}
