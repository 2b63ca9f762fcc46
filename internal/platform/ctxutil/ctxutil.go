// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/recipebox/internal/platform/ctxkey"
	"github.com/taibuivan/recipebox/internal/platform/identity"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithIdentity binds the resolved identity to the request context.
func WithIdentity(ctx context.Context, who *identity.Identity) context.Context {
	return context.WithValue(ctx, ctxkey.KeyIdentity, who)
}

// GetIdentity retrieves the [*identity.Identity] bound by the authentication gate.
// Returns nil for requests that did not pass the gate.
func GetIdentity(ctx context.Context) *identity.Identity {
	who, ok := ctx.Value(ctxkey.KeyIdentity).(*identity.Identity)
	if !ok {
		return nil
	}
	return who
}
