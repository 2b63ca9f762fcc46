// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: Token issuer and the header carrying the identity token.
  - Storage: Redis key prefixes and upload limits.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "recipebox-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Multipart uploads need more room than plain JSON bodies.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in identity tokens.
	AuthIssuer = "recipebox.app"

	// HeaderAuthorization carries the raw identity token.
	HeaderAuthorization = "authorization"

	// BearerPrefix is tolerated in front of the token but not required.
	BearerPrefix = "Bearer "
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderContentType   = "Content-Type"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldToken   = "token"
)

// # Database Schemas

const (
	SchemaCore  = "core"
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRecipe = "recipe:by_id:"
)

// # Uploads

const (
	// DefaultMaxUploadBytes bounds a single recipe image.
	DefaultMaxUploadBytes = 5 << 20

	// MaxJSONBodyBytes bounds a JSON request body.
	MaxJSONBodyBytes = 1 << 20

	// MultipartMemoryBytes is how much of a multipart body is buffered in memory.
	MultipartMemoryBytes = 1 << 20

	// ImageFormField is the multipart field carrying the recipe image.
	ImageFormField = "image"

	// ImageRoutePrefix is where disk-stored images are served from.
	ImageRoutePrefix = "/images"
)
