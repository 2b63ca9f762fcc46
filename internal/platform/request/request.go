// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/constants"
	"github.com/taibuivan/recipebox/internal/platform/ctxutil"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

The body is capped at [constants.MaxJSONBodyBytes]. The nil writer only skips
the "close the connection" hint net/http sends for oversized bodies.

Returns:
  - error: PayloadTooLarge past the cap, validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	body := http.MaxBytesReader(nil, request.Body, constants.MaxJSONBodyBytes)

	if err := json.NewDecoder(body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge("Request body is too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a positive integer URL parameter.

Returns:
  - int64: The parsed value
  - bool: false when the parameter is absent, malformed or not positive
*/
func Int64Param(request *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(request, name))
	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	return value, true
}

/*
Identity extracts the resolved identity from the request context.

Returns nil if the request did not pass the authentication gate.
*/
func Identity(request *http.Request) *identity.Identity {
	return ctxutil.GetIdentity(request.Context())
}

/*
RequiredIdentity ensures the request passed the gate and returns the identity.

Returns:
  - *identity.Identity: The resolved identity
  - error: apperr.Unauthorized if the gate was not mounted on this route
*/
func RequiredIdentity(request *http.Request) (*identity.Identity, error) {
	who := Identity(request)
	if who == nil {
		return nil, apperr.Unauthorized("No token provided")
	}
	return who, nil
}
