// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/middleware"
	"github.com/taibuivan/recipebox/internal/platform/sec"
	"github.com/taibuivan/recipebox/internal/users/auth"
)

type userAPI struct {
	router http.Handler
	users  *memoryUsers
	tokens *sec.TokenService
}

func newUserAPI(t *testing.T) *userAPI {
	t.Helper()

	service, users, tokens := newService(t)
	handler := auth.NewHandler(service)

	router := chi.NewRouter()
	router.Mount("/api/user", handler.Routes(middleware.Authenticate(tokens, users)))

	return &userAPI{router: router, users: users, tokens: tokens}
}

func (api *userAPI) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("authorization", token)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

type tokenEnvelope struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

/*
TestSignupEndpoint verifies the alice/pw123 scenario end to end.
*/
func TestSignupEndpoint(t *testing.T) {
	api := newUserAPI(t)

	rec := api.do(http.MethodPost, "/api/user/signup", `{"username":"alice","password":"pw123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode[tokenEnvelope](t, rec)
	claims, err := api.tokens.Verify(body.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleNormal, claims.Role)
	assert.Equal(t, "alice", claims.Username)

	rec = api.do(http.MethodPost, "/api/user/signup", `{"username":"alice","password":"pw123"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already taken", decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodPost, "/api/user/signup", `{"username":"bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username and password are required", decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodPost, "/api/user/signup", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

/*
TestLoginEndpoint verifies the wrong password and unknown user messages.
*/
func TestLoginEndpoint(t *testing.T) {
	api := newUserAPI(t)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/user/signup", `{"username":"alice","password":"pw123"}`, "").Code)

	rec := api.do(http.MethodPost, "/api/user/login", `{"username":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Wrong password", decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodPost, "/api/user/login", `{"username":"nobody","password":"pw123"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode[errorBody](t, rec).Message)

	rec = api.do(http.MethodPost, "/api/user/login", `{"username":"alice","password":"pw123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[tokenEnvelope](t, rec).Data.Token)
}

/*
TestMeEndpoint verifies that the gate binds the stored identity.
*/
func TestMeEndpoint(t *testing.T) {
	api := newUserAPI(t)

	rec := api.do(http.MethodGet, "/api/user/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "No token provided", decode[errorBody](t, rec).Message)

	token := decode[tokenEnvelope](t, api.do(http.MethodPost, "/api/user/signup", `{"username":"alice","password":"pw123"}`, "")).Data.Token

	rec = api.do(http.MethodGet, "/api/user/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

/*
TestListEndpoint verifies the admin role gate on the account listing.
*/
func TestListEndpoint(t *testing.T) {
	api := newUserAPI(t)

	token := decode[tokenEnvelope](t, api.do(http.MethodPost, "/api/user/signup", `{"username":"alice","password":"pw123"}`, "")).Data.Token

	rec := api.do(http.MethodGet, "/api/user/", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not an admin", decode[errorBody](t, rec).Message)

	// The gate re-reads the role from the store, so promotion applies to the old token.
	claims, err := api.tokens.Verify(token)
	require.NoError(t, err)
	api.users.promote(claims.UserID)

	rec = api.do(http.MethodGet, "/api/user/?limit=10", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	_, err = api.users.FindByID(context.Background(), claims.UserID)
	require.NoError(t, err)
}
