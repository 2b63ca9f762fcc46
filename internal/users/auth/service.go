// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/sec"
	"github.com/taibuivan/recipebox/internal/platform/validate"
	"github.com/taibuivan/recipebox/pkg/pagination"
)

// # Contracts & Types

// TokenIssuer signs identity tokens. Implemented by [sec.TokenService].
type TokenIssuer interface {
	Issue(subject identity.Identity) (string, error)
}

// Service implements signup, login and account listing.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed with the token service in mind.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, tokens TokenIssuer) *Service {
	return &Service{
		userRepository: users,
		tokenIssuer:    tokens,
	}
}

// errMissingCredentials is shared by signup and login.
var errMissingCredentials = apperr.BadRequest("Username and password are required")

// # Registration Flow

/*
Signup creates a normal account and returns a token for it.

Parameters:
  - context: context.Context
  - input: Credentials

Returns:
  - string: Signed identity token
  - error: BadRequest, ValidationError, Conflict or internal failures
*/
func (service *Service) Signup(context context.Context, input Credentials) (string, error) {
	username := NormalizeUsername(input.Username)
	if username == "" || input.Password == "" {
		return "", errMissingCredentials
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldUsername, username, MaxUsernameLength).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)
	if err := validator.Err(); err != nil {
		return "", err
	}

	// Fast path for the common conflict. The unique constraint still decides races.
	_, err := service.userRepository.FindByUsername(context, username)
	switch {
	case err == nil:
		return "", apperr.Conflict("Username already taken")
	case !dberr.IsNotFound(err):
		return "", fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &identity.Identity{
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         identity.RoleNormal,
	}

	if err := service.userRepository.Create(context, account); err != nil {
		if errors.Is(err, dberr.ErrConflict) {
			return "", apperr.Conflict("Username already taken").WithCause(err)
		}
		return "", fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	return service.issue(account)
}

// # Authentication Flow

/*
Login checks credentials and returns a fresh token.

The original messages are kept: an unknown username is a 404 and a wrong
password a 401.

Parameters:
  - context: context.Context
  - input: Credentials

Returns:
  - string: Signed identity token
  - error: BadRequest, NotFound, Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input Credentials) (string, error) {
	username := NormalizeUsername(input.Username)
	if username == "" || input.Password == "" {
		return "", errMissingCredentials
	}

	account, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		if dberr.IsNotFound(err) {
			return "", apperr.NotFound("User").WithCause(err)
		}
		return "", fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	// bcrypt comparison is constant-time.
	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return "", apperr.Unauthorized("Wrong password")
	}

	return service.issue(account)
}

// # Administration

/*
List returns one page of accounts for the admin listing.
*/
func (service *Service) List(context context.Context, page pagination.Params) ([]*identity.Identity, int, error) {
	accounts, total, err := service.userRepository.List(context, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("auth_service_list_failed: %w", err)
	}
	return accounts, total, nil
}

// issue signs a token. Signing errors are never shown to clients.
func (service *Service) issue(account *identity.Identity) (string, error) {
	token, err := service.tokenIssuer.Issue(*account)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_issue_failed: %w", err))
	}
	return token, nil
}
