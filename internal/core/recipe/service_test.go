// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/recipebox/internal/core/recipe"
	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/storage"
	"github.com/taibuivan/recipebox/pkg/pagination"
	"github.com/taibuivan/recipebox/pkg/pointer"
)

const testMaxUpload = 1 << 10

type serviceFixture struct {
	service  *recipe.Service
	recipes  *memoryRecipes
	images   *memoryImages
	recorder *countingRecorder
}

func newServiceFixture() *serviceFixture {
	recipes := newMemoryRecipes()
	images := newMemoryImages()
	recorder := newCountingRecorder()
	return &serviceFixture{
		service:  recipe.NewService(recipes, images, recorder, testMaxUpload),
		recipes:  recipes,
		images:   images,
		recorder: recorder,
	}
}

var alice = &identity.Identity{ID: 1, Username: "alice", Role: identity.RoleNormal}

func pngUpload() *storage.Upload {
	return &storage.Upload{Filename: "pie.png", Body: bytes.NewReader(pngBytes)}
}

/*
TestService_Create covers trimming, ownership and image storage.
*/
func TestService_Create(t *testing.T) {
	fx := newServiceFixture()

	created, err := fx.service.Create(context.Background(), alice, recipe.Input{
		Title:       "  Apple Pie ",
		Description: "Bake it & serve\n",
	}, pngUpload())
	require.NoError(t, err)

	assert.Equal(t, "Apple Pie", created.Title)
	assert.Equal(t, "Bake it & serve", created.Description)
	assert.Equal(t, alice.ID, created.OwnerID)
	require.NotNil(t, created.Image)
	assert.Equal(t, "/images/1.png", *created.Image)
	assert.Equal(t, 1, fx.images.count())
	assert.Equal(t, 1, fx.recorder.stored[storage.BackendDisk])

	stored, ok := fx.recipes.get(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Title, stored.Title)
}

/*
TestService_StoresTextAsSent verifies angle brackets and entities are not rewritten.
*/
func TestService_StoresTextAsSent(t *testing.T) {
	tests := []string{
		"Mix if a<b and b>c",
		"x &lt;script&gt;alert(1)&lt;/script&gt;",
		"<b>Bold</b> claims & 3 < 4",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			fx := newServiceFixture()
			seeded := fx.recipes.seed(alice.ID, "Soup", nil)

			updated, err := fx.service.Update(context.Background(), seeded, recipe.Input{Title: text, Description: text}, nil)
			require.NoError(t, err)
			assert.Equal(t, text, updated.Title)

			stored, ok := fx.recipes.get(seeded.ID)
			require.True(t, ok)
			assert.Equal(t, text, stored.Title)
			assert.Equal(t, text, stored.Description)
		})
	}
}

/*
TestService_Create_Validation verifies field errors and image rejections.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  recipe.Input
		image  *storage.Upload
		status int
		field  string
	}{
		{"missing_title", recipe.Input{Description: "x"}, nil, http.StatusBadRequest, recipe.FieldTitle},
		{"blank_title", recipe.Input{Title: "   ", Description: "x"}, nil, http.StatusBadRequest, recipe.FieldTitle},
		{"missing_description", recipe.Input{Title: "x"}, nil, http.StatusBadRequest, recipe.FieldDescription},
		{"long_title", recipe.Input{Title: strings.Repeat("a", recipe.MaxTitleLength+1), Description: "x"}, nil, http.StatusBadRequest, recipe.FieldTitle},
		{"not_an_image", recipe.Input{Title: "x", Description: "x"}, &storage.Upload{Body: strings.NewReader("plain text")}, http.StatusBadRequest, recipe.FieldImage},
		{"too_large", recipe.Input{Title: "x", Description: "x"}, &storage.Upload{Body: bytes.NewReader(append(append([]byte{}, pngBytes...), make([]byte, testMaxUpload)...))}, http.StatusRequestEntityTooLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newServiceFixture()

			_, err := fx.service.Create(context.Background(), alice, tt.input, tt.image)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			if tt.field != "" {
				require.NotEmpty(t, ae.Details)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			}
			assert.Zero(t, fx.images.count())
		})
	}
}

/*
TestService_Create_DiscardsImageOnFailure verifies no orphan is left behind.
*/
func TestService_Create_DiscardsImageOnFailure(t *testing.T) {
	fx := newServiceFixture()
	fx.recipes.failOn = "create"

	_, err := fx.service.Create(context.Background(), alice, recipe.Input{Title: "x", Description: "y"}, pngUpload())
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))

	assert.Zero(t, fx.images.count())
	assert.Equal(t, []string{"/images/1.png"}, fx.images.deleted)
}

/*
TestService_Get verifies the not found message.
*/
func TestService_Get(t *testing.T) {
	fx := newServiceFixture()
	seeded := fx.recipes.seed(alice.ID, "Soup", nil)

	found, err := fx.service.Get(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", found.Title)

	_, err = fx.service.Get(context.Background(), 999)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
	assert.Equal(t, "Recipe not found", err.Error())
}

/*
TestService_Update verifies image replacement and retention.
*/
func TestService_Update(t *testing.T) {
	fx := newServiceFixture()
	seeded := fx.recipes.seed(alice.ID, "Soup", pointer.To("/images/old.png"))

	kept, err := fx.service.Update(context.Background(), seeded, recipe.Input{Title: "Stew", Description: "Slow"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stew", kept.Title)
	assert.Equal(t, "/images/old.png", *kept.Image)
	assert.Equal(t, seeded.OwnerID, kept.OwnerID)
	assert.Empty(t, fx.images.deleted)

	replaced, err := fx.service.Update(context.Background(), kept, recipe.Input{Title: "Stew", Description: "Slow"}, pngUpload())
	require.NoError(t, err)
	assert.Equal(t, "/images/1.png", *replaced.Image)
	assert.Equal(t, []string{"/images/old.png"}, fx.images.deleted)

	_, err = fx.service.Update(context.Background(), &recipe.Recipe{ID: 42, OwnerID: alice.ID}, recipe.Input{Title: "a", Description: "b"}, nil)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}

/*
TestService_Delete verifies the row and its image are removed.
*/
func TestService_Delete(t *testing.T) {
	fx := newServiceFixture()
	seeded := fx.recipes.seed(alice.ID, "Soup", pointer.To("/images/soup.png"))

	require.NoError(t, fx.service.Delete(context.Background(), seeded))
	_, ok := fx.recipes.get(seeded.ID)
	assert.False(t, ok)
	assert.Equal(t, []string{"/images/soup.png"}, fx.images.deleted)

	err := fx.service.Delete(context.Background(), seeded)
	assert.True(t, apperr.HasStatus(err, http.StatusNotFound))
}

/*
TestService_List verifies paging is passed through.
*/
func TestService_List(t *testing.T) {
	fx := newServiceFixture()
	for _, title := range []string{"a", "b", "c"} {
		fx.recipes.seed(alice.ID, title, nil)
	}

	page, total, err := fx.service.List(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].Title)
}
