// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/ctxutil"
	"github.com/taibuivan/recipebox/internal/platform/dberr"
	"github.com/taibuivan/recipebox/internal/platform/identity"
	"github.com/taibuivan/recipebox/internal/platform/metrics"
	"github.com/taibuivan/recipebox/internal/platform/storage"
	"github.com/taibuivan/recipebox/internal/platform/validate"
	"github.com/taibuivan/recipebox/pkg/pagination"
	"github.com/taibuivan/recipebox/pkg/pointer"
)

// Service implements recipe use cases. Authorization is decided by the
// handler before any mutating method is called.
type Service struct {
	repository     Repository
	images         storage.ImageStore
	recorder       metrics.Recorder
	maxUploadBytes int64
}

// NewService constructs a new [Service].
func NewService(repository Repository, images storage.ImageStore, recorder metrics.Recorder, maxUploadBytes int64) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		repository:     repository,
		images:         images,
		recorder:       recorder,
		maxUploadBytes: maxUploadBytes,
	}
}

// # Queries

// Get returns a single recipe or a 404 AppError.
func (service *Service) Get(context context.Context, id int64) (*Recipe, error) {
	found, err := service.repository.FindByID(context, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Recipe").WithCause(err)
		}
		return nil, fmt.Errorf("recipe_service_get_failed: %w", err)
	}
	return found, nil
}

// List returns one page of recipes, newest first.
func (service *Service) List(context context.Context, page pagination.Params) ([]*Recipe, int, error) {
	recipes, total, err := service.repository.List(context, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("recipe_service_list_failed: %w", err)
	}
	return recipes, total, nil
}

// # Mutations

/*
Create persists a recipe owned by the caller.

Parameters:
  - context: context.Context
  - owner: *identity.Identity (resolved by the gate)
  - input: Input
  - image: *storage.Upload (optional)

Returns:
  - *Recipe: Created entity
  - error: ValidationError, PayloadTooLarge or internal failures
*/
func (service *Service) Create(context context.Context, owner *identity.Identity, input Input, image *storage.Upload) (*Recipe, error) {
	input = service.clean(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	created := &Recipe{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	ref, err := service.saveImage(context, image)
	if err != nil {
		return nil, err
	}
	created.Image = ref

	if err := service.repository.Create(context, created); err != nil {
		service.discardImage(context, ref)
		if errors.Is(err, dberr.ErrForeignKey) {
			// The owner vanished between the gate and the insert.
			return nil, apperr.NotFound("User").WithCause(err)
		}
		return nil, fmt.Errorf("recipe_service_create_failed: %w", err)
	}

	return created, nil
}

/*
Update replaces title and description of an already authorized recipe.

A new image replaces the old one, which is removed after the row is written.
Without a new image the current one is kept.
*/
func (service *Service) Update(context context.Context, current *Recipe, input Input, image *storage.Upload) (*Recipe, error) {
	input = service.clean(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ref, err := service.saveImage(context, image)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = input.Title
	updated.Description = input.Description
	if ref != nil {
		updated.Image = ref
	}

	if err := service.repository.Update(context, &updated); err != nil {
		service.discardImage(context, ref)
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("Recipe").WithCause(err)
		}
		return nil, fmt.Errorf("recipe_service_update_failed: %w", err)
	}

	if ref != nil {
		service.discardImage(context, current.Image)
	}

	return &updated, nil
}

// Delete removes an already authorized recipe, then its image.
func (service *Service) Delete(context context.Context, current *Recipe) error {
	if err := service.repository.Delete(context, current.ID); err != nil {
		if dberr.IsNotFound(err) {
			return apperr.NotFound("Recipe").WithCause(err)
		}
		return fmt.Errorf("recipe_service_delete_failed: %w", err)
	}

	service.discardImage(context, current.Image)
	return nil
}

// # Helpers

// clean trims surrounding whitespace. Text is otherwise stored as sent:
// responses are JSON, so escaping is the renderer's job.
func (service *Service) clean(input Input) Input {
	return Input{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
	}
}

func validateInput(input Input) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	return validator.Err()
}

// saveImage inspects and stores an optional upload.
func (service *Service) saveImage(context context.Context, image *storage.Upload) (*string, error) {
	if image == nil {
		return nil, nil
	}

	inspected, err := storage.Inspect(*image, service.maxUploadBytes)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return nil, apperr.PayloadTooLarge("Image is too large")
	case errors.Is(err, storage.ErrUnsupportedType):
		return nil, (&validate.Validator{}).
			Custom(FieldImage, true, "Must be a JPEG, PNG, GIF or WebP image").
			Err()
	case err != nil:
		return nil, fmt.Errorf("recipe_service_image_read_failed: %w", err)
	}

	ref, err := service.images.Save(context, inspected)
	if err != nil {
		return nil, fmt.Errorf("recipe_service_image_save_failed: %w", err)
	}

	service.recorder.RecordImageStored(service.images.Backend())
	return pointer.To(ref), nil
}

// discardImage removes a stored image. Failures only leave an orphan file.
func (service *Service) discardImage(context context.Context, ref *string) {
	target := pointer.Val(ref)
	if target == "" {
		return
	}
	if err := service.images.Delete(context, target); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "recipe_image_delete_failed",
			slog.String("ref", target),
			slog.Any("error", err),
		)
	}
}
