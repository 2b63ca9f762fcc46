// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/recipebox/internal/platform/apperr"
	"github.com/taibuivan/recipebox/internal/platform/authz"
	"github.com/taibuivan/recipebox/internal/platform/constants"
	"github.com/taibuivan/recipebox/internal/platform/ctxutil"
	"github.com/taibuivan/recipebox/internal/platform/metrics"
	requestutil "github.com/taibuivan/recipebox/internal/platform/request"
	"github.com/taibuivan/recipebox/internal/platform/respond"
	"github.com/taibuivan/recipebox/internal/platform/storage"
	"github.com/taibuivan/recipebox/internal/platform/validate"
	"github.com/taibuivan/recipebox/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the /api/recipe endpoints.
type Handler struct {
	service        *Service
	recorder       metrics.Recorder
	maxUploadBytes int64
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, recorder metrics.Recorder, maxUploadBytes int64) *Handler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Handler{service: service, recorder: recorder, maxUploadBytes: maxUploadBytes}
}

// recipeHandler is a handler that runs after the target recipe was loaded and authorized.
type recipeHandler func(writer http.ResponseWriter, request *http.Request, target *Recipe)

// Routes returns a [chi.Router] with every recipe route behind gate.
//
// # Endpoints
//   - GET    /             : List recipes.
//   - GET    /{id}         : Read one recipe.
//   - POST   /create       : Create a recipe owned by the caller.
//   - PUT    /update/{id}  : Owner or admin.
//   - DELETE /delete/{id}  : Owner or admin.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(gate)

	router.Get("/", handler.list)
	router.Post("/create", handler.create)
	router.Get("/{id}", handler.guarded(authz.ActionRead, handler.read))

	// The bare paths exist so that a missing id is a 400, not a router 404.
	// CleanPath may strip the trailing slash, hence both spellings.
	update := handler.guarded(authz.ActionUpdate, handler.update)
	remove := handler.guarded(authz.ActionDelete, handler.delete)
	for _, suffix := range []string{"", "/", "/{id}"} {
		router.Put("/update"+suffix, update)
		router.Delete("/delete"+suffix, remove)
	}

	return router
}

// # Preconditions

// guarded composes the fixed precondition order: load, authorize, handle.
func (handler *Handler) guarded(action authz.Action, next recipeHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		target, err := handler.loadRecipe(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if err := handler.authorize(request, target, action); err != nil {
			respond.Error(writer, request, err)
			return
		}

		next(writer, request, target)
	}
}

// loadRecipe resolves the {id} URL parameter to a stored recipe.
func (handler *Handler) loadRecipe(request *http.Request) (*Recipe, error) {
	if strings.TrimSpace(requestutil.Param(request, "id")) == "" {
		return nil, apperr.BadRequest("Recipe id is required")
	}

	id, ok := requestutil.Int64Param(request, "id")
	if !ok {
		return nil, apperr.NotFound("Recipe")
	}

	return handler.service.Get(request.Context(), id)
}

// authorize applies the ownership policy to the loaded recipe.
func (handler *Handler) authorize(request *http.Request, target *Recipe, action authz.Action) error {
	who, err := requestutil.RequiredIdentity(request)
	if err != nil {
		return err
	}

	decision, err := authz.Authorize(authz.SubjectOf(who), target.OwnerID, action)
	if err != nil {
		// Data-integrity problem, never a silent allow or deny.
		return apperr.Internal(err)
	}

	if decision == authz.Deny {
		handler.recorder.RecordAuthRejection(metrics.ReasonForbidden)
		return authz.Denied(action)
	}

	return nil
}

// # Endpoints

/*
GET /api/recipe/

Response:
  - 200: []Recipe with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	recipes, total, err := handler.service.List(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
GET /api/recipe/{id}

Response:
  - 200: Recipe
  - 400: Recipe id is required
  - 404: Recipe not found
*/
func (handler *Handler) read(writer http.ResponseWriter, _ *http.Request, target *Recipe) {
	respond.OK(writer, target)
}

/*
POST /api/recipe/create

Request:
  - multipart/form-data (title, description, image) or JSON (title, description)

Response:
  - 201: {"message": "Recipe created successfully", "recipe": Recipe}
  - 400: Validation failure
  - 413: Image is too large
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	who, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authorize(request, &Recipe{OwnerID: who.ID}, authz.ActionCreate); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, image, err := handler.readInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	defer closeUpload(request, image)

	created, err := handler.service.Create(request.Context(), who, input, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "recipe_created",
		slog.Int64("recipe_id", created.ID),
	)

	respond.Created(writer, map[string]any{
		FieldMessage: "Recipe created successfully",
		FieldRecipe:  created,
	})
}

/*
PUT /api/recipe/update/{id}

Response:
  - 200: {"message": "Recipe updated successfully", "recipe": Recipe}
  - 400: Recipe id is required / validation failure
  - 403: You are not allowed to edit this recipe
  - 404: Recipe not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request, target *Recipe) {
	input, image, err := handler.readInput(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	defer closeUpload(request, image)

	updated, err := handler.service.Update(request.Context(), target, input, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage: "Recipe updated successfully",
		FieldRecipe:  updated,
	})
}

/*
DELETE /api/recipe/delete/{id}

Response:
  - 200: {"message": "Recipe deleted successfully"}
  - 400: Recipe id is required
  - 403: You are not allowed to delete this recipe
  - 404: Recipe not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request, target *Recipe) {
	if err := handler.service.Delete(request.Context(), target); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "recipe_deleted",
		slog.Int64("recipe_id", target.ID),
	)

	respond.OK(writer, map[string]string{
		FieldMessage: "Recipe deleted successfully",
	})
}

// # Body Decoding

// readInput decodes a JSON or multipart body. Multipart bodies may carry an image.
// It is only called after authorization, so nothing is read for refused requests.
func (handler *Handler) readInput(writer http.ResponseWriter, request *http.Request) (Input, *storage.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType))

	if mediaType != "multipart/form-data" {
		var input Input
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			return Input{}, nil, err
		}
		return input, nil, nil
	}

	// Form fields get one extra MiB on top of the image limit.
	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxUploadBytes+constants.MultipartMemoryBytes)
	if err := request.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Input{}, nil, apperr.PayloadTooLarge("Image is too large")
		}
		return Input{}, nil, validate.ErrInvalidJSON.WithCause(err)
	}

	input := Input{
		Title:       request.FormValue(FieldTitle),
		Description: request.FormValue(FieldDescription),
	}

	file, header, err := request.FormFile(constants.ImageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil, nil
	}
	if err != nil {
		return Input{}, nil, apperr.BadRequest("Invalid image upload").WithCause(err)
	}

	// The caller closes the file through closeUpload.
	return input, &storage.Upload{Filename: header.Filename, Body: file}, nil
}

// closeUpload releases the multipart file behind an upload. Parts larger than
// the in-memory limit are backed by temp files that stay open until closed.
func closeUpload(request *http.Request, image *storage.Upload) {
	if image == nil {
		return
	}
	closer, ok := image.Body.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "recipe_upload_close_failed",
			slog.Any("error", err),
		)
	}
}
