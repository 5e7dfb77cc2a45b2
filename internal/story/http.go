// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fablery/internal/platform/request"
	"github.com/taibuivan/fablery/internal/platform/respond"
	"github.com/taibuivan/fablery/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the public HTTP layer for reading stories.
type Handler struct {
	service *Service
}

// NewHandler constructs a new story [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the public viewer endpoint to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/stories/{id}", handler.GetBook)
}

// # Story Viewer

/*
GET /api/v1/stories/{id}.

Description: Returns the full book for the viewer: story metadata plus
the ordered page sequence with illustration URLs.

Request:
  - id: string (Story UUID)

Response:
  - 200: Book: Story with assembled pages
  - 400: VALIDATION_ERROR: Malformed story ID
  - 404: ErrNotFound: Story not found
*/
func (handler *Handler) GetBook(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.ID(request, "id")

	// Reject malformed IDs before they reach the database.
	v := &validate.Validator{}
	v.UUID("id", storyID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}
