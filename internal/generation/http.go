// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/fablery/internal/platform/request"
	"github.com/taibuivan/fablery/internal/platform/respond"
	"github.com/taibuivan/fablery/internal/prompt"
)

// # Handler Implementation

// Handler implements the HTTP layer for story generation and the static
// topic/style catalogs.
type Handler struct {
	service *Service
}

// NewHandler constructs a new generation [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches generation endpoints to the root API router.
// The generate endpoint must be mounted outside the fast-route timeout
// group; a full run takes minutes, not seconds.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/stories/generate", handler.Generate)
	api.Get("/topics", handler.ListTopics)
	api.Get("/styles", handler.ListStyles)
}

// # Story Generation

/*
POST /api/v1/stories/generate.

Description: Runs the full generation sequence synchronously and returns
the finished book summary. The run is executed on a context detached from
the connection: a client that gives up and disconnects does not abort
in-flight model calls or the final persistence step.

Request:
  - body: Request (personalization parameters)

Response:
  - 201: Result: The finished book summary
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 502: GENERATION_FAILED: Text generation or parsing failed
*/
func (handler *Handler) Generate(writer http.ResponseWriter, request *http.Request) {
	var input Request
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Detach from the connection lifecycle; the run must not be cancelled
	// by an abandoned client.
	runCtx := context.WithoutCancel(request.Context())

	result, err := handler.service.Generate(runCtx, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

// # Static Catalogs

// topicEntry is the public shape of one predefined topic.
type topicEntry struct {
	ID     string            `json:"id"`
	Lesson map[string]string `json:"lesson"`
}

/*
GET /api/v1/topics.

Description: Returns the predefined topic catalog with localized lessons.

Response:
  - 200: []topicEntry: Topics in display order
*/
func (handler *Handler) ListTopics(writer http.ResponseWriter, request *http.Request) {
	topics := prompt.Topics()

	entries := make([]topicEntry, 0, len(topics))
	for _, topic := range topics {
		lessons := make(map[string]string, len(topic.Lesson))
		for locale, lesson := range topic.Lesson {
			lessons[string(locale)] = lesson
		}
		entries = append(entries, topicEntry{ID: topic.ID, Lesson: lessons})
	}

	respond.OK(writer, entries)
}

/*
GET /api/v1/styles.

Description: Returns the selectable art style catalog.

Response:
  - 200: []prompt.ArtStyle: Styles in display order
*/
func (handler *Handler) ListStyles(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, prompt.ArtStyles())
}
