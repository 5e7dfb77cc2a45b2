// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fablery/internal/generation"
	"github.com/taibuivan/fablery/internal/platform/apperr"
	"github.com/taibuivan/fablery/internal/platform/gemini"
	"github.com/taibuivan/fablery/internal/platform/middleware"
	requestutil "github.com/taibuivan/fablery/internal/platform/request"
	"github.com/taibuivan/fablery/internal/platform/respond"
	"github.com/taibuivan/fablery/internal/platform/validate"
	"github.com/taibuivan/fablery/internal/story"
	"github.com/taibuivan/fablery/pkg/pagination"
)

// # Handler Implementation

// Handler implements the operator HTTP endpoints: login, logout, the story
// gallery, the statistics dashboard, and the model health probe.
type Handler struct {
	adminService      *Service
	storyService      *story.Service
	generationService *generation.Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(adminService *Service, storyService *story.Service, generationService *generation.Service) *Handler {
	return &Handler{
		adminService:      adminService,
		storyService:      storyService,
		generationService: generationService,
	}
}

// RegisterRoutes attaches the admin endpoints to the root API router. Login
// is public; every other route requires a live admin session.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/admin/login", handler.Login)

	api.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAdmin)

		protected.Post("/admin/logout", handler.Logout)
		protected.Get("/admin/stories", handler.ListStories)
		protected.Get("/admin/stats", handler.Stats)
		protected.Post("/admin/model/check", handler.CheckModel)
	})
}

// # Authentication

// loginRequest represents the JSON payload expected for admin login.
type loginRequest struct {
	Password string `json:"password"`
}

/*
POST /api/v1/admin/login.

Description: Verifies the shared admin password and returns a session token.

Request:
  - body: loginRequest

Response:
  - 200: Session: Signed JWT plus its expiry
  - 401: UNAUTHORIZED: Wrong password
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("password", "is required"))
		return
	}

	session, err := handler.adminService.Login(request.Context(), input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
POST /api/v1/admin/logout.

Description: Revokes the current session. Idempotent.

Response:
  - 204: Session revoked
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.adminService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Gallery And Dashboard

/*
GET /api/v1/admin/stories.

Description: Lists generated stories, newest first, with optional filters.

Request:
  - query: page, limit (pagination)
  - query: lang (exact language match, "en" or "uk")
  - query: topic (exact topic match)
  - query: window (creation window: "today", "week", or "month")

Response:
  - 200: []story.Story with pagination metadata
*/
func (handler *Handler) ListStories(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := story.Filter{
		Language: request.URL.Query().Get("lang"),
		Topic:    request.URL.Query().Get("topic"),
		Window:   request.URL.Query().Get("window"),
	}

	stories, total, err := handler.storyService.ListStories(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/admin/stats.

Description: Returns the dashboard aggregate: totals, per-language counts,
today's and this week's volume, and the top topics.

Response:
  - 200: story.Stats
*/
func (handler *Handler) Stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.storyService.GetStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// # Model Health

// modelCheckResponse reports the outcome of a model connectivity probe.
type modelCheckResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply,omitempty"`
}

/*
POST /api/v1/admin/model/check.

Description: Sends a one-word probe to the text model to confirm the API key
still works. A rate-limited reply proves the key is valid, so it reports ok
with a warning rather than failing the check.

Response:
  - 200: modelCheckResponse
  - 502: GENERATION_FAILED: Probe rejected for a non-quota reason
*/
func (handler *Handler) CheckModel(writer http.ResponseWriter, request *http.Request) {
	reply, err := handler.generationService.CheckModel(request.Context())
	if err != nil {
		if gemini.IsRateLimited(err) {
			respond.OK(writer, modelCheckResponse{Status: "rate_limited"})
			return
		}
		respond.Error(writer, request, apperr.GenerationFailed(err))
		return
	}

	respond.OK(writer, modelCheckResponse{Status: "ok", Reply: reply})
}
