// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/fablery/internal/platform/apperr"
	"github.com/taibuivan/fablery/internal/platform/validate"
	"github.com/taibuivan/fablery/internal/prompt"
	"github.com/taibuivan/fablery/internal/story"
	"github.com/taibuivan/fablery/pkg/pointer"
	"github.com/taibuivan/fablery/pkg/uuid"
)

const (
	FieldChildName       = "childName"
	FieldChildAge        = "childAge"
	FieldParentName      = "parentName"
	FieldChildAppearance = "childAppearance"
	FieldTopic           = "topic"
	FieldArtStyle        = "artStyle"
	FieldLanguage        = "language"
)

// noTagsPlaceholder is injected into the story prompt when no earlier
// stories exist for the topic.
const noTagsPlaceholder = "None yet - be creative!"

// Request carries the personalization parameters for one story.
type Request struct {
	ChildName       string        `json:"child_name"`
	ChildAge        int           `json:"child_age"`
	ParentName      string        `json:"parent_name"`
	ChildAppearance string        `json:"child_appearance"`
	Topic           string        `json:"topic"`
	ArtStyle        string        `json:"art_style"`
	Language        prompt.Locale `json:"language"`
}

// ResultPage is one page of the finished book as returned to the client.
type ResultPage struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	ImageURL   string `json:"image_url"`
}

// Result is the response payload for a completed generation run.
type Result struct {
	StoryID       string       `json:"story_id"`
	Title         string       `json:"title"`
	Pages         []ResultPage `json:"pages"`
	CoverImageURL string       `json:"cover_image_url"`
	Lesson        string       `json:"lesson"`
}

// # Service Layer

// Service orchestrates one full story generation run.
type Service struct {
	gateway      ModelGateway
	pipeline     *Pipeline
	storyRepo    story.Repository
	storyService *story.Service
	logger       *slog.Logger
}

// NewService constructs a new generation [Service] with its collaborators.
func NewService(
	gateway ModelGateway,
	pipeline *Pipeline,
	storyRepo story.Repository,
	storyService *story.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway:      gateway,
		pipeline:     pipeline,
		storyRepo:    storyRepo,
		storyService: storyService,
		logger:       logger,
	}
}

// validateRequest applies the personalization parameter rules.
func validateRequest(request Request) error {
	v := &validate.Validator{}
	v.Required(FieldChildName, request.ChildName)
	v.MaxLen(FieldChildName, request.ChildName, 30)
	v.Range(FieldChildAge, request.ChildAge, 2, 15)
	v.MaxLen(FieldParentName, request.ParentName, 30)
	v.MaxLen(FieldChildAppearance, request.ChildAppearance, 200)
	v.Required(FieldTopic, request.Topic)
	v.Required(FieldArtStyle, request.ArtStyle)
	v.Custom(FieldLanguage, !request.Language.Valid(), "Must be one of: en, uk")
	return v.Err()
}

/*
Generate runs the full story creation sequence.

Description: Validates input, assembles the story prompt with the
uniqueness-tag sample for the topic, obtains and parses the story text
(both fatal on failure), then runs the illustration pipeline and persists
the aggregate. Only pages whose illustration succeeded get an image row;
every page still appears in the result with its text.

Parameters:
  - ctx: context.Context (the run is not cancelled mid-flight; callers
    pass a detached context so abandoned connections cannot abort it)
  - request: Request

Returns:
  - *Result: The finished book summary
  - error: Validation errors or apperr.GenerationFailed
*/
func (service *Service) Generate(ctx context.Context, request Request) (*Result, error) {
	startTime := time.Now()

	// ── 1. Input validation ───────────────────────────────────────────
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	// ── 2. Topic lesson and uniqueness steering ───────────────────────
	lesson, isPredefined := prompt.TopicLesson(request.Topic, request.Language)
	if !isPredefined {
		// Custom topics carry their own text as the lesson.
		lesson = request.Topic
	}

	existingTags, err := service.storyService.UniquenessTags(ctx, request.Topic)
	if err != nil {
		service.logger.Warn("uniqueness_tags_unavailable",
			slog.String("topic", request.Topic),
			slog.Any("error", err),
		)
		existingTags = nil
	}

	existingTagsText := strings.Join(existingTags, "\n")
	if existingTagsText == "" {
		existingTagsText = noTagsPlaceholder
	}

	// ── 3. Story text generation (fatal on failure) ───────────────────
	storyPrompt := prompt.Fill(prompt.Template(prompt.KindStory, request.Language), map[string]any{
		"childName":    request.ChildName,
		"childAge":     request.ChildAge,
		"topic":        request.Topic,
		"lesson":       lesson,
		"artStyle":     request.ArtStyle,
		"existingTags": existingTagsText,
	})

	rawResponse, err := service.gateway.GenerateText(ctx, storyPrompt)
	if err != nil {
		service.logger.Error("story_text_generation_failed", slog.Any("error", err))
		return nil, apperr.GenerationFailed(err)
	}

	parsed, err := ParseStoryResponse(rawResponse)
	if err != nil {
		service.logger.Error("story_response_unparseable",
			slog.Int("response_length", len(rawResponse)),
			slog.Any("error", err),
		)
		return nil, apperr.GenerationFailed(err)
	}

	wordCount := CountWords(parsed.Scenes)
	storyID := uuid.New()

	service.logger.Info("story_text_generated",
		slog.String("story_id", storyID),
		slog.String("title", parsed.Title),
		slog.Int("scene_count", len(parsed.Scenes)),
		slog.Int("word_count", wordCount),
	)

	// ── 4. Illustration pipeline (artifact-scoped degradation) ────────
	imageSet := service.pipeline.Run(ctx, PipelineInput{
		StoryID:         storyID,
		Locale:          request.Language,
		ChildName:       request.ChildName,
		ChildAge:        request.ChildAge,
		ChildAppearance: request.ChildAppearance,
		Topic:           request.Topic,
		ArtStyle:        request.ArtStyle,
		Story:           parsed,
	})

	// ── 5. Persistence ────────────────────────────────────────────────
	generationTime := time.Since(startTime).Milliseconds()

	sceneTexts := make([]string, 0, len(parsed.Scenes))
	for _, scene := range parsed.Scenes {
		sceneTexts = append(sceneTexts, scene.Text)
	}

	record := &story.Story{
		ID:                storyID,
		Language:          string(request.Language),
		ChildName:         request.ChildName,
		ChildAge:          request.ChildAge,
		Topic:             request.Topic,
		IsCustomTopic:     !isPredefined,
		ArtStyle:          request.ArtStyle,
		Title:             parsed.Title,
		StoryText:         strings.Join(sceneTexts, "\n\n"),
		SummaryTags:       parsed.SummaryTags,
		Lesson:            lesson,
		WordCount:         wordCount,
		GenerationTimeMs:  generationTime,
		CoverImageURL:     imageSet.Cover.URL(),
		CharacterSheetURL: imageSet.CharacterSheet.URL(),
	}
	if request.ParentName != "" {
		record.ParentName = pointer.To(request.ParentName)
	}
	if request.ChildAppearance != "" {
		record.ChildAppearance = pointer.To(request.ChildAppearance)
	}

	if err := service.storyRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	for _, page := range imageSet.Pages {
		// Absent artifacts get no image row; the viewer fills the gap.
		if !page.Image.Present() {
			continue
		}
		pageImage := &story.PageImage{
			ID:          uuid.New(),
			StoryID:     storyID,
			PageNumber:  page.PageNumber,
			ImageURL:    page.Image.URL(),
			ImagePrompt: page.Prompt,
		}
		if err := service.storyRepo.AddPageImage(ctx, pageImage); err != nil {
			return nil, err
		}
	}

	// Future generations on this topic must see the new tags.
	service.storyService.InvalidateTags(ctx, request.Topic)

	// ── 6. Result assembly ────────────────────────────────────────────
	result := &Result{
		StoryID:       storyID,
		Title:         parsed.Title,
		CoverImageURL: imageSet.Cover.URL(),
		// The configured lesson is authoritative; the model's echo of it
		// inside the JSON may drift in wording.
		Lesson: lesson,
	}
	for _, page := range imageSet.Pages {
		result.Pages = append(result.Pages, ResultPage{
			PageNumber: page.PageNumber,
			Text:       page.Text,
			ImageURL:   page.Image.URL(),
		})
	}

	service.logger.Info("story_generation_finished",
		slog.String("story_id", storyID),
		slog.Int64("elapsed_ms", generationTime),
		slog.Int("pages", len(result.Pages)),
		slog.Bool("has_cover", imageSet.Cover.Present()),
	)

	return result, nil
}

/*
CheckModel sends a minimal probe prompt to verify the configured API key
and model availability.

Returns:
  - string: The model's one-word reply (trimmed)
  - error: Gateway failures; callers may treat rate-limit errors as a
    soft pass since they prove the key is accepted
*/
func (service *Service) CheckModel(ctx context.Context) (string, error) {
	reply, err := service.gateway.GenerateText(ctx, "Say hello in exactly one word.")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
