// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/taibuivan/fablery/internal/platform/gemini"
	"github.com/taibuivan/fablery/internal/platform/media"
	"github.com/taibuivan/fablery/internal/prompt"
)

// Artifact file names inside a story's media directory.
const (
	characterSheetFile = "character-sheet"
	coverFile          = "cover"
	pageFilePattern    = "page-%02d"
)

// ArtifactResult is the outcome of one artifact attempt: a stored URL or an
// explicit absence. Absence is a distinct state rather than an empty URL so
// pipeline callers never confuse "no image" with "image at an empty URL".
// Serialization boundaries render absence as the empty string.
type ArtifactResult struct {
	url     string
	present bool
}

// storedArtifact wraps a successfully stored artifact URL.
func storedArtifact(url string) ArtifactResult {
	return ArtifactResult{url: url, present: true}
}

// Present reports whether the artifact was generated and stored.
func (result ArtifactResult) Present() bool { return result.present }

// URL returns the stored artifact URL, or "" when the artifact is absent.
func (result ArtifactResult) URL() string { return result.url }

// PageArtifact is the outcome for a single illustrated page.
type PageArtifact struct {
	PageNumber int
	Text       string
	Prompt     string
	Image      ArtifactResult
}

// ImageSet is the outcome of one full illustration run.
type ImageSet struct {
	CharacterSheet ArtifactResult
	Cover          ArtifactResult
	Pages          []PageArtifact
}

// PipelineInput carries everything the illustration run needs.
type PipelineInput struct {
	StoryID         string
	Locale          prompt.Locale
	ChildName       string
	ChildAge        int
	ChildAppearance string
	Topic           string
	ArtStyle        string
	Story           *ParsedStory
}

// Pipeline produces the illustration set for a parsed story.
type Pipeline struct {
	gateway ModelGateway
	media   *media.Store
	logger  *slog.Logger
}

// NewPipeline constructs a [Pipeline] with its collaborators.
func NewPipeline(gateway ModelGateway, mediaStore *media.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		gateway: gateway,
		media:   mediaStore,
		logger:  logger,
	}
}

/*
Run executes the full illustration sequence for one story.

Description: Strictly sequential. The character reference sheet comes
first; its base64 data conditions the cover and every page call so the
child looks identical across all artifacts. Each artifact fails in
isolation: a failed sheet means later calls run unconditioned, a failed
cover or page yields an absent artifact for that slot only.

Parameters:
  - ctx: context.Context (deliberately not consulted between artifacts;
    a started run proceeds to completion)
  - input: PipelineInput

Returns:
  - *ImageSet: One [ArtifactResult] per artifact, absent where generation failed
*/
func (pipeline *Pipeline) Run(ctx context.Context, input PipelineInput) *ImageSet {
	result := &ImageSet{}
	styleDescription := prompt.ArtStyleDescription(input.ArtStyle)

	// ── 1. Character reference sheet ──────────────────────────────────
	sheetPrompt := prompt.Fill(prompt.Template(prompt.KindCharacterSheet, input.Locale), map[string]any{
		"childName":           input.ChildName,
		"childAge":            input.ChildAge,
		"artStyle":            input.ArtStyle,
		"artStyleDescription": styleDescription,
		"childAppearance":     input.ChildAppearance,
	})

	// The raw base64 sheet is retained in memory for the rest of the run.
	referenceImage := ""
	sheetData, err := pipeline.gateway.GenerateImage(ctx, sheetPrompt, gemini.ImageInput{
		AspectRatio: AspectSquare,
	})
	if err != nil {
		pipeline.logger.Error("character_sheet_generation_failed",
			slog.String("story_id", input.StoryID),
			slog.Any("error", err),
		)
	} else {
		referenceImage = sheetData
		url, saveErr := pipeline.media.SaveBase64PNG(input.StoryID, characterSheetFile, sheetData)
		if saveErr != nil {
			pipeline.logger.Error("character_sheet_save_failed",
				slog.String("story_id", input.StoryID),
				slog.Any("error", saveErr),
			)
		} else {
			result.CharacterSheet = storedArtifact(url)
		}
	}

	// ── 2. Cover illustration ─────────────────────────────────────────
	fullCastBlock := CharacterBlock(input.Story.Characters, nil)

	coverPrompt := prompt.Fill(prompt.Template(prompt.KindCoverImage, input.Locale), map[string]any{
		"title":                 input.Story.Title,
		"childName":             input.ChildName,
		"topic":                 input.Topic,
		"artStyle":              input.ArtStyle,
		"artStyleDescription":   styleDescription,
		"childAppearance":       input.ChildAppearance,
		"storySetting":          input.Story.StoryWorld.Setting,
		"storyVisualStyle":      input.Story.StoryWorld.VisualStyle,
		"charactersDescription": fullCastBlock,
	})

	result.Cover = pipeline.generateArtifact(ctx, input.StoryID, coverFile, coverPrompt, referenceImage)

	// ── 3. Page illustrations, in ascending page order ────────────────
	scenes := make([]Scene, len(input.Story.Scenes))
	copy(scenes, input.Story.Scenes)
	sort.SliceStable(scenes, func(i, j int) bool {
		return scenes[i].PageNumber < scenes[j].PageNumber
	})

	for _, scene := range scenes {
		sceneBlock := CharacterBlock(input.Story.Characters, scene.CharactersInScene)

		pagePrompt := prompt.Fill(prompt.Template(prompt.KindPageImage, input.Locale), map[string]any{
			"childName":             input.ChildName,
			"sceneDescription":      scene.SceneDescription,
			"artStyle":              input.ArtStyle,
			"artStyleDescription":   styleDescription,
			"childAppearance":       input.ChildAppearance,
			"storySetting":          input.Story.StoryWorld.Setting,
			"storyVisualStyle":      input.Story.StoryWorld.VisualStyle,
			"charactersDescription": sceneBlock,
		})

		fileName := fmt.Sprintf(pageFilePattern, scene.PageNumber)
		image := pipeline.generateArtifact(ctx, input.StoryID, fileName, pagePrompt, referenceImage)

		result.Pages = append(result.Pages, PageArtifact{
			PageNumber: scene.PageNumber,
			Text:       scene.Text,
			Prompt:     scene.SceneDescription,
			Image:      image,
		})
	}

	return result
}

// generateArtifact runs one conditioned landscape image call and stores the
// result. Failures log and yield an absent artifact.
func (pipeline *Pipeline) generateArtifact(ctx context.Context, storyID, name, promptText, referenceImage string) ArtifactResult {
	data, err := pipeline.gateway.GenerateImage(ctx, promptText, gemini.ImageInput{
		AspectRatio:    AspectLandscape,
		ReferenceImage: referenceImage,
	})
	if err != nil {
		pipeline.logger.Error("image_generation_failed",
			slog.String("story_id", storyID),
			slog.String("artifact", name),
			slog.Any("error", err),
		)
		return ArtifactResult{}
	}

	url, err := pipeline.media.SaveBase64PNG(storyID, name, data)
	if err != nil {
		pipeline.logger.Error("image_save_failed",
			slog.String("story_id", storyID),
			slog.String("artifact", name),
			slog.Any("error", err),
		)
		return ArtifactResult{}
	}

	return storedArtifact(url)
}
