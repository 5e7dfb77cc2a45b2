// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation_test

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/generation"
	"github.com/taibuivan/fablery/internal/platform/gemini"
	"github.com/taibuivan/fablery/internal/platform/media"
	"github.com/taibuivan/fablery/internal/prompt"
)

// imageCall records one GenerateImage invocation for assertions.
type imageCall struct {
	prompt string
	input  gemini.ImageInput
}

// stubGateway is a scripted [generation.ModelGateway] for tests.
type stubGateway struct {
	textResponse string
	textErr      error

	// failImageCalls marks 1-based GenerateImage call indexes that error.
	failImageCalls map[int]bool

	textPrompts []string
	imageCalls  []imageCall
}

func (stub *stubGateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	stub.textPrompts = append(stub.textPrompts, prompt)
	if stub.textErr != nil {
		return "", stub.textErr
	}
	return stub.textResponse, nil
}

func (stub *stubGateway) GenerateImage(ctx context.Context, prompt string, input gemini.ImageInput) (string, error) {
	stub.imageCalls = append(stub.imageCalls, imageCall{prompt: prompt, input: input})
	if stub.failImageCalls[len(stub.imageCalls)] {
		return "", errors.New("upstream image failure")
	}
	// Encode the call index so each artifact's bytes are distinguishable.
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("image-%d", len(stub.imageCalls)))), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func testParsedStory(sceneCount int) *generation.ParsedStory {
	story := &generation.ParsedStory{
		Title: "The Brave Dragon",
		StoryWorld: generation.StoryWorld{
			Setting:     "A volcano kingdom",
			VisualStyle: "Glowing embers",
		},
		Characters: []generation.Character{
			{Name: "Mira", Role: "knight", Appearance: "red hair, silver armor"},
			{Name: "Oto", Role: "dragon", Appearance: "small green dragon"},
		},
	}
	for i := 1; i <= sceneCount; i++ {
		story.Scenes = append(story.Scenes, generation.Scene{
			PageNumber:        i,
			Text:              fmt.Sprintf("Page %d text.", i),
			SceneDescription:  fmt.Sprintf("Scene %d brief", i),
			CharactersInScene: []string{"Mira"},
		})
	}
	return story
}

/*
TestPipeline_ReferenceThreading verifies the sequential protocol: the
character sheet is generated first without conditioning, and its base64
data rides along on the cover and every page call.
*/
func TestPipeline_ReferenceThreading(t *testing.T) {
	gateway := &stubGateway{}
	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	pipeline := generation.NewPipeline(gateway, store, quietLogger())

	result := pipeline.Run(context.Background(), generation.PipelineInput{
		StoryID:   "story-1",
		Locale:    prompt.LocaleEnglish,
		ChildName: "Emma",
		ChildAge:  6,
		Topic:     "dragon",
		ArtStyle:  "cartoon",
		Story:     testParsedStory(3),
	})

	// 1 sheet + 1 cover + 3 pages
	require.Len(t, gateway.imageCalls, 5)

	// Sheet: square, unconditioned
	sheetCall := gateway.imageCalls[0]
	assert.Equal(t, generation.AspectSquare, sheetCall.input.AspectRatio)
	assert.Empty(t, sheetCall.input.ReferenceImage)

	// Cover and pages: landscape, conditioned on the sheet's exact bytes
	sheetData := base64.StdEncoding.EncodeToString([]byte("image-1"))
	for _, call := range gateway.imageCalls[1:] {
		assert.Equal(t, generation.AspectLandscape, call.input.AspectRatio)
		assert.Equal(t, sheetData, call.input.ReferenceImage)
	}

	assert.Equal(t, "/media/story-1/character-sheet.png", result.CharacterSheet.URL())
	assert.Equal(t, "/media/story-1/cover.png", result.Cover.URL())
	require.Len(t, result.Pages, 3)
	assert.Equal(t, "/media/story-1/page-01.png", result.Pages[0].Image.URL())
	assert.Equal(t, "/media/story-1/page-03.png", result.Pages[2].Image.URL())
}

/*
TestPipeline_CoverFailureIsIsolated checks that a failed cover degrades to
an absent artifact while every page still renders.
*/
func TestPipeline_CoverFailureIsIsolated(t *testing.T) {
	gateway := &stubGateway{failImageCalls: map[int]bool{2: true}} // cover is call 2
	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	pipeline := generation.NewPipeline(gateway, store, quietLogger())

	result := pipeline.Run(context.Background(), generation.PipelineInput{
		StoryID:  "story-2",
		Locale:   prompt.LocaleEnglish,
		ArtStyle: "watercolor",
		Story:    testParsedStory(10),
	})

	assert.False(t, result.Cover.Present())
	assert.Empty(t, result.Cover.URL())
	assert.True(t, result.CharacterSheet.Present())

	require.Len(t, result.Pages, 10)
	for _, page := range result.Pages {
		assert.True(t, page.Image.Present(), "page %d", page.PageNumber)
	}
}

/*
TestPipeline_SheetFailureLeavesRunUnconditioned checks that when the
reference sheet fails, later calls run without conditioning instead of
aborting.
*/
func TestPipeline_SheetFailureLeavesRunUnconditioned(t *testing.T) {
	gateway := &stubGateway{failImageCalls: map[int]bool{1: true}}
	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	pipeline := generation.NewPipeline(gateway, store, quietLogger())

	result := pipeline.Run(context.Background(), generation.PipelineInput{
		StoryID:  "story-3",
		Locale:   prompt.LocaleUkrainian,
		ArtStyle: "clay",
		Story:    testParsedStory(2),
	})

	assert.False(t, result.CharacterSheet.Present())
	assert.True(t, result.Cover.Present())

	for _, call := range gateway.imageCalls[1:] {
		assert.Empty(t, call.input.ReferenceImage)
	}

	require.Len(t, result.Pages, 2)
	assert.True(t, result.Pages[0].Image.Present())
}

/*
TestPipeline_ScenesRenderedInPageOrder checks that out-of-order scene
arrays are illustrated in ascending page order.
*/
func TestPipeline_ScenesRenderedInPageOrder(t *testing.T) {
	gateway := &stubGateway{}
	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	pipeline := generation.NewPipeline(gateway, store, quietLogger())

	story := testParsedStory(3)
	story.Scenes[0], story.Scenes[2] = story.Scenes[2], story.Scenes[0]

	result := pipeline.Run(context.Background(), generation.PipelineInput{
		StoryID:  "story-4",
		Locale:   prompt.LocaleEnglish,
		ArtStyle: "pixel",
		Story:    story,
	})

	require.Len(t, result.Pages, 3)
	assert.Equal(t, 1, result.Pages[0].PageNumber)
	assert.Equal(t, 2, result.Pages[1].PageNumber)
	assert.Equal(t, 3, result.Pages[2].PageNumber)
}
