// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/generation"
)

/*
TestParseStoryResponse_FencedJSON verifies that a JSON object wrapped in
markdown fencing and prose still parses.
*/
func TestParseStoryResponse_FencedJSON(t *testing.T) {
	response := "Here is your story!\n```json\n" + `{
		"title": "The Brave Dragon",
		"storyWorld": {"setting": "A volcano kingdom", "visualStyle": "Glowing embers"},
		"characters": [{"name": "Mira", "role": "knight", "appearance": "red hair, silver armor"}],
		"scenes": [
			{"pageNumber": 1, "text": "Once upon a time.", "sceneDescription": "A castle gate", "charactersInScene": ["Mira"]},
			{"pageNumber": 2, "text": "The end.", "sceneDescription": "A sunset", "charactersInScene": []}
		],
		"lesson": "Managing emotions",
		"summaryTags": "volcano kingdom\nember dragon"
	}` + "\n```\nEnjoy!"

	parsed, err := generation.ParseStoryResponse(response)
	require.NoError(t, err)

	assert.Equal(t, "The Brave Dragon", parsed.Title)
	assert.Equal(t, "A volcano kingdom", parsed.StoryWorld.Setting)
	require.Len(t, parsed.Scenes, 2)
	assert.Equal(t, 1, parsed.Scenes[0].PageNumber)
	assert.Equal(t, 2, parsed.Scenes[1].PageNumber)
	assert.Equal(t, "Managing emotions", parsed.Lesson)
}

/*
TestParseStoryResponse_Defaulting checks field-level fallbacks: missing
title, world, page numbers, and character lists never fail the parse.
*/
func TestParseStoryResponse_Defaulting(t *testing.T) {
	response := `{
		"scenes": [
			{"text": "First page."},
			{"text": "Second page."},
			{"pageNumber": 7, "text": "Seventh page."}
		]
	}`

	parsed, err := generation.ParseStoryResponse(response)
	require.NoError(t, err)

	assert.Equal(t, "Untitled Story", parsed.Title)
	assert.NotEmpty(t, parsed.StoryWorld.Setting)
	assert.NotEmpty(t, parsed.StoryWorld.VisualStyle)
	assert.Empty(t, parsed.Characters)
	assert.Empty(t, parsed.Lesson)
	assert.Empty(t, parsed.SummaryTags)

	// Declared page numbers win; missing ones fall back to 1-based position.
	require.Len(t, parsed.Scenes, 3)
	assert.Equal(t, 1, parsed.Scenes[0].PageNumber)
	assert.Equal(t, 2, parsed.Scenes[1].PageNumber)
	assert.Equal(t, 7, parsed.Scenes[2].PageNumber)
	assert.NotNil(t, parsed.Scenes[0].CharactersInScene)
	assert.Empty(t, parsed.Scenes[0].CharactersInScene)
}

/*
TestParseStoryResponse_DuplicatePageNumbers checks that repeated page
numbers are reassigned from the scene's array position, so every scene
ends up on a distinct page.
*/
func TestParseStoryResponse_DuplicatePageNumbers(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     []int
	}{
		{"trailing_repeat", `[{"pageNumber": 1, "text": "a"}, {"pageNumber": 2, "text": "b"}, {"pageNumber": 2, "text": "c"}]`, []int{1, 2, 3}},
		{"early_repeat", `[{"pageNumber": 1, "text": "a"}, {"pageNumber": 1, "text": "b"}, {"pageNumber": 2, "text": "c"}]`, []int{1, 2, 3}},
		{"all_same", `[{"pageNumber": 5, "text": "a"}, {"pageNumber": 5, "text": "b"}, {"pageNumber": 5, "text": "c"}]`, []int{5, 2, 3}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			parsed, err := generation.ParseStoryResponse(`{"scenes": ` + testCase.declared + `}`)
			require.NoError(t, err)
			require.Len(t, parsed.Scenes, len(testCase.want))

			for index, want := range testCase.want {
				assert.Equal(t, want, parsed.Scenes[index].PageNumber, "scene %d", index)
			}
		})
	}
}

/*
TestParseStoryResponse_Errors covers the two terminal failure reasons.
*/
func TestParseStoryResponse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		reason   string
	}{
		{"no_brace_at_all", "I am sorry, I cannot write that story.", generation.ReasonNoJSON},
		{"brace_but_garbage", "{this is not JSON at all}", generation.ReasonInvalidJSON},
		{"opening_brace_only", "something { unclosed", generation.ReasonNoJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generation.ParseStoryResponse(tt.response)
			require.Error(t, err)

			var parseError *generation.ParseError
			require.True(t, errors.As(err, &parseError))
			assert.Equal(t, tt.reason, parseError.Reason)
		})
	}
}

/*
TestCountWords verifies whitespace token counting across scenes.
*/
func TestCountWords(t *testing.T) {
	scenes := []generation.Scene{
		{Text: "Once upon a time."},
		{Text: "The end."},
	}
	assert.Equal(t, 6, generation.CountWords(scenes))

	// Irregular whitespace and empty texts do not inflate the count.
	scenes = []generation.Scene{
		{Text: "  two   words  "},
		{Text: ""},
		{Text: "\n\tone\n"},
	}
	assert.Equal(t, 3, generation.CountWords(scenes))
}
