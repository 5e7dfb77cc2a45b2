// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation

import (
	"encoding/json"
	"strings"
)

// Parse failure reasons.
const (
	// ReasonNoJSON means the model reply contained no opening brace at all.
	ReasonNoJSON = "no-json"
	// ReasonInvalidJSON means the brace span would not decode as JSON.
	ReasonInvalidJSON = "invalid-json"
)

// ParseError reports a structural failure while parsing a model reply.
// Both reasons are fatal to the generation attempt.
type ParseError struct {
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonNoJSON:
		return "generation: could not parse story response, no JSON found"
	default:
		return "generation: could not parse story response, invalid JSON"
	}
}

// StoryWorld is the shared backdrop kept stable across all image prompts
// of a single story.
type StoryWorld struct {
	Setting     string `json:"setting"`
	VisualStyle string `json:"visualStyle"`
}

// Character is one member of the story's cast.
type Character struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Appearance string `json:"appearance"`
}

// Scene is one illustrated page of the story.
type Scene struct {
	PageNumber        int      `json:"pageNumber"`
	Text              string   `json:"text"`
	SceneDescription  string   `json:"sceneDescription"`
	CharactersInScene []string `json:"charactersInScene"`
}

// ParsedStory is the structured result extracted from the model's raw reply.
type ParsedStory struct {
	Title       string
	StoryWorld  StoryWorld
	Characters  []Character
	Scenes      []Scene
	Lesson      string
	SummaryTags string
}

// rawStory mirrors the expected JSON shape with optional fields.
type rawStory struct {
	Title       string      `json:"title"`
	StoryWorld  *StoryWorld `json:"storyWorld"`
	Characters  []Character `json:"characters"`
	Scenes      []Scene     `json:"scenes"`
	Lesson      string      `json:"lesson"`
	SummaryTags string      `json:"summaryTags"`
}

/*
ParseStoryResponse extracts a [ParsedStory] from a raw model reply.

The reply is expected to contain a JSON object, possibly wrapped in prose
or markdown fencing. The candidate span runs from the first '{' to the
last '}' in the text. Field-level omissions never fail the parse; every
expected field falls back to a sensible default instead.

Parameters:
  - response: The raw text returned by the model

Returns:
  - *ParsedStory: The structured story
  - error: [*ParseError] with reason "no-json" or "invalid-json"
*/
func ParseStoryResponse(response string) (*ParsedStory, error) {

	// 1. Locate the outer brace span
	start := strings.Index(response, "{")
	if start < 0 {
		return nil, &ParseError{Reason: ReasonNoJSON}
	}

	end := strings.LastIndex(response, "}")
	if end < start {
		return nil, &ParseError{Reason: ReasonNoJSON}
	}

	// 2. Strict decode of the candidate span
	var raw rawStory
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil, &ParseError{Reason: ReasonInvalidJSON}
	}

	// 3. Field-by-field defaulting
	parsed := &ParsedStory{
		Title:       raw.Title,
		Characters:  raw.Characters,
		Scenes:      raw.Scenes,
		Lesson:      raw.Lesson,
		SummaryTags: raw.SummaryTags,
	}

	if parsed.Title == "" {
		parsed.Title = "Untitled Story"
	}

	if raw.StoryWorld != nil {
		parsed.StoryWorld = *raw.StoryWorld
	} else {
		parsed.StoryWorld = StoryWorld{
			Setting:     "A colorful storybook world",
			VisualStyle: "Warm, bright colors with a cozy atmosphere",
		}
	}

	if parsed.Characters == nil {
		parsed.Characters = []Character{}
	}
	if parsed.Scenes == nil {
		parsed.Scenes = []Scene{}
	}

	// Page numbers must be unique: they key the image rows and the viewer's
	// page assembly. Missing or duplicate numbers fall back to the scene's
	// position in the array.
	seen := make(map[int]bool, len(parsed.Scenes))
	for index := range parsed.Scenes {
		scene := &parsed.Scenes[index]
		if scene.PageNumber == 0 || seen[scene.PageNumber] {
			number := index + 1
			for seen[number] {
				number++
			}
			scene.PageNumber = number
		}
		seen[scene.PageNumber] = true
		if scene.CharactersInScene == nil {
			scene.CharactersInScene = []string{}
		}
	}

	return parsed, nil
}

// CountWords sums the whitespace-delimited non-empty tokens over all scene
// texts. This is an approximate natural-language count, not locale-aware.
func CountWords(scenes []Scene) int {
	total := 0
	for _, scene := range scenes {
		total += len(strings.Fields(scene.Text))
	}
	return total
}
