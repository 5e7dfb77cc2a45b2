// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/fablery/internal/prompt"
)

/*
TestFill_GlobalSubstitution verifies that every occurrence of a placeholder
is replaced, not just the first.
*/
func TestFill_GlobalSubstitution(t *testing.T) {
	template := "Hello {name}! Goodbye {name}."

	result := prompt.Fill(template, map[string]any{"name": "Emma"})

	assert.Equal(t, "Hello Emma! Goodbye Emma.", result)
}

/*
TestFill_NilAndNumbers checks nil handling and numeric rendering.
*/
func TestFill_NilAndNumbers(t *testing.T) {
	template := "{childName} is {childAge} years old. Appearance: {childAppearance}"

	result := prompt.Fill(template, map[string]any{
		"childName":       "Olesya",
		"childAge":        7,
		"childAppearance": nil,
	})

	assert.Equal(t, "Olesya is 7 years old. Appearance: ", result)
}

/*
TestFill_UnknownPlaceholdersUntouched checks that placeholders without a
matching variable survive, so literal braces in JSON examples are preserved.
*/
func TestFill_UnknownPlaceholdersUntouched(t *testing.T) {
	template := `{"title": "Story title", "hero": "{childName}"}`

	result := prompt.Fill(template, map[string]any{"childName": "Max"})

	assert.Equal(t, `{"title": "Story title", "hero": "Max"}`, result)
}

/*
TestTemplate_AllKindsAndLocales verifies that every template kind resolves
for both supported locales, and that story templates keep their JSON
output instructions intact after filling.
*/
func TestTemplate_AllKindsAndLocales(t *testing.T) {
	kinds := []prompt.Kind{
		prompt.KindStory,
		prompt.KindCharacterSheet,
		prompt.KindPageImage,
		prompt.KindCoverImage,
	}
	locales := []prompt.Locale{prompt.LocaleEnglish, prompt.LocaleUkrainian}

	for _, kind := range kinds {
		for _, locale := range locales {
			text := prompt.Template(kind, locale)
			assert.NotEmpty(t, text, "template %s/%s", kind, locale)
		}
	}

	// JSON skeleton keys survive filling because they carry no known placeholder.
	filled := prompt.Fill(prompt.Template(prompt.KindStory, prompt.LocaleEnglish), map[string]any{
		"childName": "Emma",
		"childAge":  6,
	})
	assert.Contains(t, filled, `"storyWorld"`)
	assert.Contains(t, filled, `"summaryTags"`)
	assert.NotContains(t, filled, "{childName}")
}

/*
TestArtStyleDescription_Fallback checks that unknown styles use the cartoon wording.
*/
func TestArtStyleDescription_Fallback(t *testing.T) {
	known := prompt.ArtStyleDescription("ghibli")
	assert.Contains(t, known, "Studio Ghibli")

	fallback := prompt.ArtStyleDescription("vaporwave")
	assert.Equal(t, prompt.ArtStyleDescription("cartoon"), fallback)

	assert.True(t, prompt.ValidArtStyle("pixel"))
	assert.False(t, prompt.ValidArtStyle("vaporwave"))
}

/*
TestTopicLesson covers predefined lookup, localization, and the custom-topic miss.
*/
func TestTopicLesson(t *testing.T) {
	lesson, found := prompt.TopicLesson("dragon", prompt.LocaleEnglish)
	assert.True(t, found)
	assert.Equal(t, "Managing emotions", lesson)

	lesson, found = prompt.TopicLesson("dragon", prompt.LocaleUkrainian)
	assert.True(t, found)
	assert.Equal(t, "Керування емоціями", lesson)

	_, found = prompt.TopicLesson("a brave hamster in space", prompt.LocaleEnglish)
	assert.False(t, found)

	assert.Len(t, prompt.Topics(), 10)
}

/*
TestLocale_Valid exercises the locale whitelist.
*/
func TestLocale_Valid(t *testing.T) {
	assert.True(t, prompt.Locale("en").Valid())
	assert.True(t, prompt.Locale("uk").Valid())
	assert.False(t, prompt.Locale("fr").Valid())
	assert.False(t, prompt.Locale("").Valid())
}

/*
TestTemplate_UkrainianStoryMentionsLanguage guards the only-Ukrainian instruction.
*/
func TestTemplate_UkrainianStoryMentionsLanguage(t *testing.T) {
	text := prompt.Template(prompt.KindStory, prompt.LocaleUkrainian)
	assert.True(t, strings.Contains(text, "українською"))
}
