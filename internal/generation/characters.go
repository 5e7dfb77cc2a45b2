// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package generation

import (
	"fmt"
	"strings"
)

/*
CharacterBlock renders a newline-joined description block for the cast
members appearing in a scene.

Matching is deliberately soft: the model may shorten or re-case names in
per-scene lists, so a cast member is included when its name and a listed
name contain each other case-insensitively, in either direction. All
partial matches are included.

An empty names list means the full cast applies. A names list that
matches nobody also falls back to the full cast, so an image prompt is
never sent with an empty character section.

Parameters:
  - cast: The story's full character roster, in model order
  - names: Character names listed for the scene (may be empty)

Returns:
  - string: One "Name (role): appearance" line per selected character
*/
func CharacterBlock(cast []Character, names []string) string {
	selected := cast

	if len(names) > 0 {
		matched := make([]Character, 0, len(cast))
		for _, character := range cast {
			if nameListed(character.Name, names) {
				matched = append(matched, character)
			}
		}
		if len(matched) > 0 {
			selected = matched
		}
	}

	lines := make([]string, 0, len(selected))
	for _, character := range selected {
		lines = append(lines, fmt.Sprintf("%s (%s): %s", character.Name, character.Role, character.Appearance))
	}
	return strings.Join(lines, "\n")
}

// nameListed reports whether the cast name soft-matches any listed name.
func nameListed(castName string, names []string) bool {
	lowerCast := strings.ToLower(castName)
	for _, name := range names {
		lowerName := strings.ToLower(name)
		if lowerName == "" {
			continue
		}
		if strings.Contains(lowerCast, lowerName) || strings.Contains(lowerName, lowerCast) {
			return true
		}
	}
	return false
}
