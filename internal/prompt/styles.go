// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prompt

// ArtStyle describes one selectable illustration style.
type ArtStyle struct {
	ID           string `json:"id"`
	PreviewImage string `json:"preview_image"`
}

// artStyles is the catalog shown in the style picker, in display order.
var artStyles = []ArtStyle{
	{ID: "cartoon", PreviewImage: "/styles/cartoon.png"},
	{ID: "clay", PreviewImage: "/styles/clay.png"},
	{ID: "watercolor", PreviewImage: "/styles/watercolor.png"},
	{ID: "disney", PreviewImage: "/styles/disney.png"},
	{ID: "pixel", PreviewImage: "/styles/pixel.png"},
	{ID: "comic", PreviewImage: "/styles/comic.png"},
	{ID: "ghibli", PreviewImage: "/styles/ghibli.png"},
	{ID: "minimal", PreviewImage: "/styles/minimal.png"},
}

// artStyleDescriptions maps style IDs to the aesthetic wording injected
// into image prompts.
var artStyleDescriptions = map[string]string{
	"cartoon":    "Bright, bold colors with exaggerated expressions and playful proportions, like modern animated films",
	"clay":       "Soft, textured appearance like claymation/stop-motion, with visible sculpted details and warm lighting",
	"watercolor": "Soft, flowing colors with gentle gradients and dreamy atmosphere, like traditional watercolor paintings",
	"disney":     "Classic Disney animation style with expressive characters, magical lighting, and fairy-tale atmosphere",
	"pixel":      "Retro 16-bit pixel art style with vibrant colors and charming blocky aesthetics",
	"comic":      "Bold outlines, dynamic action poses, and vibrant colors like a children's comic book",
	"ghibli":     "Soft, detailed anime style with magical atmosphere and beautiful natural elements, inspired by Studio Ghibli",
	"minimal":    "Clean, simple shapes with limited color palette, modern and elegant illustration style",
}

// ArtStyles returns the selectable style catalog.
func ArtStyles() []ArtStyle {
	styles := make([]ArtStyle, len(artStyles))
	copy(styles, artStyles)
	return styles
}

// ArtStyleDescription returns the prompt wording for a style ID.
// Unknown styles fall back to the cartoon description.
func ArtStyleDescription(styleID string) string {
	if description, found := artStyleDescriptions[styleID]; found {
		return description
	}
	return artStyleDescriptions["cartoon"]
}

// ValidArtStyle reports whether the style ID is part of the catalog.
func ValidArtStyle(styleID string) bool {
	_, found := artStyleDescriptions[styleID]
	return found
}
