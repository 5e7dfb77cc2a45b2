// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package generation implements the story creation pipeline: prompting the
hosted model for the story text, parsing its JSON response, and producing
the illustration set with a consistent main character.

# Architecture

The pipeline is strictly sequential. The character reference sheet is
generated first and its raw base64 data is threaded through every later
image call, so the cover and all ten page illustrations depict the same
child. Individual image failures degrade that one artifact only; the
story text is the sole fatal dependency.
*/
package generation

import (
	"context"

	"github.com/taibuivan/fablery/internal/platform/gemini"
)

// Supported output shapes for generated imagery.
const (
	// AspectSquare is used for the character reference sheet.
	AspectSquare = "1:1"
	// AspectLandscape is used for the cover and all page illustrations.
	AspectLandscape = "4:3"
)

// ModelGateway abstracts the hosted model behind the pipeline.
//
// # Why an interface?
//
// The production implementation is [gemini.Client]. Tests inject a stub so
// the full pipeline can run without network access.
type ModelGateway interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string, input gemini.ImageInput) (string, error)
}
