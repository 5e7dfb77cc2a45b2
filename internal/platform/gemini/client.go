// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gemini implements the hosted-model client for Google's Generative
Language REST API.

It speaks the generateContent endpoint directly over HTTP, covering the two
call shapes Fablery needs:

  - Text generation: a single prompt in, plain text out.
  - Image generation: a prompt plus an optional inline reference image in,
    base64 PNG data out.

Core Responsibilities:

  - Transport: Request signing (API key header), JSON encoding, error mapping.
  - Throttling: A client-side token bucket keeps bursts of sequential image
    calls under the upstream per-minute quota.
  - Isolation: Callers receive plain Go errors; HTTP specifics never leak
    past this package.
*/
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client throttling and transport settings.
const (
	// requestsPerMinute caps outgoing calls; the free tier allows 10 image
	// requests per minute, so we stay just under it.
	requestsPerMinute = 9
	// requestBurst allows a short burst before the bucket drains.
	requestBurst = 2
	// callTimeout bounds a single generateContent HTTP call.
	callTimeout = 3 * time.Minute
)

// APIError represents a non-2xx response from the Generative Language API.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: API returned status %d: %s", e.Status, e.Message)
}

// IsRateLimited reports whether the error is an upstream 429 response.
func IsRateLimited(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Status == http.StatusTooManyRequests
}

// Client is a minimal REST client for the generateContent endpoint.
//
// # Concurrency
//
// Client is safe for concurrent use. The internal rate limiter serializes
// bursts across goroutines.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient builds a Client for the given API key and model names.
func NewClient(apiKey, baseURL, textModel, imageModel string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: callTimeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestBurst),
		logger:     logger,
	}
}

// # Wire Types

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// # Operations

/*
GenerateText sends a single text prompt to the configured text model.

Parameters:
  - ctx: Cancellation and deadline control
  - prompt: The full prompt text

Returns:
  - string: The first text part of the first candidate
  - error: Transport errors, [*APIError] for non-2xx, or a missing-part error
*/
func (client *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	request := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	response, err := client.call(ctx, client.textModel, request)
	if err != nil {
		return "", err
	}

	for _, candidate := range response.Candidates {
		for _, candidatePart := range candidate.Content.Parts {
			if candidatePart.Text != "" {
				return candidatePart.Text, nil
			}
		}
	}

	return "", fmt.Errorf("gemini: response contained no text part")
}

// ImageInput carries the optional knobs for an image generation call.
type ImageInput struct {
	// AspectRatio is the requested output shape, e.g. "1:1" or "4:3".
	AspectRatio string
	// ReferenceImage is an optional base64-encoded PNG sent alongside the
	// prompt so the model can match an existing character design.
	ReferenceImage string
}

/*
GenerateImage sends an image prompt (plus optional reference image) to the
configured image model.

Parameters:
  - ctx: Cancellation and deadline control
  - prompt: The full prompt text
  - input: Aspect ratio and optional reference image

Returns:
  - string: Base64-encoded PNG data of the first image part
  - error: Transport errors, [*APIError] for non-2xx, or a missing-part error
*/
func (client *Client) GenerateImage(ctx context.Context, prompt string, input ImageInput) (string, error) {
	parts := []part{{Text: prompt}}
	if input.ReferenceImage != "" {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: "image/png",
			Data:     input.ReferenceImage,
		}})
	}

	request := generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}
	if input.AspectRatio != "" {
		request.GenerationConfig.ImageConfig = &imageConfig{AspectRatio: input.AspectRatio}
	}

	response, err := client.call(ctx, client.imageModel, request)
	if err != nil {
		return "", err
	}

	for _, candidate := range response.Candidates {
		for _, candidatePart := range candidate.Content.Parts {
			if candidatePart.InlineData != nil && candidatePart.InlineData.Data != "" {
				return candidatePart.InlineData.Data, nil
			}
		}
	}

	return "", fmt.Errorf("gemini: response contained no image part")
}

// # Transport

// call performs a single generateContent request against the given model.
func (client *Client) call(ctx context.Context, model string, payload generateRequest) (*generateResponse, error) {

	// 1. Respect the client-side quota before touching the network
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gemini: rate limiter wait aborted: %w", err)
	}

	// 2. Encode the request body
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", client.baseURL, model)
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to build request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("x-goog-api-key", client.apiKey)

	// 3. Execute and time the call
	startTime := time.Now()
	httpResponse, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer func() { _ = httpResponse.Body.Close() }()

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to read response: %w", err)
	}

	client.logger.Debug("gemini_call_finished",
		slog.String("model", model),
		slog.Int("status", httpResponse.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	// 4. Map non-2xx responses to APIError
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		apiError := &APIError{Status: httpResponse.StatusCode}

		var parsed generateResponse
		if err := json.Unmarshal(responseBody, &parsed); err == nil && parsed.Error != nil {
			apiError.Message = parsed.Error.Message
		} else {
			apiError.Message = string(responseBody)
		}
		return nil, apiError
	}

	// 5. Decode the successful payload
	var response generateResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("gemini: failed to decode response: %w", err)
	}

	return &response, nil
}
