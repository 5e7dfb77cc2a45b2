// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gemini_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/platform/gemini"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

/*
TestClient_GenerateText verifies the request shape and text extraction.
*/
func TestClient_GenerateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// 1. Routing and auth header
		assert.Equal(t, "/models/test-text-model:generateContent", request.URL.Path)
		assert.Equal(t, "secret-key", request.Header.Get("x-goog-api-key"))

		// 2. Body carries the prompt as the first text part
		var body map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		contents := body["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		assert.Equal(t, "tell me a story", parts[0].(map[string]any)["text"])

		_, _ = writer.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Once upon a time"}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewClient("secret-key", server.URL, "test-text-model", "test-image-model", newTestLogger())

	text, err := client.GenerateText(context.Background(), "tell me a story")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", text)
}

/*
TestClient_GenerateImage verifies that the reference image and aspect ratio
are forwarded, and that base64 image data is extracted.
*/
func TestClient_GenerateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/models/test-image-model:generateContent", request.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))

		// Reference image travels as a second inlineData part
		contents := body["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "image/png", inline["mimeType"])
		assert.Equal(t, "cmVmZXJlbmNl", inline["data"])

		// Aspect ratio travels in generationConfig.imageConfig
		generationConfig := body["generationConfig"].(map[string]any)
		imageConfig := generationConfig["imageConfig"].(map[string]any)
		assert.Equal(t, "4:3", imageConfig["aspectRatio"])

		_, _ = writer.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"aW1hZ2U="}}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewClient("secret-key", server.URL, "test-text-model", "test-image-model", newTestLogger())

	data, err := client.GenerateImage(context.Background(), "draw a dragon", gemini.ImageInput{
		AspectRatio:    "4:3",
		ReferenceImage: "cmVmZXJlbmNl",
	})
	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2U=", data)
}

/*
TestClient_APIError checks that non-2xx responses surface as APIError and
that 429 is classified as rate-limited.
*/
func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		_, _ = writer.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted"}}`))
	}))
	defer server.Close()

	client := gemini.NewClient("secret-key", server.URL, "test-text-model", "test-image-model", newTestLogger())

	_, err := client.GenerateText(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, gemini.IsRateLimited(err))
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

/*
TestClient_MissingImagePart checks that an image call without inline data fails.
*/
func TestClient_MissingImagePart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I cannot draw that"}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewClient("secret-key", server.URL, "test-text-model", "test-image-model", newTestLogger())

	_, err := client.GenerateImage(context.Background(), "draw", gemini.ImageInput{AspectRatio: "1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image part")
	assert.False(t, gemini.IsRateLimited(err))
}
