// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/admin"
	"github.com/taibuivan/fablery/internal/generation"
	"github.com/taibuivan/fablery/internal/platform/gemini"
	"github.com/taibuivan/fablery/internal/platform/respond"
)

// probeGateway is a [generation.ModelGateway] stub for the model health
// endpoint: only the text path is ever exercised.
type probeGateway struct {
	reply string
	err   error
}

func (gateway *probeGateway) GenerateText(_ context.Context, _ string) (string, error) {
	return gateway.reply, gateway.err
}

func (gateway *probeGateway) GenerateImage(_ context.Context, _ string, _ gemini.ImageInput) (string, error) {
	return "", errors.New("unexpected image call")
}

func newCheckHandler(gateway *probeGateway) *admin.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	generationService := generation.NewService(gateway, nil, nil, nil, logger)
	return admin.NewHandler(nil, nil, generationService)
}

/*
TestHandler_CheckModel covers the three probe outcomes: a working key, an
exhausted quota (still a valid key), and a hard upstream rejection.
*/
func TestHandler_CheckModel(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		handler := newCheckHandler(&probeGateway{reply: "Hello"})

		recorder := httptest.NewRecorder()
		handler.CheckModel(recorder, httptest.NewRequest(http.MethodPost, "/admin/model/check", nil))

		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "ok", envelope.Data["status"])
		assert.Equal(t, "Hello", envelope.Data["reply"])
	})

	t.Run("rate_limited_key_is_valid", func(t *testing.T) {
		handler := newCheckHandler(&probeGateway{err: &gemini.APIError{Status: http.StatusTooManyRequests, Message: "quota"}})

		recorder := httptest.NewRecorder()
		handler.CheckModel(recorder, httptest.NewRequest(http.MethodPost, "/admin/model/check", nil))

		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "rate_limited", envelope.Data["status"])
	})

	t.Run("hard_failure_is_bad_gateway", func(t *testing.T) {
		handler := newCheckHandler(&probeGateway{err: &gemini.APIError{Status: http.StatusUnauthorized, Message: "bad key"}})

		recorder := httptest.NewRecorder()
		handler.CheckModel(recorder, httptest.NewRequest(http.MethodPost, "/admin/model/check", nil))

		require.Equal(t, http.StatusBadGateway, recorder.Code)

		var envelope respond.ErrorEnvelope
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "GENERATION_FAILED", envelope.Code)
	})
}
