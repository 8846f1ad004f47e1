package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/wellness-service/internal/observability"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

func TestErrorEnvelope(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	metrics := observability.NewMetrics()
	app := NewApp("test", zap.New(core), metrics, MiddlewareConfig{AllowedOrigins: []string{"http://localhost:5173"}})

	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewConflict("slot taken", map[string]any{"date": "2026-01-01T10:00:00Z"})
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/slow", func(c *fiber.Ctx) error {
		return context.DeadlineExceeded
	})

	tests := []struct {
		path     string
		wantHTTP int
		wantCode string
	}{
		{path: "/conflict", wantHTTP: http.StatusConflict, wantCode: apperrors.CodeConflict},
		{path: "/panic", wantHTTP: http.StatusInternalServerError, wantCode: apperrors.CodeInternal},
		{path: "/slow", wantHTTP: http.StatusServiceUnavailable, wantCode: "TIMEOUT"},
		{path: "/missing", wantHTTP: http.StatusNotFound, wantCode: apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), int(time.Second.Milliseconds()))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantHTTP, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

			var body struct {
				Error struct {
					Code    string         `json:"code"`
					Message string         `json:"message"`
					Details map[string]any `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}

	assert.GreaterOrEqual(t, logs.FilterMessage("request failed").Len(), 1)
	assert.NotEmpty(t, metrics.Snapshot().Errors)
}
