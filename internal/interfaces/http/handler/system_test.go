package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandlerHealth(t *testing.T) {
	h := NewSystemHandler(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return errors.New("down") }),
	})
	c, w := newTestContext(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Empty(t, resp.Checks, "liveness does not touch dependencies")
}

func TestSystemHandlerReady(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	failing := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{
			name:       "all dependencies up",
			checks:     map[string]Pinger{"database": ok, "redis": ok},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
			wantChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name:       "redis down",
			checks:     map[string]Pinger{"database": ok, "redis": failing},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]string{"database": "ok", "redis": "error"},
		},
		{
			name:       "no dependencies",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(tt.checks)
			c, w := newTestContext(http.MethodGet, "/ready", nil)

			h.Ready(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.NotEmpty(t, resp.Time)
			if tt.wantChecks != nil {
				assert.Equal(t, tt.wantChecks, resp.Checks)
			}
		})
	}
}

func TestSystemHandlerReadyHonoursTimeout(t *testing.T) {
	h := NewSystemHandler(map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	})
	h.timeout = 0
	c, w := newTestContext(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
