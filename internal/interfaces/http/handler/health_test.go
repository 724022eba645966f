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

func TestHealthHandler_Check(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		want       map[string]string
	}{
		{"no dependencies", nil, http.StatusOK, map[string]string{"status": "healthy"}},
		{"all ok", map[string]HealthCheck{"database": ok, "redis": ok}, http.StatusOK,
			map[string]string{"status": "healthy", "database": "ok", "redis": "ok"}},
		{"redis down", map[string]HealthCheck{"database": ok, "redis": down}, http.StatusServiceUnavailable,
			map[string]string{"status": "unhealthy", "database": "ok", "redis": "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/health", "")
			NewHealthHandler(tt.checks).Check(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["time"])
			for k, v := range tt.want {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}
