package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemRouter(checks map[string]HealthCheck) *gin.Engine {
	h := NewSystemHandler("1.4.0", checks)
	router := newTestRouter()
	router.GET("/api/v1/health", h.Health)
	return router
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router := setupSystemRouter(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return nil },
		})

		w := performRequest(router, http.MethodGet, "/api/v1/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var out HealthResponse
		resp, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "ok", out.Status)
		assert.Equal(t, "1.4.0", out.Version)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, out.Checks)
		assert.NotEmpty(t, out.GoVersion)
	})

	t.Run("failing dependency", func(t *testing.T) {
		router := setupSystemRouter(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})

		w := performRequest(router, http.MethodGet, "/api/v1/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var out HealthResponse
		resp, err := decodeResponse(w, &out)
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "degraded", out.Status)
		assert.Equal(t, "ok", out.Checks["database"])
		assert.Equal(t, "error: connection refused", out.Checks["redis"])
	})

	t.Run("check sees a deadline", func(t *testing.T) {
		router := setupSystemRouter(map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline")
				}
				return nil
			},
		})

		w := performRequest(router, http.MethodGet, "/api/v1/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no checks", func(t *testing.T) {
		w := performRequest(setupSystemRouter(nil), http.MethodGet, "/api/v1/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
