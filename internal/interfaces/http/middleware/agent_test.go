package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func newAgentRouter(token string) *gin.Engine {
	router := gin.New()
	agents := router.Group("/api/v1", RequestID(), AgentAuth(token, nil))
	agents.POST("/printers/:id/heartbeat", PrinterFromPath("id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"printer": GetPrinterID(c),
			"ctx":     logger.GetPrinterID(c.Request.Context()),
		})
	})
	agents.PATCH("/jobs/:id/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"printer": GetPrinterID(c)})
	})
	return router
}

func TestAgentAuth(t *testing.T) {
	router := newAgentRouter("s3cret-agent-token")

	t.Run("accepts the shared token and tags the printer from the path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/printers/printer-a/heartbeat", nil)
		req.Header.Set(AgentTokenHeader, "s3cret-agent-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"printer":"printer-a","ctx":"printer-a"}`, w.Body.String())
	})

	t.Run("uses the printer header elsewhere", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/jobs/42/status", nil)
		req.Header.Set(AgentTokenHeader, "s3cret-agent-token")
		req.Header.Set(PrinterIDHeader, "printer-b")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"printer":"printer-b"}`, w.Body.String())
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/jobs/42/status", nil)
		req.Header.Set(AgentTokenHeader, "guess")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/jobs/42/status", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty configured token leaves routes open", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAgentRouter("").ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/jobs/42/status", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
