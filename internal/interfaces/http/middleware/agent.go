package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/infrastructure/logger"
	"github.com/printease/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Printer agent headers
const (
	AgentTokenHeader = "X-Agent-Token"
	PrinterIDHeader  = "X-Printer-ID"
)

// AgentAuth guards the routes used by printer agents and the page-count
// worker with a shared token. An empty token leaves the routes open, which
// configuration validation forbids in production.
func AgentAuth(token string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	expected := []byte(token)

	return func(c *gin.Context) {
		if len(expected) > 0 {
			got := []byte(c.GetHeader(AgentTokenHeader))
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				log.Warn("Agent authentication failed",
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeUnauthorized, "Invalid agent token", GetRequestID(c)))
				return
			}
		}

		setPrinterID(c, c.GetHeader(PrinterIDHeader))
		c.Next()
	}
}

// PrinterFromPath tags the request with the printer named by a path parameter
func PrinterFromPath(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		setPrinterID(c, c.Param(param))
		c.Next()
	}
}

// GetPrinterID returns the printer the agent acts for, if known
func GetPrinterID(c *gin.Context) string {
	return c.GetString(logger.GinPrinterIDKey)
}

func setPrinterID(c *gin.Context, printerID string) {
	if printerID == "" {
		return
	}
	c.Set(logger.GinPrinterIDKey, printerID)
	c.Request = c.Request.WithContext(logger.WithPrinterID(c.Request.Context(), printerID))
}
