package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/infrastructure/config"
	"github.com/printease/backend/internal/infrastructure/logger"
	"github.com/printease/backend/internal/interfaces/http/dto"
	"github.com/printease/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// HealthPath is not access-logged; load balancers poll it constantly
const HealthPath = "/api/v1/health"

// loginAttempts is the per-IP budget of POST /auth/login per window
const loginAttempts = 10

// Engine is a gin engine with the process-wide middleware installed
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
	login    gin.HandlerFunc
}

// NewEngine creates the gin engine and installs the global middleware chain
func NewEngine(cfg config.HTTPConfig, log *zap.Logger) (*Engine, error) {
	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, fmt.Errorf("invalid trusted proxies: %w", err)
		}
	} else if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	e := &Engine{Engine: engine}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, HealthPath))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	if cfg.RateLimitEnabled && cfg.RateLimitRequests > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, window)
		e.limiters = append(e.limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
	}

	loginLimiter := middleware.NewRateLimiter(loginAttempts, window)
	e.limiters = append(e.limiters, loginLimiter)
	e.login = middleware.LoginRateLimit(loginLimiter)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	return e, nil
}

// LoginGuard returns the login throttle for Guards.Login
func (e *Engine) LoginGuard() gin.HandlerFunc {
	return e.login
}

// Mount registers the API routes under /api/v1
func (e *Engine) Mount(h Handlers, g Guards) {
	if g.Login == nil {
		g.Login = e.login
	}
	NewRouter(e.Engine, WithAPIVersion("v1")).Register(APIGroups(h, g)...).Setup()
}

// Close stops the rate limiter sweepers
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}
