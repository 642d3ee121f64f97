package router

import (
	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/interfaces/http/handler"
	"github.com/printease/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers served under /api/v1
type Handlers struct {
	Orders   *handler.OrderHandler
	Printers *handler.PrinterHandler
	Jobs     *handler.JobHandler
	Settings *handler.SettingsHandler
	Auth     *handler.AuthHandler
	System   *handler.SystemHandler
}

// Guards protect the non-public routes. A nil guard leaves its routes open.
type Guards struct {
	// Agent authenticates printer agents and the page-count worker
	Agent gin.HandlerFunc
	// Admin requires an administrator session
	Admin gin.HandlerFunc
	// Login throttles credential attempts
	Login gin.HandlerFunc
}

// APIGroups builds the route groups of the print shop API.
//
// Customers use the order form without logging in, printer agents send the
// shared agent token, and settings changes need an admin session.
func APIGroups(h Handlers, g Guards) []RouteRegistrar {
	agent, admin := g.Agent, g.Admin
	printerFromPath := middleware.PrinterFromPath("id")

	orders := NewDomainGroup("orders", "/orders").
		POST("/quote", h.Orders.Quote).
		POST("/checkout", h.Orders.Checkout).
		POST("/commit", h.Orders.Commit).
		GET("/:id/jobs", h.Orders.Jobs).
		GET("/:id/receipt", h.Orders.Receipt)

	printers := NewDomainGroup("printers", "/printers").
		GET("", h.Printers.List).
		POST("/:id/heartbeat", agent, printerFromPath, h.Printers.Heartbeat).
		GET("/:id/jobs", agent, printerFromPath, h.Printers.Jobs).
		POST("/:id/test-page", admin, h.Printers.TestPage).
		PUT("/:id/capabilities", admin, h.Printers.UpdateCapabilities)

	jobs := NewDomainGroup("jobs", "/jobs").
		GET("", admin, h.Jobs.ListOrders).
		DELETE("", admin, h.Jobs.DeleteAll).
		GET("/:id", admin, h.Jobs.GetJob).
		PATCH("/:id/status", agent, h.Jobs.UpdateStatus).
		POST("/:id/reprint", admin, h.Jobs.Reprint)

	pageCounts := NewDomainGroup("page-counts", "/page-counts").
		POST("", h.Jobs.RequestPageCount).
		GET("/pending", agent, h.Jobs.PendingPageCounts).
		GET("/:id", h.Jobs.GetPageCount).
		PUT("/:id", agent, h.Jobs.ReportPageCount)

	settings := NewDomainGroup("settings", "").
		GET("/pricing", h.Settings.GetPricing).
		PUT("/pricing", admin, h.Settings.UpdatePricing).
		GET("/paper-sizes", h.Settings.GetPaperSizes).
		PUT("/paper-sizes", admin, h.Settings.UpdatePaperSizes)

	authRoutes := NewDomainGroup("auth", "/auth").
		POST("/login", g.Login, h.Auth.Login).
		POST("/logout", admin, h.Auth.Logout).
		GET("/me", admin, h.Auth.Me)

	system := NewDomainGroup("system", "").
		GET("/health", h.System.Health)

	return []RouteRegistrar{orders, printers, jobs, pageCounts, settings, authRoutes, system}
}
