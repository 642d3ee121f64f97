package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/application/fleet"
	"github.com/printease/backend/internal/interfaces/http/dto"
	"github.com/printease/backend/internal/interfaces/http/middleware"
)

// PrinterHandler serves the printer fleet
type PrinterHandler struct {
	BaseHandler
	printers PrinterService
	jobs     JobService
}

// NewPrinterHandler creates a new PrinterHandler
func NewPrinterHandler(printers PrinterService, jobs JobService) *PrinterHandler {
	return &PrinterHandler{printers: printers, jobs: jobs}
}

// List handles GET /printers; ?online=true hides offline printers
func (h *PrinterHandler) List(c *gin.Context) {
	onlineOnly, _ := strconv.ParseBool(c.Query("online"))
	printers, err := h.printers.List(c.Request.Context(), onlineOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, printers)
}

// Heartbeat handles POST /printers/:id/heartbeat from a printer agent
func (h *PrinterHandler) Heartbeat(c *gin.Context) {
	printerID, ok := printerParam(c)
	if !ok {
		return
	}
	var req fleet.HeartbeatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	printer, err := h.printers.Heartbeat(c.Request.Context(), printerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, printer)
}

// Jobs handles GET /printers/:id/jobs?status=ready&status=reprint&limit=20
func (h *PrinterHandler) Jobs(c *gin.Context) {
	printerID, ok := printerParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	jobs, err := h.jobs.ListForPrinter(c.Request.Context(), printerID, c.QueryArray("status"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jobs)
}

// TestPage handles POST /printers/:id/test-page (admin)
func (h *PrinterHandler) TestPage(c *gin.Context) {
	printerID, ok := printerParam(c)
	if !ok {
		return
	}
	job, err := h.jobs.TestPage(c.Request.Context(), printerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, job)
}

// UpdateCapabilities handles PUT /printers/:id/capabilities (admin)
func (h *PrinterHandler) UpdateCapabilities(c *gin.Context) {
	printerID, ok := printerParam(c)
	if !ok {
		return
	}
	var req fleet.UpdateCapabilitiesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	printer, err := h.printers.UpdateCapabilities(c.Request.Context(), printerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, printer)
}

func printerParam(c *gin.Context) (string, bool) {
	var uri dto.PrinterIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return "", false
	}
	return uri.ID, true
}
