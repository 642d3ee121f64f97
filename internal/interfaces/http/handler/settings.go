package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/application/pricing"
)

// SettingsHandler serves the pricing schedule and paper sizes
type SettingsHandler struct {
	BaseHandler
	settings SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetPricing handles GET /pricing
func (h *SettingsHandler) GetPricing(c *gin.Context) {
	schedule, err := h.settings.GetPricing(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, schedule)
}

// UpdatePricing handles PUT /pricing (admin). The body is decoded over the
// current schedule, so fields it omits keep their stored values.
func (h *SettingsHandler) UpdatePricing(c *gin.Context) {
	schedule, err := h.settings.GetPricing(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.BindJSON(c, &schedule) {
		return
	}

	updated, err := h.settings.UpdatePricing(c.Request.Context(), schedule)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// GetPaperSizes handles GET /paper-sizes
func (h *SettingsHandler) GetPaperSizes(c *gin.Context) {
	sizes, err := h.settings.GetPaperSizes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pricing.ToPaperSizeResponses(sizes))
}

// UpdatePaperSizes handles PUT /paper-sizes (admin)
func (h *SettingsHandler) UpdatePaperSizes(c *gin.Context) {
	var req pricing.UpdatePaperSizesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sizes, err := h.settings.UpdatePaperSizes(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pricing.ToPaperSizeResponses(sizes))
}
