package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/application/ordering"
)

// OrderHandler serves order previews, commits and receipts
type OrderHandler struct {
	BaseHandler
	orders   OrderService
	receipts ReceiptService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService, receipts ReceiptService) *OrderHandler {
	return &OrderHandler{orders: orders, receipts: receipts}
}

// Quote handles POST /orders/quote. Files that fit no printer are reported
// in the response, not as an error, so the form can show them.
func (h *OrderHandler) Quote(c *gin.Context) {
	var req ordering.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.orders.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Checkout handles POST /orders/checkout. The returned gateway order id and
// amount are what the client pays before committing.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req ordering.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Commit handles POST /orders/commit
func (h *OrderHandler) Commit(c *gin.Context) {
	var req ordering.CommitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orders.Commit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.Replayed {
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// Jobs handles GET /orders/:id/jobs
func (h *OrderHandler) Jobs(c *gin.Context) {
	jobs, err := h.orders.Jobs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jobs)
}

// ReceiptLink is returned when the receipt was archived
type ReceiptLink struct {
	URL string `json:"url"`
}

// Receipt handles GET /orders/:id/receipt
func (h *OrderHandler) Receipt(c *gin.Context) {
	orderID := c.Param("id")
	result, err := h.receipts.Receipt(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.URL != "" {
		h.Success(c, ReceiptLink{URL: result.URL})
		return
	}

	c.Header("Content-Disposition", `inline; filename="receipt-`+orderID+`.pdf"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
