package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/printease/backend/internal/application/printjob"
)

// JobHandler serves print jobs and page-count requests
type JobHandler struct {
	BaseHandler
	jobs JobService
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// GetJob handles GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := h.UUIDParam(c)
	if !ok {
		return
	}
	job, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// ListOrders handles GET /jobs?search=&status=&edit=true&limit= (admin)
func (h *JobHandler) ListOrders(c *gin.Context) {
	var query printjob.ListOrdersQuery
	if !h.BindQuery(c, &query) {
		return
	}
	orders, err := h.jobs.ListOrders(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// DeleteAll handles DELETE /jobs (admin)
func (h *JobHandler) DeleteAll(c *gin.Context) {
	resp, err := h.jobs.DeleteAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PATCH /jobs/:id/status from a printer agent
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.UUIDParam(c)
	if !ok {
		return
	}
	var req printjob.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.jobs.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// Reprint handles POST /jobs/:id/reprint (admin)
func (h *JobHandler) Reprint(c *gin.Context) {
	id, ok := h.UUIDParam(c)
	if !ok {
		return
	}
	var req printjob.ReprintRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Reprint(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, job)
}

// RequestPageCount handles POST /page-counts
func (h *JobHandler) RequestPageCount(c *gin.Context) {
	var input printjob.PageCountRequestInput
	if !h.BindJSON(c, &input) {
		return
	}

	req, err := h.jobs.RequestPageCount(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, req)
}

// GetPageCount handles GET /page-counts/:id, polled by the order form
func (h *JobHandler) GetPageCount(c *gin.Context) {
	id, ok := h.UUIDParam(c)
	if !ok {
		return
	}
	req, err := h.jobs.GetPageCount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// PendingPageCounts handles GET /page-counts/pending for the counting worker
func (h *JobHandler) PendingPageCounts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reqs, err := h.jobs.PendingPageCounts(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reqs)
}

// ReportPageCount handles PUT /page-counts/:id from the counting worker
func (h *JobHandler) ReportPageCount(c *gin.Context) {
	id, ok := h.UUIDParam(c)
	if !ok {
		return
	}
	var report printjob.PageCountReport
	if !h.BindJSON(c, &report) {
		return
	}

	req, err := h.jobs.ReportPageCount(c.Request.Context(), id, report)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}
