package printjob

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// ==================== Print Job DTOs ====================

// UpdateStatusRequest is sent by a printer agent as a job progresses
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message" binding:"max=500"`
}

// ReprintRequest sends a finished job to a printer again
type ReprintRequest struct {
	PrinterID string `json:"printer_id" binding:"required,max=100"`
}

// JobResponse is the API view of a print job
type JobResponse struct {
	ID            uuid.UUID               `json:"id"`
	OrderID       string                  `json:"order_id"`
	PrinterID     string                  `json:"printer_id"`
	PrinterName   string                  `json:"printer_name"`
	Files         []printing.FileSnapshot `json:"files"`
	Binding       string                  `json:"binding"`
	Cost          decimal.Decimal         `json:"cost"`
	Status        string                  `json:"status"`
	PaymentID     string                  `json:"payment_id,omitempty"`
	PhoneNumber   string                  `json:"phone_number,omitempty"`
	IsReprint     bool                    `json:"is_reprint"`
	EditRequested bool                    `json:"edit_requested"`
	ErrorMessage  string                  `json:"error_message,omitempty"`
	CompletedAt   *time.Time              `json:"completed_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	Version       int                     `json:"version"`
}

// ToJobResponse converts a domain job to its response
func ToJobResponse(job *printing.PrintJob) JobResponse {
	return JobResponse{
		ID:            job.ID,
		OrderID:       job.OrderID,
		PrinterID:     job.PrinterID,
		PrinterName:   job.PrinterName,
		Files:         job.Files,
		Binding:       string(job.Binding),
		Cost:          job.Cost,
		Status:        string(job.Status),
		PaymentID:     job.PaymentID,
		PhoneNumber:   job.PhoneNumber,
		IsReprint:     job.IsReprint,
		EditRequested: job.EditRequested,
		ErrorMessage:  job.ErrorMessage,
		CompletedAt:   job.CompletedAt,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
		Version:       job.Version,
	}
}

// ToJobResponses converts a slice of domain jobs
func ToJobResponses(jobs []*printing.PrintJob) []JobResponse {
	responses := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = ToJobResponse(job)
	}
	return responses
}

// ==================== Admin DTOs ====================

// ListOrdersQuery filters the admin order list
type ListOrdersQuery struct {
	// Search is an order id or a phone number
	Search string `form:"search" binding:"max=100"`
	Status string `form:"status" binding:"max=30"`
	// Edit keeps only orders waiting in the edit queue
	Edit   bool   `form:"edit"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// OrderSummary groups the jobs of one order for the admin dashboard
type OrderSummary struct {
	OrderID       string          `json:"order_id"`
	PaymentID     string          `json:"payment_id,omitempty"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Statuses      []string        `json:"statuses"`
	EditRequested bool            `json:"edit_requested"`
	TestPage      bool            `json:"test_page"`
	CreatedAt     time.Time       `json:"created_at"`
	Jobs          []JobResponse   `json:"jobs"`
}

// GroupByOrder folds jobs into one summary per order, keeping the order in
// which each order first appears
func GroupByOrder(jobs []*printing.PrintJob) []OrderSummary {
	index := make(map[string]int)
	out := make([]OrderSummary, 0)
	for _, job := range jobs {
		i, ok := index[job.OrderID]
		if !ok {
			i = len(out)
			index[job.OrderID] = i
			out = append(out, OrderSummary{
				OrderID:     job.OrderID,
				PaymentID:   job.PaymentID,
				PhoneNumber: job.PhoneNumber,
				Total:       decimal.Zero,
				Statuses:    []string{},
				TestPage:    job.IsTestPage(),
				CreatedAt:   job.CreatedAt,
			})
		}
		summary := &out[i]
		summary.Total = summary.Total.Add(job.Cost)
		summary.EditRequested = summary.EditRequested || job.EditRequested
		if job.CreatedAt.Before(summary.CreatedAt) {
			summary.CreatedAt = job.CreatedAt
		}
		if !slices.Contains(summary.Statuses, string(job.Status)) {
			summary.Statuses = append(summary.Statuses, string(job.Status))
		}
		summary.Jobs = append(summary.Jobs, ToJobResponse(job))
	}
	return out
}

// DeleteJobsResponse reports how many jobs were removed
type DeleteJobsResponse struct {
	Deleted int64 `json:"deleted"`
}

// ==================== Page Count DTOs ====================

// PageCountRequestInput asks for the page count of an uploaded document
type PageCountRequestInput struct {
	DocumentRef string `json:"document_ref" binding:"required,max=1024"`
	FileName    string `json:"file_name" binding:"max=255"`
}

// PageCountReport is posted by the counting worker. Exactly one of
// PageCount and Error is expected.
type PageCountReport struct {
	PageCount *int   `json:"page_count" binding:"omitempty,min=0,max=10000"`
	Error     string `json:"error" binding:"max=500"`
}

// PageCountResponse is the API view of a page-count request
type PageCountResponse struct {
	ID           uuid.UUID `json:"id"`
	DocumentRef  string    `json:"document_ref"`
	FileName     string    `json:"file_name,omitempty"`
	Status       string    `json:"status"`
	PageCount    *int      `json:"page_count,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToPageCountResponse converts a domain request to its response
func ToPageCountResponse(req *printing.PageCountRequest) PageCountResponse {
	return PageCountResponse{
		ID:           req.ID,
		DocumentRef:  req.DocumentRef,
		FileName:     req.FileName,
		Status:       string(req.Status),
		PageCount:    req.PageCount,
		ErrorMessage: req.ErrorMessage,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}
