package ordering

import (
	"time"

	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// LayoutInput is the collage layout of an image file
type LayoutInput struct {
	Kind    string `json:"kind" binding:"required,oneof=full-page 2-up 4-up 9-up contact-sheet"`
	FitMode string `json:"fit_mode" binding:"omitempty,oneof=fill fit"`
}

// FileInput is one configured file of an order
type FileInput struct {
	ID          string       `json:"id" binding:"required,max=100"`
	Name        string       `json:"name" binding:"max=255"`
	Kind        string       `json:"kind" binding:"required,oneof=document image"`
	PageCount   *int         `json:"page_count" binding:"omitempty,min=0,max=10000"`
	PageRange   string       `json:"page_range" binding:"max=200,page_range"`
	Copies      int          `json:"copies" binding:"required,min=1,max=100"`
	PrintType   string       `json:"print_type" binding:"required,oneof=bw color"`
	PaperSize   string       `json:"paper_size" binding:"required,oneof=A4 A3 A2 A1 A0"`
	Orientation string       `json:"orientation" binding:"omitempty,oneof=portrait landscape"`
	Duplex      string       `json:"duplex" binding:"omitempty,oneof=one-sided duplex-long-edge duplex-short-edge"`
	Layout      *LayoutInput `json:"layout"`
}

// ToFileSpec validates the input and builds the domain value
func (in FileInput) ToFileSpec() (printing.FileSpec, error) {
	var layout *printing.ImageLayout
	if in.Layout != nil {
		fit := printing.FitMode(in.Layout.FitMode)
		if fit == "" {
			fit = printing.FitModeFill
		}
		layout = &printing.ImageLayout{Kind: printing.LayoutKind(in.Layout.Kind), FitMode: fit}
	}
	return printing.NewFileSpec(printing.FileSpecInput{
		ID:          in.ID,
		Name:        in.Name,
		Kind:        printing.FileKind(in.Kind),
		PageCount:   in.PageCount,
		PageRange:   in.PageRange,
		Copies:      in.Copies,
		PrintType:   printing.PrintType(in.PrintType),
		PaperSize:   printing.PaperSize(in.PaperSize),
		Orientation: printing.Orientation(in.Orientation),
		Duplex:      printing.DuplexMode(in.Duplex),
		Layout:      layout,
	})
}

// QuoteRequest asks for a price and a printer plan without committing it
type QuoteRequest struct {
	Files     []FileInput `json:"files" binding:"required,min=1,max=50,dive"`
	Binding   string      `json:"binding" binding:"omitempty,oneof=none spiral soft"`
	BindFiles string      `json:"bind_files" binding:"max=200"`
	// EditService adds the shop's edit service to the order
	EditService bool `json:"edit_service"`
}

// CommitRequest turns a paid quote into print jobs
type CommitRequest struct {
	QuoteRequest
	GatewayOrderID string `json:"gateway_order_id" binding:"required,max=100"`
	PaymentID      string `json:"payment_id" binding:"required,max=100"`
	Signature      string `json:"signature" binding:"required,max=256"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,max=20"`
}

// FileCostResponse is the priced view of one file
type FileCostResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name,omitempty"`
	PagesToPrint int             `json:"pages_to_print"`
	Copies       int             `json:"copies"`
	Cost         decimal.Decimal `json:"cost"`
}

// AllocatedJobResponse is one planned job
type AllocatedJobResponse struct {
	Cluster     string             `json:"cluster"`
	Category    string             `json:"category,omitempty"`
	PrinterID   string             `json:"printer_id"`
	PrinterName string             `json:"printer_name"`
	Binding     string             `json:"binding"`
	BindingFee  decimal.Decimal    `json:"binding_fee"`
	EditFee     decimal.Decimal    `json:"edit_fee"`
	Cost        decimal.Decimal    `json:"cost"`
	Files       []FileCostResponse `json:"files"`
}

// QuoteResponse is the preview of an order
type QuoteResponse struct {
	Jobs      []AllocatedJobResponse      `json:"jobs"`
	Failures  []printing.PlacementFailure `json:"failures"`
	Total     decimal.Decimal             `json:"total"`
	Placeable bool                        `json:"placeable"`
}

// CheckoutResponse is an opened gateway order. The client pays Amount
// against GatewayOrderID and then commits with the gateway's confirmation.
type CheckoutResponse struct {
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	ExpiresAt      time.Time       `json:"expires_at"`
	Quote          QuoteResponse   `json:"quote"`
}

// CommitResponse lists the jobs created for a paid order
type CommitResponse struct {
	OrderID string                 `json:"order_id"`
	Jobs    []printjob.JobResponse `json:"jobs"`
	Total   decimal.Decimal        `json:"total"`
	// Replayed is true when the payment had already been committed
	Replayed bool `json:"replayed"`
}

// ToFileCostResponse converts a priced file
func ToFileCostResponse(f printing.FileSpec) FileCostResponse {
	cost, _ := f.Cost()
	return FileCostResponse{
		ID:           f.ID(),
		Name:         f.Name(),
		PagesToPrint: f.PagesToPrint(),
		Copies:       f.Copies(),
		Cost:         cost,
	}
}

// ToAllocatedJobResponse converts a planned job
func ToAllocatedJobResponse(job printing.AllocatedJob) AllocatedJobResponse {
	files := make([]FileCostResponse, len(job.Files))
	for i, f := range job.Files {
		files[i] = ToFileCostResponse(f)
	}
	resp := AllocatedJobResponse{
		Cluster:     string(job.Cluster),
		PrinterID:   job.PrinterID,
		PrinterName: job.PrinterName,
		Binding:     string(job.Binding),
		BindingFee:  job.BindingFee,
		EditFee:     job.EditFee,
		Cost:        job.Cost,
		Files:       files,
	}
	if job.Cluster == printing.ClusterCategory {
		resp.Category = job.Category.String()
	}
	return resp
}

// ToQuoteResponse converts an allocation
func ToQuoteResponse(alloc printing.OrderAllocation) QuoteResponse {
	jobs := make([]AllocatedJobResponse, len(alloc.Jobs))
	for i, j := range alloc.Jobs {
		jobs[i] = ToAllocatedJobResponse(j)
	}
	failures := alloc.Failures
	if failures == nil {
		failures = []printing.PlacementFailure{}
	}
	return QuoteResponse{
		Jobs:      jobs,
		Failures:  failures,
		Total:     alloc.Total,
		Placeable: alloc.Placed(),
	}
}
