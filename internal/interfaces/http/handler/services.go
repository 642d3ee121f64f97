package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/application/fleet"
	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/application/pricing"
	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/printing"
)

// OrderService quotes and commits orders
type OrderService interface {
	Quote(ctx context.Context, req ordering.QuoteRequest) (*ordering.QuoteResponse, error)
	Checkout(ctx context.Context, req ordering.QuoteRequest) (*ordering.CheckoutResponse, error)
	Commit(ctx context.Context, req ordering.CommitRequest) (*ordering.CommitResponse, error)
	Jobs(ctx context.Context, orderID string) ([]printjob.JobResponse, error)
}

// ReceiptService renders order receipts
type ReceiptService interface {
	Receipt(ctx context.Context, orderID string) (*ordering.ReceiptResult, error)
}

// JobService manages print jobs and page-count requests
type JobService interface {
	GetJob(ctx context.Context, id uuid.UUID) (*printjob.JobResponse, error)
	ListForPrinter(ctx context.Context, printerID string, statuses []string, limit int) ([]printjob.JobResponse, error)
	ListOrders(ctx context.Context, query printjob.ListOrdersQuery) ([]printjob.OrderSummary, error)
	DeleteAll(ctx context.Context) (*printjob.DeleteJobsResponse, error)
	TestPage(ctx context.Context, printerID string) (*printjob.JobResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req printjob.UpdateStatusRequest) (*printjob.JobResponse, error)
	Reprint(ctx context.Context, id uuid.UUID, req printjob.ReprintRequest) (*printjob.JobResponse, error)
	RequestPageCount(ctx context.Context, input printjob.PageCountRequestInput) (*printjob.PageCountResponse, error)
	GetPageCount(ctx context.Context, id uuid.UUID) (*printjob.PageCountResponse, error)
	PendingPageCounts(ctx context.Context, limit int) ([]printjob.PageCountResponse, error)
	ReportPageCount(ctx context.Context, id uuid.UUID, report printjob.PageCountReport) (*printjob.PageCountResponse, error)
}

// PrinterService manages the printer fleet
type PrinterService interface {
	Heartbeat(ctx context.Context, id string, req fleet.HeartbeatRequest) (*fleet.PrinterResponse, error)
	UpdateCapabilities(ctx context.Context, id string, req fleet.UpdateCapabilitiesRequest) (*fleet.PrinterResponse, error)
	List(ctx context.Context, onlineOnly bool) ([]fleet.PrinterResponse, error)
}

// SettingsService reads and updates pricing and paper sizes
type SettingsService interface {
	GetPricing(ctx context.Context) (printing.PricingSchedule, error)
	UpdatePricing(ctx context.Context, schedule printing.PricingSchedule) (printing.PricingSchedule, error)
	GetPaperSizes(ctx context.Context) (printing.PaperSizeAvailability, error)
	UpdatePaperSizes(ctx context.Context, req pricing.UpdatePaperSizesRequest) (printing.PaperSizeAvailability, error)
}

var (
	_ OrderService    = (*ordering.OrderService)(nil)
	_ ReceiptService  = (*ordering.ReceiptService)(nil)
	_ JobService      = (*printjob.JobService)(nil)
	_ PrinterService  = (*fleet.PrinterService)(nil)
	_ SettingsService = (*pricing.SettingsService)(nil)
)
