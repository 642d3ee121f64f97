package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobFilter narrows print job listings
type JobFilter struct {
	PrinterID     string
	Statuses      []JobStatus
	// Search matches an order id or a phone number exactly
	Search        string
	// EditRequested keeps only jobs in the edit queue
	EditRequested bool
	// NewestFirst reverses the default oldest-first order
	NewestFirst   bool
	Limit         int
}

// PrintJobRepository defines the interface for print job persistence
type PrintJobRepository interface {
	// FindByID finds a print job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PrintJob, error)

	// FindByOrderID finds all jobs of an order, oldest first
	FindByOrderID(ctx context.Context, orderID string) ([]*PrintJob, error)

	// FindByPaymentID finds the jobs created for a captured payment
	FindByPaymentID(ctx context.Context, paymentID string) ([]*PrintJob, error)

	// FindAll lists jobs matching the filter, oldest first unless
	// filter.NewestFirst is set
	FindAll(ctx context.Context, filter JobFilter) ([]*PrintJob, error)

	// DeleteAll removes every job and reports how many were deleted
	DeleteAll(ctx context.Context) (int64, error)

	// Save creates or updates a print job
	Save(ctx context.Context, job *PrintJob) error

	// SaveBatch stores all jobs of an order in one transaction
	SaveBatch(ctx context.Context, jobs []*PrintJob) error
}

// PageCountRepository persists page-count requests
type PageCountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PageCountRequest, error)
	FindPending(ctx context.Context, limit int) ([]*PageCountRequest, error)
	Save(ctx context.Context, req *PageCountRequest) error
}

// PrinterRepository persists the fleet
type PrinterRepository interface {
	// FindByID returns shared.ErrNotFound for unknown printers
	FindByID(ctx context.Context, id string) (*Printer, error)

	// FindAll returns every printer in pool order
	FindAll(ctx context.Context) ([]*Printer, error)

	// Save creates or updates a printer
	Save(ctx context.Context, printer *Printer) error
}

// SettingsRepository stores the pricing schedule and paper-size availability
type SettingsRepository interface {
	// GetPricing returns the stored schedule merged over the defaults
	GetPricing(ctx context.Context) (PricingSchedule, error)
	SavePricing(ctx context.Context, schedule PricingSchedule) error

	// GetPaperSizes returns availability for every paper size
	GetPaperSizes(ctx context.Context) (PaperSizeAvailability, error)
	SavePaperSizes(ctx context.Context, sizes PaperSizeAvailability) error
}

// PaperSizeAvailability tells which paper sizes customers may order
type PaperSizeAvailability map[PaperSize]bool

// DefaultPaperSizeAvailability enables A4 and A3 only
func DefaultPaperSizeAvailability() PaperSizeAvailability {
	return PaperSizeAvailability{
		PaperSizeA4: true,
		PaperSizeA3: true,
		PaperSizeA2: false,
		PaperSizeA1: false,
		PaperSizeA0: false,
	}
}

// Enabled reports whether size may be ordered
func (a PaperSizeAvailability) Enabled(size PaperSize) bool {
	return a[size]
}

// Merge overlays stored flags over the defaults, ignoring unknown sizes
func (a PaperSizeAvailability) Merge(stored map[PaperSize]bool) PaperSizeAvailability {
	out := make(PaperSizeAvailability, len(a))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range stored {
		if k.IsValid() {
			out[k] = v
		}
	}
	return out
}

// PaymentConfirmation is what the payment gateway hands back after capture
type PaymentConfirmation struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// PaymentVerifier checks that a confirmation was issued by the gateway
type PaymentVerifier interface {
	Verify(ctx context.Context, confirmation PaymentConfirmation) error
}

// CheckoutStore remembers the amount each gateway order was opened for, so a
// commit is checked against what the server quoted rather than what the
// client claims to have paid
type CheckoutStore interface {
	// Record stores amount under gatewayOrderID for ttl
	Record(ctx context.Context, gatewayOrderID string, amount decimal.Decimal, ttl time.Duration) error
	// Amount returns the recorded amount, or shared.ErrNotFound when the
	// gateway order is unknown or expired
	Amount(ctx context.Context, gatewayOrderID string) (decimal.Decimal, error)
}
