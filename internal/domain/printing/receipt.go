package printing

import (
	"context"
	"sort"
	"time"

	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Receipt summarises the committed jobs of one order
type Receipt struct {
	OrderID     string
	PaymentID   string
	PhoneNumber string
	Jobs        []*PrintJob
	Total       decimal.Decimal
	IssuedAt    time.Time
}

// NewReceipt builds a receipt from the jobs of one order, oldest job first
func NewReceipt(orderID string, jobs []*PrintJob, issuedAt time.Time) (*Receipt, error) {
	if len(jobs) == 0 {
		return nil, shared.ErrNotFound
	}
	sorted := make([]*PrintJob, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	r := &Receipt{OrderID: orderID, Jobs: sorted, Total: decimal.Zero, IssuedAt: issuedAt}
	for _, j := range sorted {
		if j.OrderID != orderID {
			return nil, shared.NewDomainError("INVALID_RECEIPT", "Job "+j.ID.String()+" belongs to another order")
		}
		r.Total = r.Total.Add(j.Cost)
		if r.PaymentID == "" {
			r.PaymentID = j.PaymentID
		}
		if r.PhoneNumber == "" {
			r.PhoneNumber = j.PhoneNumber
		}
	}
	return r, nil
}

// ReceiptRenderer turns a receipt into a printable document
type ReceiptRenderer interface {
	Render(ctx context.Context, receipt *Receipt) ([]byte, error)
	ContentType() string
}

// ReceiptArchive stores rendered receipts and hands out download links
type ReceiptArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
