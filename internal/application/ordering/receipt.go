package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"go.uber.org/zap"
)

// ReceiptResult is either an inline document or a link to the archived copy
type ReceiptResult struct {
	Content     []byte
	ContentType string
	URL         string
}

// ReceiptService renders order receipts and optionally archives them
type ReceiptService struct {
	jobRepo  printing.PrintJobRepository
	renderer printing.ReceiptRenderer
	archive  printing.ReceiptArchive // nil disables archiving
	linkTTL  time.Duration
	logger   *zap.Logger
}

// NewReceiptService creates a receipt service; archive may be nil
func NewReceiptService(
	jobRepo printing.PrintJobRepository,
	renderer printing.ReceiptRenderer,
	archive printing.ReceiptArchive,
	linkTTL time.Duration,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &ReceiptService{
		jobRepo:  jobRepo,
		renderer: renderer,
		archive:  archive,
		linkTTL:  linkTTL,
		logger:   logger,
	}
}

// Receipt renders the receipt of an order. With an archive configured the
// document is stored under receipts/<order>.pdf and a download link is returned.
func (s *ReceiptService) Receipt(ctx context.Context, orderID string) (*ReceiptResult, error) {
	jobs, err := s.jobRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order jobs: %w", err)
	}
	receipt, err := printing.NewReceipt(orderID, jobs, time.Now())
	if err != nil {
		return nil, err
	}
	content, err := s.renderer.Render(ctx, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	result := &ReceiptResult{Content: content, ContentType: s.renderer.ContentType()}
	if s.archive == nil {
		return result, nil
	}

	key := ReceiptKey(orderID)
	if err := s.archive.Put(ctx, key, content, result.ContentType); err != nil {
		s.logger.Warn("Failed to archive receipt, serving inline",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return result, nil
	}
	url, err := s.archive.DownloadURL(ctx, key, s.linkTTL)
	if err != nil {
		s.logger.Warn("Failed to sign receipt URL, serving inline",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return result, nil
	}
	result.URL = url
	return result, nil
}

// ReceiptKey is the archive key of an order receipt
func ReceiptKey(orderID string) string {
	return "receipts/" + orderID + ".pdf"
}
