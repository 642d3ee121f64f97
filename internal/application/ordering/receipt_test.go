package ordering_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) Render(ctx context.Context, r *printing.Receipt) ([]byte, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReceiptRenderer) ContentType() string {
	return "application/pdf"
}

type MockReceiptArchive struct {
	mock.Mock
}

func (m *MockReceiptArchive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockReceiptArchive) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func committedJob(orderID string, cost int64) *printing.PrintJob {
	return &printing.PrintJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		PrinterID:         "p1",
		Cost:              decimal.NewFromInt(cost),
		Status:            printing.JobStatusPending,
		PaymentID:         "pay_1",
	}
}

func TestReceiptService_Inline(t *testing.T) {
	repo := new(MockPrintJobRepository)
	renderer := new(MockReceiptRenderer)
	repo.On("FindByOrderID", mock.Anything, "order-1").
		Return([]*printing.PrintJob{committedJob("order-1", 4), committedJob("order-1", 6)}, nil)
	renderer.On("Render", mock.Anything, mock.MatchedBy(func(r *printing.Receipt) bool {
		return r.Total.Equal(decimal.NewFromInt(10)) && r.PaymentID == "pay_1"
	})).Return([]byte("%PDF-1.3"), nil)

	svc := ordering.NewReceiptService(repo, renderer, nil, 0, zap.NewNop())
	result, err := svc.Receipt(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.3"), result.Content)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Empty(t, result.URL)
	renderer.AssertExpectations(t)
}

func TestReceiptService_Archived(t *testing.T) {
	repo := new(MockPrintJobRepository)
	renderer := new(MockReceiptRenderer)
	archive := new(MockReceiptArchive)
	repo.On("FindByOrderID", mock.Anything, "order-1").
		Return([]*printing.PrintJob{committedJob("order-1", 4)}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	archive.On("Put", mock.Anything, "receipts/order-1.pdf", []byte("%PDF"), "application/pdf").Return(nil)
	archive.On("DownloadURL", mock.Anything, "receipts/order-1.pdf", 5*time.Minute).
		Return("https://receipts.example/order-1.pdf?sig=x", nil)

	svc := ordering.NewReceiptService(repo, renderer, archive, 5*time.Minute, zap.NewNop())
	result, err := svc.Receipt(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, "https://receipts.example/order-1.pdf?sig=x", result.URL)
	archive.AssertExpectations(t)
}

func TestReceiptService_ArchiveFailureFallsBackInline(t *testing.T) {
	repo := new(MockPrintJobRepository)
	renderer := new(MockReceiptRenderer)
	archive := new(MockReceiptArchive)
	repo.On("FindByOrderID", mock.Anything, "order-1").
		Return([]*printing.PrintJob{committedJob("order-1", 4)}, nil)
	renderer.On("Render", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket unavailable"))

	svc := ordering.NewReceiptService(repo, renderer, archive, time.Minute, zap.NewNop())
	result, err := svc.Receipt(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF"), result.Content)
	assert.Empty(t, result.URL)
	archive.AssertNotCalled(t, "DownloadURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiptService_UnknownOrder(t *testing.T) {
	repo := new(MockPrintJobRepository)
	repo.On("FindByOrderID", mock.Anything, "missing").Return([]*printing.PrintJob{}, nil)

	svc := ordering.NewReceiptService(repo, new(MockReceiptRenderer), nil, 0, nil)
	_, err := svc.Receipt(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReceiptKey(t *testing.T) {
	assert.Equal(t, "receipts/abc.pdf", ordering.ReceiptKey("abc"))
}
