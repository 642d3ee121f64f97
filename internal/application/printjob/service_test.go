package printjob

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockPrintJobRepository struct {
	mock.Mock
}

func (m *MockPrintJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PrintJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindByOrderID(ctx context.Context, orderID string) ([]*printing.PrintJob, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printing.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]*printing.PrintJob, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printing.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) FindAll(ctx context.Context, filter printing.JobFilter) ([]*printing.PrintJob, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printing.PrintJob), args.Error(1)
}

func (m *MockPrintJobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockPrintJobRepository) SaveBatch(ctx context.Context, jobs []*printing.PrintJob) error {
	args := m.Called(ctx, jobs)
	return args.Error(0)
}

func (m *MockPrintJobRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPrinterRepository struct {
	mock.Mock
}

func (m *MockPrinterRepository) FindByID(ctx context.Context, id string) (*printing.Printer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.Printer), args.Error(1)
}

func (m *MockPrinterRepository) FindAll(ctx context.Context) ([]*printing.Printer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printing.Printer), args.Error(1)
}

func (m *MockPrinterRepository) Save(ctx context.Context, p *printing.Printer) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockPageCountRepository struct {
	mock.Mock
}

func (m *MockPageCountRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.PageCountRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.PageCountRequest), args.Error(1)
}

func (m *MockPageCountRepository) FindPending(ctx context.Context, limit int) ([]*printing.PageCountRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*printing.PageCountRequest), args.Error(1)
}

func (m *MockPageCountRepository) Save(ctx context.Context, req *printing.PageCountRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// =============================================================================
// Fixtures
// =============================================================================

func newTestService() (*JobService, *MockPrintJobRepository, *MockPrinterRepository, *MockPageCountRepository) {
	jobs := new(MockPrintJobRepository)
	printers := new(MockPrinterRepository)
	counts := new(MockPageCountRepository)
	return NewJobService(jobs, printers, counts, nil), jobs, printers, counts
}

func jobWithStatus(status printing.JobStatus) *printing.PrintJob {
	return &printing.PrintJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           "order-1",
		PrinterID:         "p1",
		PrinterName:       "Front Desk",
		Cost:              decimal.NewFromInt(4),
		Status:            status,
		PaymentID:         "pay_1",
	}
}

// =============================================================================
// Jobs
// =============================================================================

func TestJobService_GetJob(t *testing.T) {
	svc, jobs, _, _ := newTestService()
	job := jobWithStatus(printing.JobStatusPending)
	missing := uuid.New()
	jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
	jobs.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	resp, err := svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "order-1", resp.OrderID)
	assert.Equal(t, "pending", resp.Status)

	_, err = svc.GetJob(context.Background(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestJobService_ListForPrinter(t *testing.T) {
	svc, jobs, _, _ := newTestService()
	ctx := context.Background()

	jobs.On("FindAll", mock.Anything, printing.JobFilter{
		PrinterID: "p1",
		Statuses:  []printing.JobStatus{printing.JobStatusReady},
		Limit:     DefaultListLimit,
	}).Return([]*printing.PrintJob{jobWithStatus(printing.JobStatusReady)}, nil)

	list, err := svc.ListForPrinter(ctx, "p1", []string{"ready"}, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListForPrinter(ctx, "p1", []string{"lost"}, 10)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestJobService_ListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("groups jobs by order", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		first := jobWithStatus(printing.JobStatusReady)
		second := jobWithStatus(printing.JobStatusCompleted)
		second.EditRequested = true
		other := jobWithStatus(printing.JobStatusPending)
		other.OrderID = "order-2"

		jobs.On("FindAll", mock.Anything, printing.JobFilter{
			Search:      "order-1",
			NewestFirst: true,
			Limit:       DefaultListLimit,
		}).Return([]*printing.PrintJob{first, other, second}, nil)

		orders, err := svc.ListOrders(ctx, ListOrdersQuery{Search: " order-1 "})
		require.NoError(t, err)
		require.Len(t, orders, 2)

		assert.Equal(t, "order-1", orders[0].OrderID)
		assert.True(t, orders[0].Total.Equal(decimal.NewFromInt(8)))
		assert.Equal(t, []string{"ready", "completed"}, orders[0].Statuses)
		assert.True(t, orders[0].EditRequested)
		assert.Len(t, orders[0].Jobs, 2)

		assert.Equal(t, "order-2", orders[1].OrderID)
		assert.False(t, orders[1].EditRequested)
		assert.False(t, orders[1].TestPage)
	})

	t.Run("edit queue with status", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		jobs.On("FindAll", mock.Anything, printing.JobFilter{
			Statuses:      []printing.JobStatus{printing.JobStatusReady},
			EditRequested: true,
			NewestFirst:   true,
			Limit:         250,
		}).Return([]*printing.PrintJob{}, nil)

		orders, err := svc.ListOrders(ctx, ListOrdersQuery{Status: "ready", Edit: true, Limit: 250})
		require.NoError(t, err)
		assert.Empty(t, orders)
		jobs.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()

		_, err := svc.ListOrders(ctx, ListOrdersQuery{Status: "lost"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		jobs.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		jobs.On("FindAll", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := svc.ListOrders(ctx, ListOrdersQuery{})
		assert.Error(t, err)
	})
}

func TestJobService_DeleteAll(t *testing.T) {
	svc, jobs, _, _ := newTestService()
	jobs.On("DeleteAll", mock.Anything).Return(int64(5), nil).Once()
	jobs.On("DeleteAll", mock.Anything).Return(int64(0), errors.New("db down")).Once()

	resp, err := svc.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Deleted)

	_, err = svc.DeleteAll(context.Background())
	assert.Error(t, err)
}

func TestJobService_TestPage(t *testing.T) {
	ctx := context.Background()

	t.Run("queues a free ready job", func(t *testing.T) {
		svc, jobs, printers, _ := newTestService()
		caps, err := printing.NewCapabilitySet(printing.CapabilityColor, printing.CapabilityA4)
		require.NoError(t, err)
		printer, err := printing.NewPrinter("p1", "Front Desk", caps)
		require.NoError(t, err)

		printers.On("FindByID", mock.Anything, "p1").Return(printer, nil)
		jobs.On("Save", mock.Anything, mock.MatchedBy(func(job *printing.PrintJob) bool {
			return job.IsTestPage() && job.PrinterID == "p1" && job.Cost.IsZero() &&
				job.Status == printing.JobStatusReady
		})).Return(nil)

		resp, err := svc.TestPage(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "ready", resp.Status)
		assert.True(t, resp.Cost.IsZero())
		require.Len(t, resp.Files, 1)
		assert.Equal(t, printing.PrintTypeColor, resp.Files[0].PrintType)
		jobs.AssertExpectations(t)
	})

	t.Run("unknown printer", func(t *testing.T) {
		svc, jobs, printers, _ := newTestService()
		printers.On("FindByID", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.TestPage(ctx, "ghost")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestJobService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("valid transition is saved", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		job := jobWithStatus(printing.JobStatusReady)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		jobs.On("Save", mock.Anything, job).Return(nil)

		resp, err := svc.UpdateStatus(ctx, job.ID, UpdateStatusRequest{Status: "printing"})
		require.NoError(t, err)
		assert.Equal(t, "printing", resp.Status)
		assert.Equal(t, 2, resp.Version)
		jobs.AssertExpectations(t)
	})

	t.Run("error keeps the message", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		job := jobWithStatus(printing.JobStatusPrinting)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		jobs.On("Save", mock.Anything, job).Return(nil)

		resp, err := svc.UpdateStatus(ctx, job.ID, UpdateStatusRequest{Status: "error", Message: "paper jam"})
		require.NoError(t, err)
		assert.Equal(t, "paper jam", resp.ErrorMessage)
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		job := jobWithStatus(printing.JobStatusCompleted)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)

		_, err := svc.UpdateStatus(ctx, job.ID, UpdateStatusRequest{Status: "printing"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save failure is wrapped", func(t *testing.T) {
		svc, jobs, _, _ := newTestService()
		job := jobWithStatus(printing.JobStatusReady)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		jobs.On("Save", mock.Anything, job).Return(errors.New("db down"))

		_, err := svc.UpdateStatus(ctx, job.ID, UpdateStatusRequest{Status: "printing"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save job")
	})
}

func TestJobService_Reprint(t *testing.T) {
	ctx := context.Background()

	t.Run("completed job is queued for reprint on the new printer", func(t *testing.T) {
		svc, jobs, printers, _ := newTestService()
		job := jobWithStatus(printing.JobStatusCompleted)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		jobs.On("Save", mock.Anything, job).Return(nil)
		printers.On("FindByID", mock.Anything, "p2").Return(&printing.Printer{ID: "p2", Name: "Back Office"}, nil)

		resp, err := svc.Reprint(ctx, job.ID, ReprintRequest{PrinterID: "p2"})
		require.NoError(t, err)
		assert.Equal(t, "reprint", resp.Status)
		assert.Equal(t, "p2", resp.PrinterID)
		assert.Equal(t, "Back Office", resp.PrinterName)
		assert.True(t, resp.IsReprint)
	})

	t.Run("unknown printer", func(t *testing.T) {
		svc, jobs, printers, _ := newTestService()
		job := jobWithStatus(printing.JobStatusCompleted)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		printers.On("FindByID", mock.Anything, "ghost").Return(nil, shared.ErrNotFound)

		_, err := svc.Reprint(ctx, job.ID, ReprintRequest{PrinterID: "ghost"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("active job cannot be reprinted", func(t *testing.T) {
		svc, jobs, printers, _ := newTestService()
		job := jobWithStatus(printing.JobStatusPrinting)
		jobs.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		printers.On("FindByID", mock.Anything, "p2").Return(&printing.Printer{ID: "p2", Name: "Back Office"}, nil)

		_, err := svc.Reprint(ctx, job.ID, ReprintRequest{PrinterID: "p2"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		jobs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// Page counts
// =============================================================================

func TestJobService_RequestPageCount(t *testing.T) {
	svc, _, _, counts := newTestService()
	counts.On("Save", mock.Anything, mock.AnythingOfType("*printing.PageCountRequest")).Return(nil)

	resp, err := svc.RequestPageCount(context.Background(), PageCountRequestInput{
		DocumentRef: "uploads/thesis.pdf",
		FileName:    "thesis.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-count-request", resp.Status)
	assert.Nil(t, resp.PageCount)

	_, err = svc.RequestPageCount(context.Background(), PageCountRequestInput{})
	assert.Error(t, err)
	counts.AssertNumberOfCalls(t, "Save", 1)
}

func TestJobService_ReportPageCount(t *testing.T) {
	ctx := context.Background()
	pages := 14

	t.Run("counted", func(t *testing.T) {
		svc, _, _, counts := newTestService()
		req, err := printing.NewPageCountRequest("uploads/a.pdf", "a.pdf")
		require.NoError(t, err)
		counts.On("FindByID", mock.Anything, req.ID).Return(req, nil)
		counts.On("Save", mock.Anything, req).Return(nil)

		resp, err := svc.ReportPageCount(ctx, req.ID, PageCountReport{PageCount: &pages})
		require.NoError(t, err)
		assert.Equal(t, "page-count-completed", resp.Status)
		require.NotNil(t, resp.PageCount)
		assert.Equal(t, 14, *resp.PageCount)
	})

	t.Run("worker error", func(t *testing.T) {
		svc, _, _, counts := newTestService()
		req, err := printing.NewPageCountRequest("uploads/b.pdf", "b.pdf")
		require.NoError(t, err)
		counts.On("FindByID", mock.Anything, req.ID).Return(req, nil)
		counts.On("Save", mock.Anything, req).Return(nil)

		resp, err := svc.ReportPageCount(ctx, req.ID, PageCountReport{Error: "encrypted pdf"})
		require.NoError(t, err)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "encrypted pdf", resp.ErrorMessage)
	})

	t.Run("empty report", func(t *testing.T) {
		svc, _, _, counts := newTestService()
		_, err := svc.ReportPageCount(ctx, uuid.New(), PageCountReport{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REPORT", domainErr.Code)
		counts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("second report is rejected", func(t *testing.T) {
		svc, _, _, counts := newTestService()
		req, err := printing.NewPageCountRequest("uploads/c.pdf", "c.pdf")
		require.NoError(t, err)
		require.NoError(t, req.Complete(3))
		counts.On("FindByID", mock.Anything, req.ID).Return(req, nil)

		_, err = svc.ReportPageCount(ctx, req.ID, PageCountReport{PageCount: &pages})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestJobService_PendingPageCounts(t *testing.T) {
	svc, _, _, counts := newTestService()
	req, err := printing.NewPageCountRequest("uploads/a.pdf", "a.pdf")
	require.NoError(t, err)
	counts.On("FindPending", mock.Anything, DefaultListLimit).Return([]*printing.PageCountRequest{req}, nil)

	list, err := svc.PendingPageCounts(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
}
