package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printease/backend/internal/application/fleet"
	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/application/pricing"
	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/interfaces/http/dto"
	"github.com/printease/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockOrderService implements OrderService for testing
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Quote(ctx context.Context, req ordering.QuoteRequest) (*ordering.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.QuoteResponse), args.Error(1)
}

func (m *MockOrderService) Checkout(ctx context.Context, req ordering.QuoteRequest) (*ordering.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.CheckoutResponse), args.Error(1)
}

func (m *MockOrderService) Commit(ctx context.Context, req ordering.CommitRequest) (*ordering.CommitResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.CommitResponse), args.Error(1)
}

func (m *MockOrderService) Jobs(ctx context.Context, orderID string) ([]printjob.JobResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printjob.JobResponse), args.Error(1)
}

// MockReceiptService implements ReceiptService for testing
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Receipt(ctx context.Context, orderID string) (*ordering.ReceiptResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.ReceiptResult), args.Error(1)
}

// MockJobService implements JobService for testing
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) GetJob(ctx context.Context, id uuid.UUID) (*printjob.JobResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.JobResponse), args.Error(1)
}

func (m *MockJobService) ListForPrinter(ctx context.Context, printerID string, statuses []string, limit int) ([]printjob.JobResponse, error) {
	args := m.Called(ctx, printerID, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printjob.JobResponse), args.Error(1)
}

func (m *MockJobService) ListOrders(ctx context.Context, query printjob.ListOrdersQuery) ([]printjob.OrderSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printjob.OrderSummary), args.Error(1)
}

func (m *MockJobService) DeleteAll(ctx context.Context) (*printjob.DeleteJobsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.DeleteJobsResponse), args.Error(1)
}

func (m *MockJobService) TestPage(ctx context.Context, printerID string) (*printjob.JobResponse, error) {
	args := m.Called(ctx, printerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.JobResponse), args.Error(1)
}

func (m *MockJobService) UpdateStatus(ctx context.Context, id uuid.UUID, req printjob.UpdateStatusRequest) (*printjob.JobResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.JobResponse), args.Error(1)
}

func (m *MockJobService) Reprint(ctx context.Context, id uuid.UUID, req printjob.ReprintRequest) (*printjob.JobResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.JobResponse), args.Error(1)
}

func (m *MockJobService) RequestPageCount(ctx context.Context, input printjob.PageCountRequestInput) (*printjob.PageCountResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.PageCountResponse), args.Error(1)
}

func (m *MockJobService) GetPageCount(ctx context.Context, id uuid.UUID) (*printjob.PageCountResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.PageCountResponse), args.Error(1)
}

func (m *MockJobService) PendingPageCounts(ctx context.Context, limit int) ([]printjob.PageCountResponse, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printjob.PageCountResponse), args.Error(1)
}

func (m *MockJobService) ReportPageCount(ctx context.Context, id uuid.UUID, report printjob.PageCountReport) (*printjob.PageCountResponse, error) {
	args := m.Called(ctx, id, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printjob.PageCountResponse), args.Error(1)
}

// MockPrinterService implements PrinterService for testing
type MockPrinterService struct {
	mock.Mock
}

func (m *MockPrinterService) Heartbeat(ctx context.Context, id string, req fleet.HeartbeatRequest) (*fleet.PrinterResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.PrinterResponse), args.Error(1)
}

func (m *MockPrinterService) UpdateCapabilities(ctx context.Context, id string, req fleet.UpdateCapabilitiesRequest) (*fleet.PrinterResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.PrinterResponse), args.Error(1)
}

func (m *MockPrinterService) List(ctx context.Context, onlineOnly bool) ([]fleet.PrinterResponse, error) {
	args := m.Called(ctx, onlineOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fleet.PrinterResponse), args.Error(1)
}

// MockSettingsService implements SettingsService for testing
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetPricing(ctx context.Context) (printing.PricingSchedule, error) {
	args := m.Called(ctx)
	return args.Get(0).(printing.PricingSchedule), args.Error(1)
}

func (m *MockSettingsService) UpdatePricing(ctx context.Context, schedule printing.PricingSchedule) (printing.PricingSchedule, error) {
	args := m.Called(ctx, schedule)
	return args.Get(0).(printing.PricingSchedule), args.Error(1)
}

func (m *MockSettingsService) GetPaperSizes(ctx context.Context) (printing.PaperSizeAvailability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(printing.PaperSizeAvailability), args.Error(1)
}

func (m *MockSettingsService) UpdatePaperSizes(ctx context.Context, req pricing.UpdatePaperSizesRequest) (printing.PaperSizeAvailability, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(printing.PaperSizeAvailability), args.Error(1)
}

// performRequest sends a JSON request through a router with the request-id middleware
func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "req-test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}

// decodeResponse decodes the envelope and re-decodes data into out when given
func decodeResponse(w *httptest.ResponseRecorder, out any) (dto.Response, error) {
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *dto.ErrorInfo  `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		return dto.Response{}, err
	}
	if out != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, out); err != nil {
			return dto.Response{}, err
		}
	}
	return dto.Response{Success: raw.Success, Error: raw.Error}, nil
}
