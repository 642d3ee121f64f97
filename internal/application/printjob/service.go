package printjob

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultListLimit caps job and page-count listings when no limit is given
const DefaultListLimit = 100

// JobService drives print jobs after they were committed: status reports
// from printer agents, reprints, and page-count requests
type JobService struct {
	jobRepo       printing.PrintJobRepository
	printerRepo   printing.PrinterRepository
	pageCountRepo printing.PageCountRepository
	logger        *zap.Logger
}

// NewJobService creates a new job service
func NewJobService(
	jobRepo printing.PrintJobRepository,
	printerRepo printing.PrinterRepository,
	pageCountRepo printing.PageCountRepository,
	logger *zap.Logger,
) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobRepo:       jobRepo,
		printerRepo:   printerRepo,
		pageCountRepo: pageCountRepo,
		logger:        logger,
	}
}

// GetJob returns one job
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToJobResponse(job)
	return &resp, nil
}

// ListForPrinter lists the jobs assigned to a printer, optionally by status
func (s *JobService) ListForPrinter(ctx context.Context, printerID string, statuses []string, limit int) ([]JobResponse, error) {
	filter := printing.JobFilter{PrinterID: printerID, Limit: limit}
	if filter.Limit <= 0 || filter.Limit > DefaultListLimit {
		filter.Limit = DefaultListLimit
	}
	for _, raw := range statuses {
		status := printing.JobStatus(raw)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid job status: "+raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	jobs, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return ToJobResponses(jobs), nil
}

// ListOrders lists recent jobs newest first, grouped by order. Limit
// bounds the number of jobs read, so the oldest order in the page may be
// partial.
func (s *JobService) ListOrders(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	filter := printing.JobFilter{
		Search:        strings.TrimSpace(query.Search),
		EditRequested: query.Edit,
		NewestFirst:   true,
		Limit:         query.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if query.Status != "" {
		status := printing.JobStatus(query.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid job status: "+query.Status)
		}
		filter.Statuses = []printing.JobStatus{status}
	}

	jobs, err := s.jobRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return GroupByOrder(jobs), nil
}

// DeleteAll removes every print job
func (s *JobService) DeleteAll(ctx context.Context) (*DeleteJobsResponse, error) {
	n, err := s.jobRepo.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete jobs: %w", err)
	}
	s.logger.Warn("All print jobs deleted", zap.Int64("deleted", n))
	return &DeleteJobsResponse{Deleted: n}, nil
}

// TestPage queues a free test page on a printer
func (s *JobService) TestPage(ctx context.Context, printerID string) (*JobResponse, error) {
	printer, err := s.printerRepo.FindByID(ctx, printerID)
	if err != nil {
		return nil, err
	}
	job, err := printing.NewTestPageJob(printer)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save test page: %w", err)
	}

	s.logger.Info("Test page queued",
		zap.String("job_id", job.ID.String()),
		zap.String("printer_id", printer.ID),
	)
	resp := ToJobResponse(job)
	return &resp, nil
}

// UpdateStatus applies a status reported by the printer agent
func (s *JobService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := job.Status
	if err := job.UpdateStatus(printing.JobStatus(req.Status), req.Message); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logger.Info("Job status updated",
		zap.String("job_id", job.ID.String()),
		zap.String("printer_id", job.PrinterID),
		zap.String("from", from.String()),
		zap.String("to", job.Status.String()),
	)
	resp := ToJobResponse(job)
	return &resp, nil
}

// Reprint sends a completed or failed job to the given printer
func (s *JobService) Reprint(ctx context.Context, id uuid.UUID, req ReprintRequest) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	printer, err := s.printerRepo.FindByID(ctx, req.PrinterID)
	if err != nil {
		return nil, err
	}
	if err := job.Reprint(printer.ID, printer.Name); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logger.Info("Job sent for reprint",
		zap.String("job_id", job.ID.String()),
		zap.String("printer_id", printer.ID),
	)
	resp := ToJobResponse(job)
	return &resp, nil
}

// RequestPageCount queues a document for the page counting worker
func (s *JobService) RequestPageCount(ctx context.Context, input PageCountRequestInput) (*PageCountResponse, error) {
	req, err := printing.NewPageCountRequest(input.DocumentRef, input.FileName)
	if err != nil {
		return nil, err
	}
	if err := s.pageCountRepo.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save page count request: %w", err)
	}
	s.logger.Debug("Page count requested", zap.String("request_id", req.ID.String()))
	resp := ToPageCountResponse(req)
	return &resp, nil
}

// GetPageCount returns a page-count request so clients can poll it
func (s *JobService) GetPageCount(ctx context.Context, id uuid.UUID) (*PageCountResponse, error) {
	req, err := s.pageCountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPageCountResponse(req)
	return &resp, nil
}

// PendingPageCounts lists requests the worker has not answered, oldest first
func (s *JobService) PendingPageCounts(ctx context.Context, limit int) ([]PageCountResponse, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	reqs, err := s.pageCountRepo.FindPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list page count requests: %w", err)
	}
	out := make([]PageCountResponse, len(reqs))
	for i, r := range reqs {
		out[i] = ToPageCountResponse(r)
	}
	return out, nil
}

// ReportPageCount records the worker's answer
func (s *JobService) ReportPageCount(ctx context.Context, id uuid.UUID, report PageCountReport) (*PageCountResponse, error) {
	if report.PageCount == nil && report.Error == "" {
		return nil, shared.NewDomainError("INVALID_REPORT", "Either page_count or error is required")
	}
	req, err := s.pageCountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Error != "" {
		err = req.Fail(report.Error)
	} else {
		err = req.Complete(*report.PageCount)
	}
	if err != nil {
		return nil, err
	}
	if err := s.pageCountRepo.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save page count request: %w", err)
	}
	resp := ToPageCountResponse(req)
	return &resp, nil
}
