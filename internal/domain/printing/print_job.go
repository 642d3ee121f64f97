package printing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PrintJob is the persisted form of one AllocatedJob.
// An order produces one PrintJob per cluster, not one per file.
// EditRequested jobs also appear in the admin edit queue.
type PrintJob struct {
	shared.BaseAggregateRoot
	OrderID       string
	PrinterID     string
	PrinterName   string
	Files         []FileSnapshot
	Binding       BindingMode
	Cost          decimal.Decimal
	Status        JobStatus
	PaymentID     string
	PhoneNumber   string
	IsReprint     bool
	EditRequested bool
	ErrorMessage  string
	CompletedAt   *time.Time
}

// NewPrintJobFromAllocation builds a job waiting for its files to be released
// to the printer. Jobs created after a verified payment start as pending.
func NewPrintJobFromAllocation(orderID string, job AllocatedJob, paymentID, phone string) (*PrintJob, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if job.PrinterID == "" {
		return nil, shared.NewDomainError("INVALID_PRINTER", "Job has no assigned printer")
	}
	if len(job.Files) == 0 {
		return nil, shared.NewDomainError("INVALID_JOB", "Job has no files")
	}
	files := make([]FileSnapshot, len(job.Files))
	for i, f := range job.Files {
		files[i] = f.Snapshot()
	}
	status := JobStatusPendingPayment
	if paymentID != "" {
		status = JobStatusPending
	}
	return &PrintJob{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		PrinterID:         job.PrinterID,
		PrinterName:       job.PrinterName,
		Files:             files,
		Binding:           job.Binding,
		Cost:              job.Cost,
		Status:            status,
		PaymentID:         paymentID,
		PhoneNumber:       phone,
		EditRequested:     job.EditRequested,
	}, nil
}

// TestPageOrderPrefix starts the order id of every printer test page
const TestPageOrderPrefix = "test-page-"

// NewTestPageJob builds a free one-page job for checking a printer. It is
// ready at once and prints on A4 when the printer has it, in B/W when it can.
func NewTestPageJob(printer *Printer) (*PrintJob, error) {
	if printer == nil || strings.TrimSpace(printer.ID) == "" {
		return nil, shared.NewDomainError("INVALID_PRINTER", "Printer ID cannot be empty")
	}
	printType := PrintTypeBW
	if !printer.Capabilities.Has(CapabilityBW) && printer.Capabilities.Has(CapabilityColor) {
		printType = PrintTypeColor
	}
	paperSize := PaperSizeA4
	if !printer.Capabilities.Has(CapabilityA4) {
		for _, size := range AllPaperSizes() {
			if printer.Capabilities.Has(size.Capability()) {
				paperSize = size
				break
			}
		}
	}

	pages := 1
	root := shared.NewBaseAggregateRoot()
	return &PrintJob{
		BaseAggregateRoot: root,
		OrderID:           TestPageOrderPrefix + root.ID.String()[:8],
		PrinterID:         printer.ID,
		PrinterName:       printer.Name,
		Files: []FileSnapshot{{
			ID:          "test-page",
			Name:        "Test page",
			Kind:        FileKindDocument,
			PageCount:   &pages,
			Copies:      1,
			PrintType:   printType,
			PaperSize:   paperSize,
			Orientation: OrientationPortrait,
			Duplex:      DuplexOneSided,
		}},
		Binding: BindingNone,
		Cost:    decimal.Zero,
		Status:  JobStatusReady,
	}, nil
}

// IsTestPage reports whether the job was created by NewTestPageJob
func (j *PrintJob) IsTestPage() bool {
	return strings.HasPrefix(j.OrderID, TestPageOrderPrefix)
}

// MarkPaid records the captured payment
func (j *PrintJob) MarkPaid(paymentID string) error {
	if paymentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if err := j.transition(JobStatusPending); err != nil {
		return err
	}
	j.PaymentID = paymentID
	return nil
}

// UpdateStatus applies a status reported by the printer agent
func (j *PrintJob) UpdateStatus(status JobStatus, message string) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid job status: "+string(status))
	}
	if status == JobStatusCompleted && j.IsReprint {
		status = JobStatusReprintCompleted
	}
	if err := j.transition(status); err != nil {
		return err
	}
	switch status {
	case JobStatusError:
		j.ErrorMessage = message
	case JobStatusCompleted, JobStatusReprintCompleted:
		now := time.Now()
		j.CompletedAt = &now
	}
	return nil
}

// Reprint queues a finished or failed job on another printer. The job waits
// in reprint until that printer's agent picks it up.
func (j *PrintJob) Reprint(printerID, printerName string) error {
	if strings.TrimSpace(printerID) == "" {
		return shared.NewDomainError("INVALID_PRINTER", "Printer ID cannot be empty")
	}
	if !j.Status.IsTerminal() || j.Status == JobStatusPageCountCompleted {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot reprint a job in status: "+j.Status.String())
	}
	j.PrinterID = printerID
	j.PrinterName = printerName
	j.IsReprint = true
	j.Status = JobStatusReprint
	j.ErrorMessage = ""
	j.CompletedAt = nil
	j.Touch()
	return nil
}

// IsTerminal returns true if the job is in a terminal state
func (j *PrintJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

func (j *PrintJob) transition(target JobStatus) error {
	if !j.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot move job from "+j.Status.String()+" to "+target.String())
	}
	j.Status = target
	j.Touch()
	return nil
}

// PageCountRequest asks the counting worker for the page count of an
// uploaded document
type PageCountRequest struct {
	ID           uuid.UUID
	DocumentRef  string
	FileName     string
	Status       JobStatus
	PageCount    *int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPageCountRequest creates a pending request
func NewPageCountRequest(documentRef, fileName string) (*PageCountRequest, error) {
	if strings.TrimSpace(documentRef) == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document reference cannot be empty")
	}
	now := time.Now()
	return &PageCountRequest{
		ID:          uuid.New(),
		DocumentRef: documentRef,
		FileName:    fileName,
		Status:      JobStatusPageCountRequest,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Complete records the counted pages
func (r *PageCountRequest) Complete(pages int) error {
	if r.Status != JobStatusPageCountRequest {
		return shared.NewDomainError("INVALID_STATE", "Page count already reported")
	}
	if pages < 0 || pages > MaxPageCount {
		return shared.NewDomainError("INVALID_PAGE_COUNT",
			fmt.Sprintf("Page count must be between 0 and %d", MaxPageCount))
	}
	r.PageCount = &pages
	r.Status = JobStatusPageCountCompleted
	r.UpdatedAt = time.Now()
	return nil
}

// Fail records that the worker could not count the document
func (r *PageCountRequest) Fail(reason string) error {
	if r.Status != JobStatusPageCountRequest {
		return shared.NewDomainError("INVALID_STATE", "Page count already reported")
	}
	r.Status = JobStatusError
	r.ErrorMessage = reason
	r.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true while the worker has not answered
func (r *PageCountRequest) IsPending() bool {
	return r.Status == JobStatusPageCountRequest
}
