package models

import (
	"strings"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// PrintJobModel is the GORM model for print_jobs table
type PrintJobModel struct {
	AggregateModel
	OrderID       string                  `gorm:"column:order_id;type:varchar(64);not null;index"`
	PrinterID     string                  `gorm:"column:printer_id;type:varchar(100);not null;index"`
	PrinterName   string                  `gorm:"column:printer_name;type:varchar(100);not null"`
	Files         []printing.FileSnapshot `gorm:"type:jsonb;serializer:json;not null"`
	Binding       string                  `gorm:"type:varchar(20);not null;default:'none'"`
	Cost          decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	Status        string                  `gorm:"type:varchar(30);not null;index"`
	PaymentID     string                  `gorm:"column:payment_id;type:varchar(100);index"`
	PhoneNumber   string                  `gorm:"column:phone_number;type:varchar(20)"`
	IsReprint     bool                    `gorm:"column:is_reprint;not null;default:false"`
	EditRequested bool                    `gorm:"column:edit_requested;not null;default:false"`
	ErrorMessage  string                  `gorm:"column:error_message;type:text"`
	CompletedAt   *time.Time              `gorm:"column:completed_at"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts PrintJobModel to domain PrintJob
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	return &printing.PrintJob{
		BaseAggregateRoot: m.root(),
		OrderID:           m.OrderID,
		PrinterID:         m.PrinterID,
		PrinterName:       m.PrinterName,
		Files:             m.Files,
		Binding:           printing.BindingMode(m.Binding),
		Cost:              m.Cost,
		Status:            printing.JobStatus(m.Status),
		PaymentID:         m.PaymentID,
		PhoneNumber:       m.PhoneNumber,
		IsReprint:         m.IsReprint,
		EditRequested:     m.EditRequested,
		ErrorMessage:      m.ErrorMessage,
		CompletedAt:       m.CompletedAt,
	}
}

// PrintJobModelFromDomain creates a PrintJobModel from domain PrintJob
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	m := &PrintJobModel{
		OrderID:       j.OrderID,
		PrinterID:     j.PrinterID,
		PrinterName:   j.PrinterName,
		Files:         j.Files,
		Binding:       string(j.Binding),
		Cost:          j.Cost,
		Status:        string(j.Status),
		PaymentID:     j.PaymentID,
		PhoneNumber:   j.PhoneNumber,
		IsReprint:     j.IsReprint,
		EditRequested: j.EditRequested,
		ErrorMessage:  j.ErrorMessage,
		CompletedAt:   j.CompletedAt,
	}
	m.AggregateModel = aggregateModelFrom(j.BaseAggregateRoot)
	if m.Files == nil {
		m.Files = []printing.FileSnapshot{}
	}
	return m
}

// PrinterModel is the GORM model for printers table
type PrinterModel struct {
	ID                   string    `gorm:"type:varchar(100);primary_key"`
	Name                 string    `gorm:"type:varchar(100);not null"`
	Status               string    `gorm:"type:varchar(20);not null;default:'offline'"`
	Capabilities         string    `gorm:"type:varchar(255);not null;default:''"`
	QueueLength          int       `gorm:"column:queue_length;not null;default:0"`
	EstimatedWaitMinutes int       `gorm:"column:estimated_wait_minutes;not null;default:0"`
	LastSeen             time.Time `gorm:"column:last_seen;not null"`
	RegisteredAt         time.Time `gorm:"column:registered_at;not null;index"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for PrinterModel
func (PrinterModel) TableName() string {
	return "printers"
}

// ToDomain converts PrinterModel to domain Printer. Tokens that are no longer
// known are dropped so one bad row cannot take the printer out of the pool.
func (m *PrinterModel) ToDomain() *printing.Printer {
	var tokens []printing.Capability
	for _, raw := range strings.Split(m.Capabilities, ",") {
		c := printing.Capability(strings.TrimSpace(raw))
		if c.IsValid() {
			tokens = append(tokens, c)
		}
	}
	return &printing.Printer{
		ID:                   m.ID,
		Name:                 m.Name,
		Status:               printing.PrinterStatus(m.Status),
		Capabilities:         printing.MustCapabilitySet(tokens...),
		QueueLength:          m.QueueLength,
		EstimatedWaitMinutes: m.EstimatedWaitMinutes,
		LastSeen:             m.LastSeen,
		RegisteredAt:         m.RegisteredAt,
	}
}

// PrinterModelFromDomain creates a PrinterModel from domain Printer
func PrinterModelFromDomain(p *printing.Printer) *PrinterModel {
	return &PrinterModel{
		ID:                   p.ID,
		Name:                 p.Name,
		Status:               string(p.Status),
		Capabilities:         strings.Join(p.Capabilities.Strings(), ","),
		QueueLength:          p.QueueLength,
		EstimatedWaitMinutes: p.EstimatedWaitMinutes,
		LastSeen:             p.LastSeen,
		RegisteredAt:         p.RegisteredAt,
		UpdatedAt:            time.Now(),
	}
}

// PageCountRequestModel is the GORM model for page_count_requests table
type PageCountRequestModel struct {
	BaseModel
	DocumentRef  string `gorm:"column:document_ref;type:varchar(1024);not null"`
	FileName     string `gorm:"column:file_name;type:varchar(255)"`
	Status       string `gorm:"type:varchar(30);not null;index"`
	PageCount    *int   `gorm:"column:page_count"`
	ErrorMessage string `gorm:"column:error_message;type:text"`
}

// TableName returns the table name for PageCountRequestModel
func (PageCountRequestModel) TableName() string {
	return "page_count_requests"
}

// ToDomain converts PageCountRequestModel to domain PageCountRequest
func (m *PageCountRequestModel) ToDomain() *printing.PageCountRequest {
	return &printing.PageCountRequest{
		ID:           m.ID,
		DocumentRef:  m.DocumentRef,
		FileName:     m.FileName,
		Status:       printing.JobStatus(m.Status),
		PageCount:    m.PageCount,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// PageCountRequestModelFromDomain creates a PageCountRequestModel from the domain request
func PageCountRequestModelFromDomain(r *printing.PageCountRequest) *PageCountRequestModel {
	return &PageCountRequestModel{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		DocumentRef:  r.DocumentRef,
		FileName:     r.FileName,
		Status:       string(r.Status),
		PageCount:    r.PageCount,
		ErrorMessage: r.ErrorMessage,
	}
}
