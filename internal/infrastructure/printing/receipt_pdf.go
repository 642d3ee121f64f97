package printing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// ReceiptPDFConfig controls the receipt layout
type ReceiptPDFConfig struct {
	ShopName string
	Currency string
	// Location renders timestamps; nil means UTC
	Location *time.Location
	// Compress deflates page streams. Tests switch it off to inspect text.
	Compress bool
}

// ReceiptPDFRenderer renders receipts on a single A4 page per order,
// spilling onto further pages for long orders
type ReceiptPDFRenderer struct {
	config ReceiptPDFConfig
}

// NewReceiptPDFRenderer creates a renderer with defaults for empty fields
func NewReceiptPDFRenderer(cfg ReceiptPDFConfig) *ReceiptPDFRenderer {
	if cfg.ShopName == "" {
		cfg.ShopName = "PrintEase"
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReceiptPDFRenderer{config: cfg}
}

// ContentType implements printing.ReceiptRenderer
func (r *ReceiptPDFRenderer) ContentType() string {
	return "application/pdf"
}

// column widths in mm; A4 minus 15mm margins leaves 180
var receiptColumns = []struct {
	title string
	width float64
	align string
}{
	{"File", 70, "L"},
	{"Paper", 18, "C"},
	{"Type", 18, "C"},
	{"Pages", 20, "R"},
	{"Copies", 20, "R"},
	{"Cost", 34, "R"},
}

// Render implements printing.ReceiptRenderer
func (r *ReceiptPDFRenderer) Render(ctx context.Context, receipt *printing.Receipt) ([]byte, error) {
	if receipt == nil || len(receipt.Jobs) == 0 {
		return nil, NewRenderError(ErrCodeEmptyReceipt, "receipt has no jobs", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderCancelled, "receipt rendering cancelled", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.config.Compress)
	pdf.SetCreationDate(receipt.IssuedAt)
	pdf.SetTitle(fmt.Sprintf("%s receipt %s", r.config.ShopName, receipt.OrderID), false)
	pdf.SetAuthor(r.config.ShopName, false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, r.config.ShopName+" Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		"Order       : " + receipt.OrderID,
		"Payment     : " + safe(receipt.PaymentID),
		"Phone       : " + safe(receipt.PhoneNumber),
		"Issued      : " + receipt.IssuedAt.In(r.config.Location).Format("2006-01-02 15:04"),
	}
	for _, line := range header {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	for i, job := range receipt.Jobs {
		r.writeJob(pdf, i+1, job)
		if err := ctx.Err(); err != nil {
			return nil, NewRenderError(ErrCodeRenderCancelled, "receipt rendering cancelled", err)
		}
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(146, 9, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(34, 9, r.money(receipt.Total), "T", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Collect your prints at the printer named on each job. Keep this receipt for reprints.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write receipt PDF", err)
	}
	return buf.Bytes(), nil
}

func (r *ReceiptPDFRenderer) writeJob(pdf *gofpdf.Fpdf, n int, job *printing.PrintJob) {
	pdf.SetFont("Helvetica", "B", 12)
	title := fmt.Sprintf("Job %d - %s", n, safe(job.PrinterName))
	if job.IsReprint {
		title += " (reprint)"
	}
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, col := range receiptColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, f := range job.Files {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		cells := []string{
			truncate(name, 38),
			string(f.PaperSize),
			strings.ToUpper(string(f.PrintType)),
			pagesLabel(f),
			fmt.Sprintf("%d", f.Copies),
			r.money(fileCost(f)),
		}
		for i, col := range receiptColumns {
			pdf.CellFormat(col.width, 7, cells[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if job.Binding.IsBound() {
		pdf.CellFormat(146, 7, "Binding: "+string(job.Binding), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(146, 7, "Job total", "", 0, "R", false, 0, "")
	pdf.CellFormat(34, 7, r.money(job.Cost), "", 1, "R", false, 0, "")
	pdf.Ln(3)
}

func (r *ReceiptPDFRenderer) money(d decimal.Decimal) string {
	return r.config.Currency + " " + d.StringFixed(2)
}

func fileCost(f printing.FileSnapshot) decimal.Decimal {
	if f.Cost == nil {
		return decimal.Zero
	}
	return *f.Cost
}

func pagesLabel(f printing.FileSnapshot) string {
	if f.PageRange != "" {
		return truncate(f.PageRange, 10)
	}
	if f.PageCount != nil {
		return fmt.Sprintf("%d", *f.PageCount)
	}
	return "-"
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

var _ printing.ReceiptRenderer = (*ReceiptPDFRenderer)(nil)
