package printing

import (
	"fmt"
	"strings"

	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxCopies is the largest number of copies accepted for one file
const MaxCopies = 100

// MaxPageCount is the largest document page count accepted
const MaxPageCount = MaxUnboundedPage

// ImageLayout describes how photos are arranged on sheets
type ImageLayout struct {
	Kind    LayoutKind `json:"kind"`
	FitMode FitMode    `json:"fit_mode"`
}

// PhotosPerSheet returns the number of photos placed on a sheet
func (l ImageLayout) PhotosPerSheet() int {
	return l.Kind.PhotosPerSheet()
}

// FileSpecInput carries the raw attributes of an uploaded file
type FileSpecInput struct {
	ID          string
	Name        string
	Kind        FileKind
	PageCount   *int
	PageRange   string
	Copies      int
	PrintType   PrintType
	PaperSize   PaperSize
	Orientation Orientation
	Duplex      DuplexMode
	Layout      *ImageLayout
}

// FileSpec is one uploaded and fully configured file.
// It is immutable: the With* functions return updated copies.
type FileSpec struct {
	id          string
	name        string
	kind        FileKind
	pageCount   *int
	pageRange   string
	copies      int
	printType   PrintType
	paperSize   PaperSize
	orientation Orientation
	duplex      DuplexMode
	layout      *ImageLayout
	cost        *decimal.Decimal
}

// NewFileSpec validates the input and builds a FileSpec
func NewFileSpec(in FileSpecInput) (FileSpec, error) {
	if strings.TrimSpace(in.ID) == "" {
		return FileSpec{}, shared.NewDomainError("INVALID_FILE", "File ID cannot be empty")
	}
	if !in.Kind.IsValid() {
		return FileSpec{}, shared.NewDomainError("INVALID_FILE_KIND", "Invalid file kind: "+string(in.Kind))
	}
	if in.Orientation == "" {
		in.Orientation = OrientationPortrait
	}
	if in.Duplex == "" {
		in.Duplex = DuplexOneSided
	}

	f := FileSpec{
		id:          in.ID,
		name:        in.Name,
		kind:        in.Kind,
		pageRange:   strings.TrimSpace(in.PageRange),
		copies:      in.Copies,
		printType:   in.PrintType,
		paperSize:   in.PaperSize,
		orientation: in.Orientation,
		duplex:      in.Duplex,
	}
	if in.PageCount != nil {
		pc := *in.PageCount
		f.pageCount = &pc
	}
	if in.Layout != nil {
		l := *in.Layout
		f.layout = &l
	}
	if err := f.validate(); err != nil {
		return FileSpec{}, err
	}
	return f, nil
}

func (f FileSpec) validate() error {
	if f.copies < 1 {
		return shared.NewDomainError("INVALID_COPIES", "Number of copies must be at least 1")
	}
	if f.copies > MaxCopies {
		return shared.NewDomainError("INVALID_COPIES",
			fmt.Sprintf("Number of copies cannot exceed %d", MaxCopies))
	}
	if !f.printType.IsValid() {
		return shared.NewDomainError("INVALID_PRINT_TYPE", "Invalid print type: "+string(f.printType))
	}
	if !f.paperSize.IsValid() {
		return shared.NewDomainError("INVALID_PAPER_SIZE", "Invalid paper size: "+string(f.paperSize))
	}
	if !f.orientation.IsValid() {
		return shared.NewDomainError("INVALID_ORIENTATION", "Invalid orientation: "+string(f.orientation))
	}
	if !f.duplex.IsValid() {
		return shared.NewDomainError("INVALID_DUPLEX", "Invalid duplex mode: "+string(f.duplex))
	}
	if f.pageCount != nil && *f.pageCount < 0 {
		return shared.NewDomainError("INVALID_PAGE_COUNT", "Page count cannot be negative")
	}
	if f.pageCount != nil && *f.pageCount > MaxPageCount {
		return shared.NewDomainError("INVALID_PAGE_COUNT",
			fmt.Sprintf("Page count cannot exceed %d", MaxPageCount))
	}
	switch f.kind {
	case FileKindImage:
		if f.layout == nil {
			return shared.NewDomainError("INVALID_LAYOUT", "Image files require a layout")
		}
		if !f.layout.Kind.IsValid() {
			return shared.NewDomainError("INVALID_LAYOUT", "Invalid layout kind: "+string(f.layout.Kind))
		}
		if f.layout.FitMode != "" && !f.layout.FitMode.IsValid() {
			return shared.NewDomainError("INVALID_LAYOUT", "Invalid fit mode: "+string(f.layout.FitMode))
		}
		if f.pageRange != "" {
			return shared.NewDomainError("INVALID_PAGE_RANGE", "Page ranges apply to documents only")
		}
	case FileKindDocument:
		if f.layout != nil {
			return shared.NewDomainError("INVALID_LAYOUT", "Document files cannot have an image layout")
		}
	}
	return nil
}

// ID returns the stable file identifier
func (f FileSpec) ID() string { return f.id }

// Name returns the original file name
func (f FileSpec) Name() string { return f.name }

// Kind returns whether the file is a document or an image
func (f FileSpec) Kind() FileKind { return f.kind }

// IsDocument returns true for paged documents
func (f FileSpec) IsDocument() bool { return f.kind == FileKindDocument }

// IsImage returns true for images
func (f FileSpec) IsImage() bool { return f.kind == FileKindImage }

// PageCount returns the known page count, or nil while it is being counted
func (f FileSpec) PageCount() *int {
	if f.pageCount == nil {
		return nil
	}
	pc := *f.pageCount
	return &pc
}

// PageRange returns the page-range selection expression
func (f FileSpec) PageRange() string { return f.pageRange }

// Copies returns the number of copies
func (f FileSpec) Copies() int { return f.copies }

// PrintType returns the color mode
func (f FileSpec) PrintType() PrintType { return f.printType }

// PaperSize returns the paper size
func (f FileSpec) PaperSize() PaperSize { return f.paperSize }

// Orientation returns the page orientation
func (f FileSpec) Orientation() Orientation { return f.orientation }

// Duplex returns the duplex mode
func (f FileSpec) Duplex() DuplexMode { return f.duplex }

// Layout returns the image layout, or nil for documents
func (f FileSpec) Layout() *ImageLayout {
	if f.layout == nil {
		return nil
	}
	l := *f.layout
	return &l
}

// CategoryKey returns the rotation bucket of the file
func (f FileSpec) CategoryKey() CategoryKey {
	return CategoryKey{PrintType: f.printType, PaperSize: f.paperSize}
}

// PagesToPrint returns the number of selected pages. An empty selection
// falls back to the full page count; zero means the count is not known yet.
func (f FileSpec) PagesToPrint() int {
	if !f.IsDocument() {
		return 0
	}
	known := 0
	if f.pageCount != nil {
		known = *f.pageCount
	}
	if f.pageRange == "" {
		return known
	}
	if n := len(ParsePageRanges(f.pageRange, known)); n > 0 {
		return n
	}
	return known
}

// Cost returns the computed cost and whether it is current
func (f FileSpec) Cost() (decimal.Decimal, bool) {
	if f.cost == nil {
		return decimal.Zero, false
	}
	return *f.cost, true
}

// CostStale reports whether the cost must be recomputed
func (f FileSpec) CostStale() bool {
	return f.cost == nil
}

// WithCost returns a copy carrying a computed cost
func (f FileSpec) WithCost(cost decimal.Decimal) FileSpec {
	f.cost = &cost
	return f
}

// WithCopies returns a copy with a new number of copies
func (f FileSpec) WithCopies(copies int) (FileSpec, error) {
	f.copies = copies
	return f.repriced()
}

// WithPrintType returns a copy with a new color mode
func (f FileSpec) WithPrintType(pt PrintType) (FileSpec, error) {
	f.printType = pt
	return f.repriced()
}

// WithPaperSize returns a copy with a new paper size
func (f FileSpec) WithPaperSize(size PaperSize) (FileSpec, error) {
	f.paperSize = size
	return f.repriced()
}

// WithOrientation returns a copy with a new orientation.
// Orientation does not affect price, so a computed cost is kept.
func (f FileSpec) WithOrientation(o Orientation) (FileSpec, error) {
	f.orientation = o
	if err := f.validate(); err != nil {
		return FileSpec{}, err
	}
	return f, nil
}

// WithDuplex returns a copy with a new duplex mode
func (f FileSpec) WithDuplex(d DuplexMode) (FileSpec, error) {
	f.duplex = d
	return f.repriced()
}

// WithPageRange returns a copy with a new page selection
func (f FileSpec) WithPageRange(expr string) (FileSpec, error) {
	f.pageRange = strings.TrimSpace(expr)
	return f.repriced()
}

// WithPageCount returns a copy with a page count reported by the counting worker
func (f FileSpec) WithPageCount(pages int) (FileSpec, error) {
	f.pageCount = &pages
	return f.repriced()
}

// WithLayout returns a copy with a new image layout
func (f FileSpec) WithLayout(layout ImageLayout) (FileSpec, error) {
	f.layout = &layout
	return f.repriced()
}

func (f FileSpec) repriced() (FileSpec, error) {
	if err := f.validate(); err != nil {
		return FileSpec{}, err
	}
	f.cost = nil
	return f, nil
}

// FileSnapshot is the serialisable form of a FileSpec stored with print jobs
type FileSnapshot struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        FileKind         `json:"kind"`
	PageCount   *int             `json:"page_count,omitempty"`
	PageRange   string           `json:"page_range,omitempty"`
	Copies      int              `json:"copies"`
	PrintType   PrintType        `json:"print_type"`
	PaperSize   PaperSize        `json:"paper_size"`
	Orientation Orientation      `json:"orientation"`
	Duplex      DuplexMode       `json:"duplex"`
	Layout      *ImageLayout     `json:"layout,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
}

// Snapshot returns the serialisable form of the file
func (f FileSpec) Snapshot() FileSnapshot {
	s := FileSnapshot{
		ID:          f.id,
		Name:        f.name,
		Kind:        f.kind,
		PageCount:   f.PageCount(),
		PageRange:   f.pageRange,
		Copies:      f.copies,
		PrintType:   f.printType,
		PaperSize:   f.paperSize,
		Orientation: f.orientation,
		Duplex:      f.duplex,
		Layout:      f.Layout(),
	}
	if f.cost != nil {
		c := *f.cost
		s.Cost = &c
	}
	return s
}

// FileSpec rebuilds a validated FileSpec from its snapshot
func (s FileSnapshot) FileSpec() (FileSpec, error) {
	f, err := NewFileSpec(FileSpecInput{
		ID:          s.ID,
		Name:        s.Name,
		Kind:        s.Kind,
		PageCount:   s.PageCount,
		PageRange:   s.PageRange,
		Copies:      s.Copies,
		PrintType:   s.PrintType,
		PaperSize:   s.PaperSize,
		Orientation: s.Orientation,
		Duplex:      s.Duplex,
		Layout:      s.Layout,
	})
	if err != nil {
		return FileSpec{}, err
	}
	if s.Cost != nil {
		f = f.WithCost(*s.Cost)
	}
	return f, nil
}
