package printing

// PrintType represents the color mode of a print
type PrintType string

const (
	PrintTypeBW    PrintType = "bw"
	PrintTypeColor PrintType = "color"
)

// IsValid checks if the PrintType is a valid value
func (p PrintType) IsValid() bool {
	switch p {
	case PrintTypeBW, PrintTypeColor:
		return true
	}
	return false
}

// String returns the string representation of PrintType
func (p PrintType) String() string {
	return string(p)
}

// Capability returns the capability token a printer must advertise
func (p PrintType) Capability() Capability {
	return Capability(p)
}

// AllPrintTypes returns all valid PrintType values
func AllPrintTypes() []PrintType {
	return []PrintType{PrintTypeBW, PrintTypeColor}
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4"
	PaperSizeA3 PaperSize = "A3"
	PaperSizeA2 PaperSize = "A2"
	PaperSizeA1 PaperSize = "A1"
	PaperSizeA0 PaperSize = "A0"
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA3, PaperSizeA2, PaperSizeA1, PaperSizeA0:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// IsLargeFormat returns true for A2, A1 and A0
func (p PaperSize) IsLargeFormat() bool {
	return p == PaperSizeA2 || p == PaperSizeA1 || p == PaperSizeA0
}

// Capability returns the capability token a printer must advertise
func (p PaperSize) Capability() Capability {
	return Capability(p)
}

// AllPaperSizes returns all valid PaperSize values, smallest first
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA4, PaperSizeA3, PaperSizeA2, PaperSizeA1, PaperSizeA0}
}

// Orientation represents the page orientation
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// DuplexMode represents single or double sided printing
type DuplexMode string

const (
	DuplexOneSided  DuplexMode = "one-sided"
	DuplexLongEdge  DuplexMode = "duplex-long-edge"
	DuplexShortEdge DuplexMode = "duplex-short-edge"
)

// IsValid checks if the DuplexMode is a valid value
func (d DuplexMode) IsValid() bool {
	switch d {
	case DuplexOneSided, DuplexLongEdge, DuplexShortEdge:
		return true
	}
	return false
}

// String returns the string representation of DuplexMode
func (d DuplexMode) String() string {
	return string(d)
}

// IsOneSided returns true if no duplex support is needed
func (d DuplexMode) IsOneSided() bool {
	return d == DuplexOneSided
}

// AllDuplexModes returns all valid DuplexMode values
func AllDuplexModes() []DuplexMode {
	return []DuplexMode{DuplexOneSided, DuplexLongEdge, DuplexShortEdge}
}

// BindingMode represents how bound files are finished
type BindingMode string

const (
	BindingNone   BindingMode = "none"
	BindingSpiral BindingMode = "spiral"
	BindingSoft   BindingMode = "soft"
)

// IsValid checks if the BindingMode is a valid value
func (b BindingMode) IsValid() bool {
	switch b {
	case BindingNone, BindingSpiral, BindingSoft:
		return true
	}
	return false
}

// String returns the string representation of BindingMode
func (b BindingMode) String() string {
	return string(b)
}

// IsBound returns true if files are to be bound together
func (b BindingMode) IsBound() bool {
	return b == BindingSpiral || b == BindingSoft
}

// LayoutKind is the arrangement of photos on a sheet
type LayoutKind string

const (
	LayoutFullPage     LayoutKind = "full-page"
	LayoutTwoUp        LayoutKind = "2-up"
	LayoutFourUp       LayoutKind = "4-up"
	LayoutNineUp       LayoutKind = "9-up"
	LayoutContactSheet LayoutKind = "contact-sheet"
)

// IsValid checks if the LayoutKind is a valid value
func (l LayoutKind) IsValid() bool {
	return l.PhotosPerSheet() > 0
}

// String returns the string representation of LayoutKind
func (l LayoutKind) String() string {
	return string(l)
}

// PhotosPerSheet returns how many photos fit on one sheet, or 0 if unknown
func (l LayoutKind) PhotosPerSheet() int {
	switch l {
	case LayoutFullPage:
		return 1
	case LayoutTwoUp:
		return 2
	case LayoutFourUp:
		return 4
	case LayoutNineUp:
		return 9
	case LayoutContactSheet:
		return 35
	}
	return 0
}

// AllLayoutKinds returns all valid LayoutKind values
func AllLayoutKinds() []LayoutKind {
	return []LayoutKind{LayoutFullPage, LayoutTwoUp, LayoutFourUp, LayoutNineUp, LayoutContactSheet}
}

// FitMode controls how a photo is scaled into its cell
type FitMode string

const (
	FitModeFill FitMode = "fill"
	FitModeFit  FitMode = "fit"
)

// IsValid checks if the FitMode is a valid value
func (f FitMode) IsValid() bool {
	return f == FitModeFill || f == FitModeFit
}

// FileKind distinguishes paged documents from images
type FileKind string

const (
	FileKindDocument FileKind = "document"
	FileKindImage    FileKind = "image"
)

// IsValid checks if the FileKind is a valid value
func (k FileKind) IsValid() bool {
	return k == FileKindDocument || k == FileKindImage
}

// PrinterStatus represents the connectivity of a printer
type PrinterStatus string

const (
	PrinterStatusOnline  PrinterStatus = "online"
	PrinterStatusOffline PrinterStatus = "offline"
)

// IsValid checks if the PrinterStatus is a valid value
func (s PrinterStatus) IsValid() bool {
	return s == PrinterStatusOnline || s == PrinterStatusOffline
}

// String returns the string representation of PrinterStatus
func (s PrinterStatus) String() string {
	return string(s)
}

// JobStatus represents the status of a print job
type JobStatus string

const (
	JobStatusPendingPayment     JobStatus = "pending-payment"
	JobStatusPending            JobStatus = "pending"
	JobStatusUploading          JobStatus = "uploading"
	JobStatusReady              JobStatus = "ready"
	JobStatusPrinting           JobStatus = "printing"
	JobStatusCompleted          JobStatus = "completed"
	JobStatusError              JobStatus = "error"
	JobStatusPageCountRequest   JobStatus = "page-count-request"
	JobStatusPageCountCompleted JobStatus = "page-count-completed"
	JobStatusReprint            JobStatus = "reprint"
	JobStatusReprintCompleted   JobStatus = "reprint-completed"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	for _, v := range AllJobStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further printer-side transition is expected
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusError, JobStatusReprintCompleted, JobStatusPageCountCompleted:
		return true
	}
	return false
}

// CanTransitionTo checks if a print job can move from s to target
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPendingPayment:
		return target == JobStatusPending || target == JobStatusError
	case JobStatusPending:
		return target == JobStatusUploading || target == JobStatusReady || target == JobStatusError
	case JobStatusUploading:
		return target == JobStatusReady || target == JobStatusError
	case JobStatusReady:
		return target == JobStatusPrinting || target == JobStatusError
	case JobStatusPrinting:
		return target == JobStatusCompleted || target == JobStatusReprintCompleted || target == JobStatusError
	case JobStatusReprint:
		return target == JobStatusReady || target == JobStatusPrinting || target == JobStatusError
	case JobStatusPageCountRequest:
		return target == JobStatusPageCountCompleted || target == JobStatusError
	}
	return false
}

// AllJobStatuses returns all valid JobStatus values
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusPendingPayment, JobStatusPending, JobStatusUploading, JobStatusReady,
		JobStatusPrinting, JobStatusCompleted, JobStatusError,
		JobStatusPageCountRequest, JobStatusPageCountCompleted,
		JobStatusReprint, JobStatusReprintCompleted,
	}
}
