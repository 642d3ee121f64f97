package printing

import (
	"github.com/printease/backend/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// FailureReason explains why a file could not be placed
type FailureReason string

const (
	// FailureNoCompatiblePrinter means no online printer satisfies the cluster
	FailureNoCompatiblePrinter FailureReason = "no_compatible_printer"
)

// AllocatedJob is one priced job assigned to a printer. The first job of an
// order with the edit service carries EditFee.
type AllocatedJob struct {
	Cluster       ClusterKind
	Category      CategoryKey
	Files         []FileSpec
	PrinterID     string
	PrinterName   string
	Binding       BindingMode
	BindingFee    decimal.Decimal
	EditRequested bool
	EditFee       decimal.Decimal
	Cost          decimal.Decimal
}

// FileIDs returns the ids of the files in the job
func (j AllocatedJob) FileIDs() []string {
	ids := make([]string, len(j.Files))
	for i, f := range j.Files {
		ids[i] = f.ID()
	}
	return ids
}

// PlacementFailure is a file that could not be assigned to any printer
type PlacementFailure struct {
	FileID  string        `json:"file_id"`
	Cluster string        `json:"cluster"`
	Reason  FailureReason `json:"reason"`
}

// OrderAllocation is the result of one allocation pass
type OrderAllocation struct {
	Jobs     []AllocatedJob
	Failures []PlacementFailure
	Total    decimal.Decimal
	// Advances lists the rotation slots consumed; applied only on commit
	Advances []RotationAdvance
}

// Placed reports whether every file found a printer
func (a OrderAllocation) Placed() bool {
	return len(a.Failures) == 0
}

// PricingStrategy prices one configured file
type PricingStrategy interface {
	strategy.Strategy
	// Cost never fails: files that cannot be priced yet cost zero
	Cost(file FileSpec, schedule PricingSchedule) decimal.Decimal
}

// Selection is the printer chosen for a cluster
type Selection struct {
	Printer Printer
	// Index and Count locate the printer among the candidates for rotation
	Index int
	Count int
	// Rotates is true when committing the selection advances the rotation
	Rotates bool
}

// Advance returns the rotation step implied by the selection
func (s Selection) Advance(key CategoryKey) RotationAdvance {
	return RotationAdvance{Key: key, Index: s.Index, Count: s.Count}
}

// PrinterSelectionStrategy picks one printer among compatible candidates
type PrinterSelectionStrategy interface {
	strategy.Strategy
	// Select returns false when there is no candidate
	Select(cluster JobCluster, candidates PrinterPool, rotation RotationState) (Selection, bool)
}
