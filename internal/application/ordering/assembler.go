package ordering

import (
	"fmt"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// OrderInput is a configured order before allocation
type OrderInput struct {
	Files   []printing.FileSpec
	Binding printing.BindingMode
	// BindSelector picks the files to bind by 1-indexed position, e.g. "1-3,5"
	BindSelector string
	// EditService asks the shop to edit the files before printing. The edit
	// fee is charged once per order, on the first job.
	EditService bool
}

// Assembler turns an order into priced jobs assigned to printers.
// It is a pure function of its inputs and never touches shared state.
type Assembler struct {
	pricing          printing.PricingStrategy
	boundSelector    printing.PrinterSelectionStrategy
	categorySelector printing.PrinterSelectionStrategy
}

// NewAssembler creates an assembler from explicit strategies
func NewAssembler(
	pricing printing.PricingStrategy,
	boundSelector printing.PrinterSelectionStrategy,
	categorySelector printing.PrinterSelectionStrategy,
) *Assembler {
	return &Assembler{
		pricing:          pricing,
		boundSelector:    boundSelector,
		categorySelector: categorySelector,
	}
}

// StrategySource is the part of the strategy registry the assembler needs
type StrategySource interface {
	GetPricingStrategy(name string) (printing.PricingStrategy, error)
	GetSelectionStrategy(name string) (printing.PrinterSelectionStrategy, error)
}

// StrategyNames selects strategies by registry name; empty names use the defaults
type StrategyNames struct {
	Pricing  string
	Bound    string
	Category string
}

// NewAssemblerFromRegistry resolves the strategies by name
func NewAssemblerFromRegistry(src StrategySource, names StrategyNames) (*Assembler, error) {
	pricing, err := src.GetPricingStrategy(names.Pricing)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pricing strategy: %w", err)
	}
	bound, err := src.GetSelectionStrategy(names.Bound)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bound selection strategy: %w", err)
	}
	category, err := src.GetSelectionStrategy(names.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category selection strategy: %w", err)
	}
	return NewAssembler(pricing, bound, category), nil
}

// Price returns the files with their cost computed against schedule
func (a *Assembler) Price(files []printing.FileSpec, schedule printing.PricingSchedule) []printing.FileSpec {
	out := make([]printing.FileSpec, len(files))
	for i, f := range files {
		out[i] = f.WithCost(a.pricing.Cost(f, schedule))
	}
	return out
}

// Assemble composes the order into clusters, prices every file and picks a
// printer per cluster. The bound cluster goes first, then categories in the
// order their first file appears. rotation is cloned; the consumed slots are
// reported in Advances for the caller to commit.
func (a *Assembler) Assemble(
	input OrderInput,
	pool printing.PrinterPool,
	schedule printing.PricingSchedule,
	rotation printing.RotationState,
) printing.OrderAllocation {
	working := rotation.Clone()
	online := pool.Online()
	files := a.Price(input.Files, schedule)
	composition := printing.Compose(files, input.Binding, input.BindSelector)

	result := printing.OrderAllocation{Total: decimal.Zero}
	for _, cluster := range composition.Clusters() {
		selector := a.categorySelector
		if cluster.Kind == printing.ClusterBound {
			selector = a.boundSelector
		}

		candidates := printing.CompatiblePrinters(online, cluster.Files)
		sel, ok := selector.Select(cluster, candidates, working)
		if !ok {
			for _, f := range cluster.Files {
				result.Failures = append(result.Failures, printing.PlacementFailure{
					FileID:  f.ID(),
					Cluster: cluster.Label(),
					Reason:  printing.FailureNoCompatiblePrinter,
				})
			}
			continue
		}

		if sel.Rotates {
			adv := sel.Advance(cluster.Key)
			working.Advance(adv.Key, adv.Index, adv.Count)
			result.Advances = append(result.Advances, adv)
		}

		job := newAllocatedJob(cluster, sel.Printer, schedule)
		result.Jobs = append(result.Jobs, job)
		result.Total = result.Total.Add(job.Cost)
	}
	if input.EditService && len(result.Jobs) > 0 {
		first := &result.Jobs[0]
		first.EditRequested = true
		first.EditFee = schedule.EditFee
		first.Cost = first.Cost.Add(schedule.EditFee)
		result.Total = result.Total.Add(schedule.EditFee)
	}
	return result
}

func newAllocatedJob(cluster printing.JobCluster, printer printing.Printer, schedule printing.PricingSchedule) printing.AllocatedJob {
	job := printing.AllocatedJob{
		Cluster:     cluster.Kind,
		Category:    cluster.Key,
		Files:       cluster.Files,
		PrinterID:   printer.ID,
		PrinterName: printer.Name,
		Binding:     cluster.Binding,
		BindingFee:  decimal.Zero,
		EditFee:     decimal.Zero,
		Cost:        decimal.Zero,
	}
	for _, f := range cluster.Files {
		cost, _ := f.Cost()
		job.Cost = job.Cost.Add(cost)
	}
	if cluster.Kind == printing.ClusterBound && cluster.Binding.IsBound() && cluster.HasDocument() {
		job.BindingFee = schedule.BindingFee(cluster.Binding)
		job.Cost = job.Cost.Add(job.BindingFee)
	}
	return job
}
