package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/printease/backend/internal/application/ordering"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/infrastructure/strategy"
)

// printerFixture is one printer of a --printers file
type printerFixture struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Status       printing.PrinterStatus `json:"status"`
	Capabilities printing.CapabilitySet `json:"capabilities"`
	QueueLength  int                    `json:"queue_length"`
}

// session is an order loaded with everything needed to allocate it
type session struct {
	input     ordering.OrderInput
	pool      printing.PrinterPool
	schedule  printing.PricingSchedule
	assembler *ordering.Assembler
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func loadSession(o *options) (*session, error) {
	var req ordering.QuoteRequest
	if err := readJSON(o.filesPath, &req); err != nil {
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	var printers []printerFixture
	if err := readJSON(o.printersPath, &printers); err != nil {
		return nil, fmt.Errorf("failed to read printers: %w", err)
	}
	pool := make(printing.PrinterPool, 0, len(printers))
	for _, p := range printers {
		if p.Status == "" {
			p.Status = printing.PrinterStatusOnline
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		pool = append(pool, printing.Printer{
			ID:           p.ID,
			Name:         p.Name,
			Status:       p.Status,
			Capabilities: p.Capabilities,
			QueueLength:  p.QueueLength,
		})
	}

	schedule := printing.DefaultPricingSchedule()
	if o.pricingPath != "" {
		if err := readJSON(o.pricingPath, &schedule); err != nil {
			return nil, fmt.Errorf("failed to read pricing: %w", err)
		}
		if err := schedule.Validate(); err != nil {
			return nil, err
		}
	}

	sizes := make(printing.PaperSizeAvailability)
	for _, size := range printing.AllPaperSizes() {
		sizes[size] = true
	}
	if o.sizesPath != "" {
		var stored map[printing.PaperSize]bool
		if err := readJSON(o.sizesPath, &stored); err != nil {
			return nil, fmt.Errorf("failed to read paper sizes: %w", err)
		}
		sizes = printing.DefaultPaperSizeAvailability().Merge(stored)
	}

	input, err := ordering.BuildInput(req, sizes)
	if err != nil {
		return nil, err
	}

	registry, err := strategy.NewRegistryWithDefaults()
	if err != nil {
		return nil, err
	}
	assembler, err := ordering.NewAssemblerFromRegistry(registry, ordering.StrategyNames{
		Bound:    o.boundStrategy,
		Category: o.categoryStrategy,
	})
	if err != nil {
		return nil, err
	}

	return &session{input: input, pool: pool, schedule: schedule, assembler: assembler}, nil
}

func loadRotation(path string) (printing.RotationState, error) {
	if path == "" {
		return printing.NewRotationState(), nil
	}
	var counters map[printing.CategoryKey]int
	if err := readJSON(path, &counters); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return printing.NewRotationState(), nil
		}
		return printing.RotationState{}, fmt.Errorf("failed to read rotation: %w", err)
	}
	return printing.RotationStateFrom(counters), nil
}

func saveRotation(path string, state printing.RotationState) error {
	data, err := json.MarshalIndent(state.Counters(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
