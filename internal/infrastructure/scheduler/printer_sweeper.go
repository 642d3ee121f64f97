package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StalePrinterMarker takes silent printers offline
type StalePrinterMarker interface {
	MarkStale(ctx context.Context, staleAfter time.Duration) (int, error)
}

// PrinterSweeper marks printers offline once their last heartbeat is older
// than StaleAfter, so allocation stops routing work to them
type PrinterSweeper struct {
	fleet      StalePrinterMarker
	staleAfter time.Duration
	logger     *zap.Logger
}

// NewPrinterSweeper creates the sweep task
func NewPrinterSweeper(fleet StalePrinterMarker, staleAfter time.Duration, logger *zap.Logger) *PrinterSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrinterSweeper{fleet: fleet, staleAfter: staleAfter, logger: logger}
}

// Name implements Task
func (p *PrinterSweeper) Name() string {
	return "printer_sweeper"
}

// Run implements Task
func (p *PrinterSweeper) Run(ctx context.Context) error {
	marked, err := p.fleet.MarkStale(ctx, p.staleAfter)
	if marked > 0 {
		p.logger.Info("Stale printers marked offline", zap.Int("count", marked))
	}
	return err
}
