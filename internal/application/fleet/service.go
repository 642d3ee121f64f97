package fleet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PrinterService keeps the fleet in sync with printer agents
type PrinterService struct {
	repo   printing.PrinterRepository
	pool   *PoolProvider
	now    func() time.Time
	logger *zap.Logger
}

// NewPrinterService creates a new printer service. pool may be nil; when set
// its cache is dropped whenever the fleet changes.
func NewPrinterService(repo printing.PrinterRepository, pool *PoolProvider, logger *zap.Logger) *PrinterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrinterService{
		repo:   repo,
		pool:   pool,
		now:    time.Now,
		logger: logger,
	}
}

// Heartbeat records a status report, registering unknown printers
func (s *PrinterService) Heartbeat(ctx context.Context, id string, req HeartbeatRequest) (*PrinterResponse, error) {
	printer, err := s.repo.FindByID(ctx, id)
	registered := false
	switch {
	case errors.Is(err, shared.ErrNotFound):
		caps, capErr := printing.ParseCapabilitySet(req.Capabilities)
		if capErr != nil {
			return nil, capErr
		}
		printer, err = printing.NewPrinter(id, req.Name, caps)
		if err != nil {
			return nil, err
		}
		registered = true
	case err != nil:
		return nil, fmt.Errorf("failed to load printer: %w", err)
	}

	wasOnline := printer.IsOnline()
	if req.Name != "" {
		printer.Name = req.Name
	}
	if err := printer.Heartbeat(printing.PrinterStatus(req.Status), req.QueueLength, req.EstimatedWaitMinutes, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, printer); err != nil {
		return nil, fmt.Errorf("failed to save printer: %w", err)
	}

	if registered || wasOnline != printer.IsOnline() {
		s.invalidate()
		s.logger.Info("Printer availability changed",
			zap.String("printer_id", printer.ID),
			zap.Bool("registered", registered),
			zap.String("status", printer.Status.String()),
		)
	}
	resp := ToPrinterResponse(*printer)
	return &resp, nil
}

// UpdateCapabilities replaces what a printer can print
func (s *PrinterService) UpdateCapabilities(ctx context.Context, id string, req UpdateCapabilitiesRequest) (*PrinterResponse, error) {
	caps, err := printing.ParseCapabilitySet(req.Capabilities)
	if err != nil {
		return nil, err
	}
	printer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	printer.UpdateCapabilities(caps)
	if err := s.repo.Save(ctx, printer); err != nil {
		return nil, fmt.Errorf("failed to save printer: %w", err)
	}
	s.invalidate()

	s.logger.Info("Printer capabilities updated",
		zap.String("printer_id", printer.ID),
		zap.Strings("capabilities", caps.Strings()),
	)
	resp := ToPrinterResponse(*printer)
	return &resp, nil
}

// Get returns one printer
func (s *PrinterService) Get(ctx context.Context, id string) (*PrinterResponse, error) {
	printer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPrinterResponse(*printer)
	return &resp, nil
}

// List returns the fleet in pool order, optionally only online printers
func (s *PrinterService) List(ctx context.Context, onlineOnly bool) ([]PrinterResponse, error) {
	var pool printing.PrinterPool
	if s.pool != nil {
		var err error
		if pool, err = s.pool.Pool(ctx); err != nil {
			return nil, err
		}
	} else {
		printers, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list printers: %w", err)
		}
		for _, p := range printers {
			pool = append(pool, *p)
		}
	}
	if onlineOnly {
		pool = pool.Online()
	}
	return ToPrinterResponses(pool), nil
}

// MarkStale takes printers offline whose last heartbeat is older than
// staleAfter and returns how many were changed
func (s *PrinterService) MarkStale(ctx context.Context, staleAfter time.Duration) (int, error) {
	printers, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list printers: %w", err)
	}
	now := s.now()
	marked := 0
	for _, p := range printers {
		if !p.IsOnline() || !p.IsStale(now, staleAfter) {
			continue
		}
		p.MarkOffline()
		if err := s.repo.Save(ctx, p); err != nil {
			return marked, fmt.Errorf("failed to save printer %s: %w", p.ID, err)
		}
		marked++
		s.logger.Warn("Printer missed heartbeats, marked offline",
			zap.String("printer_id", p.ID),
			zap.Time("last_seen", p.LastSeen),
		)
	}
	if marked > 0 {
		s.invalidate()
	}
	return marked, nil
}

func (s *PrinterService) invalidate() {
	if s.pool != nil {
		s.pool.Invalidate()
	}
}
