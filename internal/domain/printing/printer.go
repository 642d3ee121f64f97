package printing

import (
	"strings"
	"time"

	"github.com/printease/backend/internal/domain/shared"
)

// Printer is a physical printer as last reported by its agent.
// QueueLength and EstimatedWaitMinutes are informational; only the bound-job
// selection uses the queue length, as a preference.
type Printer struct {
	ID                   string
	Name                 string
	Status               PrinterStatus
	Capabilities         CapabilitySet
	QueueLength          int
	EstimatedWaitMinutes int
	LastSeen             time.Time
	RegisteredAt         time.Time
}

// NewPrinter registers a printer seen for the first time
func NewPrinter(id, name string, caps CapabilitySet) (*Printer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.NewDomainError("INVALID_PRINTER", "Printer ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		name = id
	}
	now := time.Now()
	return &Printer{
		ID:           id,
		Name:         name,
		Status:       PrinterStatusOffline,
		Capabilities: caps,
		RegisteredAt: now,
		LastSeen:     now,
	}, nil
}

// IsOnline returns true if the printer accepts jobs
func (p *Printer) IsOnline() bool {
	return p.Status == PrinterStatusOnline
}

// Heartbeat records a status report from the printer agent
func (p *Printer) Heartbeat(status PrinterStatus, queueLength, waitMinutes int, at time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PRINTER_STATUS", "Invalid printer status: "+string(status))
	}
	if queueLength < 0 || waitMinutes < 0 {
		return shared.NewDomainError("INVALID_QUEUE", "Queue length and wait time cannot be negative")
	}
	p.Status = status
	p.QueueLength = queueLength
	p.EstimatedWaitMinutes = waitMinutes
	p.LastSeen = at
	return nil
}

// UpdateCapabilities replaces the advertised capability set
func (p *Printer) UpdateCapabilities(caps CapabilitySet) {
	p.Capabilities = caps
}

// MarkOffline takes the printer out of rotation
func (p *Printer) MarkOffline() {
	p.Status = PrinterStatusOffline
}

// IsStale reports whether the last heartbeat is older than ttl
func (p *Printer) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.LastSeen) > ttl
}

// PrinterPool is the printer list in a stable iteration order.
// Round robin indexes into it, so the order must not change between calls
// that do not change the fleet.
type PrinterPool []Printer

// Online returns the online printers, preserving order
func (pool PrinterPool) Online() PrinterPool {
	out := make(PrinterPool, 0, len(pool))
	for _, p := range pool {
		if p.IsOnline() {
			out = append(out, p)
		}
	}
	return out
}
