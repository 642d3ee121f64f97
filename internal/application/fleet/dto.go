package fleet

import (
	"time"

	"github.com/printease/backend/internal/domain/printing"
)

// HeartbeatRequest is the periodic status report of a printer agent.
// Capabilities are only used when the printer registers for the first time.
type HeartbeatRequest struct {
	Name                 string   `json:"name" binding:"max=100"`
	Status               string   `json:"status" binding:"required,oneof=online offline"`
	QueueLength          int      `json:"queue_length" binding:"min=0"`
	EstimatedWaitMinutes int      `json:"estimated_wait_minutes" binding:"min=0"`
	Capabilities         []string `json:"capabilities" binding:"omitempty,max=20"`
}

// UpdateCapabilitiesRequest replaces the capabilities of a printer
type UpdateCapabilitiesRequest struct {
	Capabilities []string `json:"capabilities" binding:"required,max=20"`
}

// PrinterResponse is the API view of a printer
type PrinterResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Status               string    `json:"status"`
	Capabilities         []string  `json:"capabilities"`
	QueueLength          int       `json:"queue_length"`
	EstimatedWaitMinutes int       `json:"estimated_wait_minutes"`
	LastSeen             time.Time `json:"last_seen"`
	RegisteredAt         time.Time `json:"registered_at"`
}

// ToPrinterResponse converts a domain printer
func ToPrinterResponse(p printing.Printer) PrinterResponse {
	caps := p.Capabilities.Strings()
	if caps == nil {
		caps = []string{}
	}
	return PrinterResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Status:               string(p.Status),
		Capabilities:         caps,
		QueueLength:          p.QueueLength,
		EstimatedWaitMinutes: p.EstimatedWaitMinutes,
		LastSeen:             p.LastSeen,
		RegisteredAt:         p.RegisteredAt,
	}
}

// ToPrinterResponses converts a pool
func ToPrinterResponses(pool printing.PrinterPool) []PrinterResponse {
	out := make([]PrinterResponse, len(pool))
	for i, p := range pool {
		out[i] = ToPrinterResponse(p)
	}
	return out
}
