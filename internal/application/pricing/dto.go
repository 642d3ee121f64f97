package pricing

import "github.com/printease/backend/internal/domain/printing"

// UpdatePaperSizesRequest toggles paper sizes by name, e.g. {"A2": true}
type UpdatePaperSizesRequest struct {
	Sizes map[string]bool `json:"sizes" binding:"required,min=1"`
}

// PaperSizeResponse is one entry of the paper size list
type PaperSizeResponse struct {
	Size    string `json:"size"`
	Enabled bool   `json:"enabled"`
}

// ToPaperSizeResponses lists every size in canonical order
func ToPaperSizeResponses(sizes printing.PaperSizeAvailability) []PaperSizeResponse {
	all := printing.AllPaperSizes()
	out := make([]PaperSizeResponse, len(all))
	for i, size := range all {
		out[i] = PaperSizeResponse{Size: string(size), Enabled: sizes.Enabled(size)}
	}
	return out
}
