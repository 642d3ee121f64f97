package printing

import (
	"fmt"

	"github.com/printease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PricingSchedule is the set of rates used to price files and bindings.
// It is a value: one allocation pass works on its own copy.
type PricingSchedule struct {
	BWA4Threshold    int             `json:"bw_a4_first_pages"`
	BWA4Tier1        decimal.Decimal `json:"bw_a4_first_price"`
	BWA4Tier2        decimal.Decimal `json:"bw_a4_after_price"`
	ColorA4          decimal.Decimal `json:"color_a4_price"`
	BWA3             decimal.Decimal `json:"bw_a3_price"`
	ColorA3          decimal.Decimal `json:"color_a3_price"`
	BWA2             decimal.Decimal `json:"bw_a2_price"`
	BWA1             decimal.Decimal `json:"bw_a1_price"`
	BWA0             decimal.Decimal `json:"bw_a0_price"`
	ColorA2          decimal.Decimal `json:"color_a2_price"`
	ColorA1          decimal.Decimal `json:"color_a1_price"`
	ColorA0          decimal.Decimal `json:"color_a0_price"`
	CoverPageFee     decimal.Decimal `json:"cover_page_fee"`
	SpiralBindingFee decimal.Decimal `json:"spiral_binding_fee"`
	SoftBindingFee   decimal.Decimal `json:"soft_binding_fee"`
	EditFee          decimal.Decimal `json:"edit_fee"`
}

// DefaultPricingSchedule returns the rates used until an administrator changes them
func DefaultPricingSchedule() PricingSchedule {
	return PricingSchedule{
		BWA4Threshold:    10,
		BWA4Tier1:        decimal.NewFromInt(2),
		BWA4Tier2:        decimal.NewFromInt(1),
		ColorA4:          decimal.NewFromInt(10),
		BWA3:             decimal.NewFromInt(10),
		ColorA3:          decimal.NewFromInt(30),
		BWA2:             decimal.NewFromInt(50),
		BWA1:             decimal.NewFromInt(100),
		BWA0:             decimal.NewFromInt(200),
		ColorA2:          decimal.NewFromInt(100),
		ColorA1:          decimal.NewFromInt(200),
		ColorA0:          decimal.NewFromInt(400),
		CoverPageFee:     decimal.NewFromInt(2),
		SpiralBindingFee: decimal.NewFromInt(40),
		SoftBindingFee:   decimal.NewFromInt(25),
		EditFee:          decimal.NewFromInt(15),
	}
}

// Validate checks that no amount is negative
func (s PricingSchedule) Validate() error {
	if s.BWA4Threshold < 0 {
		return shared.NewDomainError("INVALID_PRICING", "B/W A4 page threshold cannot be negative")
	}
	for name, amount := range s.amounts() {
		if amount.IsNegative() {
			return shared.NewDomainError("INVALID_PRICING", fmt.Sprintf("%s cannot be negative", name))
		}
	}
	return nil
}

func (s PricingSchedule) amounts() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"bw_a4_first_price":  s.BWA4Tier1,
		"bw_a4_after_price":  s.BWA4Tier2,
		"color_a4_price":     s.ColorA4,
		"bw_a3_price":        s.BWA3,
		"color_a3_price":     s.ColorA3,
		"bw_a2_price":        s.BWA2,
		"bw_a1_price":        s.BWA1,
		"bw_a0_price":        s.BWA0,
		"color_a2_price":     s.ColorA2,
		"color_a1_price":     s.ColorA1,
		"color_a0_price":     s.ColorA0,
		"cover_page_fee":     s.CoverPageFee,
		"spiral_binding_fee": s.SpiralBindingFee,
		"soft_binding_fee":   s.SoftBindingFee,
		"edit_fee":           s.EditFee,
	}
}

// FlatRate returns the per-page rate for every size and color except tiered B/W A4.
// For B/W A4 it returns the after-threshold rate, which is what image sheets pay.
func (s PricingSchedule) FlatRate(size PaperSize, pt PrintType) decimal.Decimal {
	color := pt == PrintTypeColor
	switch size {
	case PaperSizeA0:
		return pick(color, s.ColorA0, s.BWA0)
	case PaperSizeA1:
		return pick(color, s.ColorA1, s.BWA1)
	case PaperSizeA2:
		return pick(color, s.ColorA2, s.BWA2)
	case PaperSizeA3:
		return pick(color, s.ColorA3, s.BWA3)
	case PaperSizeA4:
		return pick(color, s.ColorA4, s.BWA4Tier2)
	}
	return decimal.Zero
}

// TieredBWA4 prices one copy of a B/W A4 document with the given number of pages
func (s PricingSchedule) TieredBWA4(pages int) decimal.Decimal {
	if pages <= 0 {
		return decimal.Zero
	}
	first := min(pages, s.BWA4Threshold)
	rest := max(0, pages-s.BWA4Threshold)
	return s.BWA4Tier1.Mul(decimal.NewFromInt(int64(first))).
		Add(s.BWA4Tier2.Mul(decimal.NewFromInt(int64(rest))))
}

// BindingFee returns the one-off fee for binding an order: cover page plus
// the spiral or soft binding charge. Unbound orders pay nothing.
func (s PricingSchedule) BindingFee(mode BindingMode) decimal.Decimal {
	switch mode {
	case BindingSpiral:
		return s.CoverPageFee.Add(s.SpiralBindingFee)
	case BindingSoft:
		return s.CoverPageFee.Add(s.SoftBindingFee)
	}
	return decimal.Zero
}

func pick(cond bool, a, b decimal.Decimal) decimal.Decimal {
	if cond {
		return a
	}
	return b
}
