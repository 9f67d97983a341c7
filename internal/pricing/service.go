package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Tier is a volume discount band applied to an order subtotal.
type Tier struct {
	Name             string
	MinSubtotalCents int64
	DiscountPercent  decimal.Decimal
}

// Quote is the priced breakdown of a checkout subtotal.
type Quote struct {
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
	TierName      string
}

// Service prices checkout subtotals against the configured tier table and
// tax rate. All arithmetic runs in decimal and rounds half-up to whole cents.
type Service interface {
	Price(subtotalCents int64) (Quote, error)
}

type service struct {
	tiers   []Tier
	taxRate decimal.Decimal
}

// DefaultTiers is the standard B2B volume discount table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "standard", MinSubtotalCents: 0, DiscountPercent: decimal.Zero},
		{Name: "silver", MinSubtotalCents: 100_000, DiscountPercent: decimal.NewFromFloat(2.5)},
		{Name: "gold", MinSubtotalCents: 500_000, DiscountPercent: decimal.NewFromInt(5)},
		{Name: "platinum", MinSubtotalCents: 2_500_000, DiscountPercent: decimal.NewFromFloat(7.5)},
	}
}

// NewService builds a pricing service. taxRatePercent is e.g. 8.25 for 8.25%.
func NewService(tiers []Tier, taxRatePercent decimal.Decimal) (Service, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one pricing tier required")
	}
	if taxRatePercent.IsNegative() {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinSubtotalCents < sorted[j].MinSubtotalCents
	})
	if sorted[0].MinSubtotalCents != 0 {
		return nil, fmt.Errorf("lowest tier must start at zero")
	}
	return &service{tiers: sorted, taxRate: taxRatePercent}, nil
}

func (s *service) Price(subtotalCents int64) (Quote, error) {
	if subtotalCents < 0 {
		return Quote{}, fmt.Errorf("subtotal cannot be negative")
	}

	tier := s.tierFor(subtotalCents)
	subtotal := decimal.NewFromInt(subtotalCents)
	hundred := decimal.NewFromInt(100)

	discount := subtotal.Mul(tier.DiscountPercent).Div(hundred).Round(0)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(s.taxRate).Div(hundred).Round(0)
	total := taxable.Add(tax)

	return Quote{
		SubtotalCents: subtotalCents,
		DiscountCents: discount.IntPart(),
		TaxCents:      tax.IntPart(),
		TotalCents:    total.IntPart(),
		TierName:      tier.Name,
	}, nil
}

func (s *service) tierFor(subtotalCents int64) Tier {
	selected := s.tiers[0]
	for _, tier := range s.tiers {
		if subtotalCents >= tier.MinSubtotalCents {
			selected = tier
		}
	}
	return selected
}
