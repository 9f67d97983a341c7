package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceSelectsTierByThreshold(t *testing.T) {
	t.Parallel()

	svc, err := NewService(DefaultTiers(), decimal.Zero)
	require.NoError(t, err)

	cases := []struct {
		name          string
		subtotalCents int64
		wantTier      string
		wantDiscount  int64
	}{
		{name: "below first threshold", subtotalCents: 99_999, wantTier: "standard", wantDiscount: 0},
		{name: "exactly at silver", subtotalCents: 100_000, wantTier: "silver", wantDiscount: 2_500},
		{name: "gold band", subtotalCents: 1_000_000, wantTier: "gold", wantDiscount: 50_000},
		{name: "platinum band", subtotalCents: 3_000_000, wantTier: "platinum", wantDiscount: 225_000},
		{name: "zero subtotal", subtotalCents: 0, wantTier: "standard", wantDiscount: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			quote, err := svc.Price(tc.subtotalCents)
			require.NoError(t, err)
			require.Equal(t, tc.wantTier, quote.TierName)
			require.Equal(t, tc.wantDiscount, quote.DiscountCents)
			require.Equal(t, tc.subtotalCents-tc.wantDiscount, quote.TotalCents)
		})
	}
}

func TestPriceAppliesTaxAfterDiscount(t *testing.T) {
	t.Parallel()

	svc, err := NewService(DefaultTiers(), decimal.NewFromFloat(8.25))
	require.NoError(t, err)

	quote, err := svc.Price(100_000)
	require.NoError(t, err)

	// silver: 2.5% discount on 100000 = 2500; tax 8.25% on 97500 = 8043.75 -> 8044
	require.Equal(t, int64(2_500), quote.DiscountCents)
	require.Equal(t, int64(8_044), quote.TaxCents)
	require.Equal(t, int64(105_544), quote.TotalCents)
}

func TestPriceRejectsNegativeSubtotal(t *testing.T) {
	t.Parallel()

	svc, err := NewService(DefaultTiers(), decimal.Zero)
	require.NoError(t, err)

	_, err = svc.Price(-1)
	require.Error(t, err)
}

func TestNewServiceValidatesTierTable(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, decimal.Zero)
	require.Error(t, err)

	_, err = NewService([]Tier{{Name: "broken", MinSubtotalCents: 100}}, decimal.Zero)
	require.Error(t, err)

	_, err = NewService(DefaultTiers(), decimal.NewFromInt(-1))
	require.Error(t, err)
}
