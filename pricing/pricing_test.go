package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCostTiers(t *testing.T) {
	tests := []struct {
		name   string
		weight int
		want   float64
	}{
		{"zero weight", 0, 5},
		{"light parcel", 400, 5},
		{"exactly 500g", 500, 5},
		{"just over 500g", 501, 10},
		{"medium parcel", 800, 10},
		{"exactly 2000g", 2000, 10},
		{"just over 2000g", 2001, 25},
		{"heavy parcel", 10000, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShippingCost(tt.weight))
		})
	}
}

func TestShippingCostMonotonic(t *testing.T) {
	prev := ShippingCost(0)
	for w := 1; w <= 3000; w++ {
		cost := ShippingCost(w)
		assert.GreaterOrEqual(t, cost, prev, "cost decreased at %dg", w)
		assert.Contains(t, []float64{5, 10, 25}, cost)
		prev = cost
	}
}

func TestTaxAmountRates(t *testing.T) {
	tests := []struct {
		province string
		rate     float64
	}{
		{"QC", 0.15},
		{"ON", 0.13},
		{"AB", 0.05},
		{"BC", 0.12},
		{"NS", 0.14},
		{"YT", 0},
		{"qc", 0},
		{"", 0},
		{"France", 0},
	}

	for _, tt := range tests {
		t.Run("province "+tt.province, func(t *testing.T) {
			assert.InDelta(t, 100*tt.rate, TaxAmount(100, tt.province), 1e-9)
		})
	}
}

func TestTaxAmountZeroSubtotal(t *testing.T) {
	assert.Zero(t, TaxAmount(0, "QC"))
}
