// Package pricing holds the pure price computations: flat-rate shipping
// tiers and the per-province tax table.
package pricing

var taxRates = map[string]float64{
	"QC": 0.15,
	"ON": 0.13,
	"AB": 0.05,
	"BC": 0.12,
	"NS": 0.14,
}

// ShippingCost returns the flat shipping rate for a total order weight in
// grams.
func ShippingCost(totalWeightGrams int) float64 {
	switch {
	case totalWeightGrams <= 500:
		return 5
	case totalWeightGrams <= 2000:
		return 10
	default:
		return 25
	}
}

// TaxAmount returns the tax owed on a subtotal shipped to the given province.
// Provinces outside the table (foreign or malformed) are taxed at 0.
func TaxAmount(subtotal float64, province string) float64 {
	return subtotal * taxRates[province]
}
