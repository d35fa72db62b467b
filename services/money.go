package services

import "github.com/shopspring/decimal"

// RoundCents rounds a currency amount half away from zero to two places.
func RoundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// SumCents adds currency amounts exactly in decimal and rounds the result.
func SumCents(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Round(2).Float64()
	return f
}
