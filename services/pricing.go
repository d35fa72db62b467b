// Package services provides the pricing, incentive and export logic behind
// EV charging proposals.
package services

import (
	"math"
)

// ApplyMargin converts a cost into a price using margin-on-price:
// price = cost / (1 - margin/100). Margins of 100 or above have no finite
// price and are rejected.
func ApplyMargin(cost, marginPercent float64) (float64, error) {
	if err := checkMargin(marginPercent); err != nil {
		return 0, err
	}
	return cost / (1 - marginPercent/100), nil
}

// RemoveMargin recovers the cost behind a margin-derived price.
func RemoveMargin(price, marginPercent float64) float64 {
	return price * (1 - marginPercent/100)
}

// MarginPercent returns (price - cost) / price * 100, or 0 for a zero price.
func MarginPercent(price, cost float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - cost) / price * 100
}

func checkMargin(marginPercent float64) error {
	if math.IsNaN(marginPercent) || math.IsInf(marginPercent, 0) || marginPercent >= 100 {
		return ErrInvalidMargin
	}
	return nil
}

// TaxLiable reports whether EVSE sales tax applies to the project type.
// Distribution sales are resold and carry no tax.
func TaxLiable(t ProjectType) bool {
	return t != ProjectDistribution
}

// LineTotal multiplies a per-unit rate by quantity.
func LineTotal(rate, qty float64) float64 {
	return rate * qty
}
