// Package calculator implements streaming technical indicators. Each
// indicator owns its recursive or windowed state and is fed one candle at a
// time, so a whole series is processed in a single O(n) pass.
package calculator

import "MarketBrief/internal/model"

// Indicator is a streaming indicator over candles.
type Indicator interface {
	Name() string
	// Update folds in the next candle and returns the current value.
	Update(c model.Candle) float64
	// Ready reports whether Value is defined.
	Ready() bool
	Value() float64
}

// safeDiv divides a by b, substituting 1.0 for a zero denominator.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		b = 1.0
	}
	return a / b
}
