// Package pricing holds the price statistics, listing ranking and density
// curve math behind a price snapshot.
package pricing

import (
	"math"
	"sort"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

// Summary is the min/max/median view over a price set.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
}

// ErrEmptyInput is returned when statistics are requested for no prices.
func ErrEmptyInput() error {
	return pkgerrors.New(pkgerrors.CodeEmptyInput, "price set is empty")
}

// Summarize computes min, max and median over prices. The input is not
// reordered.
func Summarize(prices []float64) (Summary, error) {
	if len(prices) == 0 {
		return Summary{}, ErrEmptyInput()
	}
	if err := validatePrices(prices); err != nil {
		return Summary{}, err
	}

	sorted := SortedCopy(prices)
	return Summary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: Median(sorted),
		Count:  len(sorted),
	}, nil
}

// Median expects an ascending slice. Even lengths average the two middle
// values.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// SortedCopy returns an ascending copy of prices.
func SortedCopy(prices []float64) []float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)
	return sorted
}

func validatePrices(prices []float64) error {
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "prices must be finite and non-negative").
				WithDetails(map[string]any{"index": i})
		}
	}
	return nil
}
