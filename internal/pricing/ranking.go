package pricing

import "sort"

// TopListingCount is the size of the ranked listing panel.
const TopListingCount = 6

// Listing is one shopping result as shown in the ranked panel.
type Listing struct {
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Link      string   `json:"link"`
	Source    string   `json:"source"`
	Thumbnail string   `json:"thumbnail"`
	Rating    *float64 `json:"rating"`
	Reviews   *int     `json:"reviews"`
}

// ReviewCount treats a missing review count as zero.
func (l Listing) ReviewCount() int {
	if l.Reviews == nil {
		return 0
	}
	return *l.Reviews
}

// ParsedPrice returns the numeric price of the listing, if any.
func (l Listing) ParsedPrice() (float64, bool) {
	return ParsePrice(l.Price)
}

// TopByPopularity orders listings by review count, most reviewed first, and
// keeps the first n. Ties keep their original order; the input is untouched.
func TopByPopularity(listings []Listing, n int) []Listing {
	if n <= 0 {
		n = TopListingCount
	}
	ranked := make([]Listing, len(listings))
	copy(ranked, listings)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReviewCount() > ranked[j].ReviewCount()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// HighlightPrices extracts the numeric prices of ranked listings in rank
// order. Listings without a parseable price yield NaN so that ranks stay
// aligned with positions.
func HighlightPrices(ranked []Listing) []float64 {
	out := make([]float64, len(ranked))
	for i, l := range ranked {
		p, ok := l.ParsedPrice()
		if !ok {
			out[i] = nan
			continue
		}
		out[i] = p
	}
	return out
}
