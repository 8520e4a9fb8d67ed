package pricing

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTopByPopularityStableDescending(t *testing.T) {
	listings := []Listing{
		{Title: "five", Reviews: intPtr(5)},
		{Title: "none"},
		{Title: "twenty-a", Reviews: intPtr(20)},
		{Title: "twenty-b", Reviews: intPtr(20)},
	}

	ranked := TopByPopularity(listings, 6)

	titles := make([]string, len(ranked))
	for i, l := range ranked {
		titles[i] = l.Title
	}
	assert.Equal(t, []string{"twenty-a", "twenty-b", "five", "none"}, titles)
	assert.Equal(t, "five", listings[0].Title, "input must not be reordered")
}

func TestTopByPopularityTruncates(t *testing.T) {
	listings := make([]Listing, 10)
	for i := range listings {
		listings[i] = Listing{Title: string(rune('a' + i)), Reviews: intPtr(i)}
	}

	ranked := TopByPopularity(listings, 0)
	require.Len(t, ranked, TopListingCount)
	assert.Equal(t, "j", ranked[0].Title)
	assert.Equal(t, "e", ranked[5].Title)

	assert.Len(t, TopByPopularity(listings, 3), 3)
	assert.Empty(t, TopByPopularity(nil, 6))
}

func TestHighlightPricesKeepsRankAlignment(t *testing.T) {
	ranked := []Listing{
		{Price: "$10.00"},
		{Price: "call for price"},
		{Price: "A$1,250.50"},
	}
	got := HighlightPrices(ranked)
	require.Len(t, got, 3)
	assert.Equal(t, 10.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, 1250.5, got[2])
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "$24.99", want: 24.99, ok: true},
		{in: "A$1,299.00", want: 1299, ok: true},
		{in: "£8", want: 8, ok: true},
		{in: "1.299.00", want: 1.299, ok: true},
		{in: "$.50", want: 0.5, ok: true},
		{in: "12. now", want: 12, ok: true},
		{in: "$" + strings.Repeat("9", 400), ok: false},
		{in: "free", ok: false},
		{in: ".", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}

func TestParsePricesFiltersUnparseable(t *testing.T) {
	got := ParsePrices([]string{"$5", "n/a", "$7.25"})
	assert.Equal(t, []float64{5, 7.25}, got)
}
