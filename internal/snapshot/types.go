package snapshot

import (
	"context"
	"time"

	"github.com/angelmondragon/pricesnapshot/internal/pricing"
	"github.com/angelmondragon/pricesnapshot/pkg/dataforseo"
	"github.com/angelmondragon/pricesnapshot/pkg/serpapi"
)

// Query is a search term in a market. An unknown or empty Country resolves
// to the default market.
type Query struct {
	Term    string
	Country string
}

// PriceReport summarizes the shopping listings found for a query.
type PriceReport struct {
	Query    string            `json:"query"`
	Country  string            `json:"country"`
	Currency string            `json:"currency"`
	Min      float64           `json:"min"`
	Max      float64           `json:"max"`
	Median   float64           `json:"median"`
	Count    int               `json:"count"`
	Prices   []float64         `json:"prices"`
	TopSix   []pricing.Listing `json:"top_six"`
	Chart    pricing.ChartData `json:"chart"`
}

// KeywordReport is the search demand of the keyword closest to the query.
type KeywordReport struct {
	Keyword            string                     `json:"keyword"`
	AvgMonthlySearches *int                       `json:"avg_monthly_searches"`
	Competition        string                     `json:"competition"`
	CPC                *float64                   `json:"cpc"`
	MonthlySearches    []dataforseo.MonthlySearch `json:"monthly_searches"`
	ExactMatch         bool                       `json:"exact_match"`
}

// Report joins both lookups for one query. Each side carries its own error
// so that one failing upstream never hides the other's result.
type Report struct {
	Query        string
	Country      string
	Prices       *PriceReport
	PricesError  error
	Keyword      *KeywordReport
	KeywordError error
}

// ShoppingSearcher runs shopping searches.
type ShoppingSearcher interface {
	Search(ctx context.Context, req serpapi.SearchRequest) ([]serpapi.ShoppingResult, error)
}

// KeywordSource returns keyword ideas for a seed keyword.
type KeywordSource interface {
	KeywordsForKeywords(ctx context.Context, req dataforseo.KeywordRequest) ([]dataforseo.KeywordData, error)
}

// Cache stores finished reports for a bounded time.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	SearchKey(market, query string) string
	KeywordKey(market, keyword string) string
}
