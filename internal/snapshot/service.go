package snapshot

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/angelmondragon/pricesnapshot/internal/pricing"
	"github.com/angelmondragon/pricesnapshot/pkg/dataforseo"
	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
	"github.com/angelmondragon/pricesnapshot/pkg/metrics"
	"github.com/angelmondragon/pricesnapshot/pkg/redis"
	"github.com/angelmondragon/pricesnapshot/pkg/serpapi"
)

const defaultResultLimit = serpapi.MaxResults

// ServiceParams groups dependencies for the snapshot service.
type ServiceParams struct {
	Shopping    ShoppingSearcher
	Keywords    KeywordSource
	Markets     *markets.Table
	Cache       Cache
	CacheTTL    time.Duration
	Metrics     *metrics.UpstreamMetrics
	Logger      *logger.Logger
	ResultLimit int
}

// Service fetches and shapes the price and keyword data behind a snapshot.
type Service interface {
	Prices(ctx context.Context, q Query) (*PriceReport, error)
	Keyword(ctx context.Context, q Query) (*KeywordReport, error)
	Snapshot(ctx context.Context, q Query) (*Report, error)
}

type service struct {
	shopping    ShoppingSearcher
	keywords    KeywordSource
	markets     *markets.Table
	cache       Cache
	cacheTTL    time.Duration
	metrics     *metrics.UpstreamMetrics
	logg        *logger.Logger
	resultLimit int
}

// NewService builds a snapshot service. Keywords and Cache are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Shopping == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopping searcher is required")
	}
	table := params.Markets
	if table == nil {
		table = markets.Builtin()
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	limit := params.ResultLimit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	cache := params.Cache
	if params.CacheTTL <= 0 {
		cache = nil
	}
	return &service{
		shopping:    params.Shopping,
		keywords:    params.Keywords,
		markets:     table,
		cache:       cache,
		cacheTTL:    params.CacheTTL,
		metrics:     params.Metrics,
		logg:        logg,
		resultLimit: limit,
	}, nil
}

// Prices searches shopping listings for the query and builds the price
// report. A search with no parseable price is a NO_DATA error.
func (s *service) Prices(ctx context.Context, q Query) (*PriceReport, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingInput, "missing search query")
	}
	market := s.markets.Lookup(q.Country)
	ctx = s.logg.WithUpstream(s.logg.WithQuery(ctx, term, market.Code), serpapi.UpstreamName)

	var cached PriceReport
	var key string
	if s.cache != nil {
		key = s.cache.SearchKey(market.Code, term)
		if s.readCache(ctx, key, &cached) {
			s.metrics.IncOutcome(serpapi.UpstreamName, metrics.OutcomeCacheHit)
			return &cached, nil
		}
	}

	start := time.Now()
	results, err := s.shopping.Search(ctx, serpapi.SearchRequest{
		Query:        term,
		GL:           market.GL,
		GoogleDomain: market.GoogleDomain,
		Num:          s.resultLimit,
	})
	s.metrics.ObserveDuration(serpapi.UpstreamName, time.Since(start))
	if err != nil {
		s.metrics.IncOutcome(serpapi.UpstreamName, metrics.OutcomeFailure)
		return nil, asUpstreamError(err, "failed to fetch data")
	}

	report, err := buildPriceReport(term, market, results)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNoData) {
			s.metrics.IncOutcome(serpapi.UpstreamName, metrics.OutcomeNoData)
		} else {
			s.metrics.IncOutcome(serpapi.UpstreamName, metrics.OutcomeFailure)
		}
		return nil, err
	}
	s.metrics.IncOutcome(serpapi.UpstreamName, metrics.OutcomeSuccess)
	s.logg.Debug(s.logg.WithField(ctx, "price_count", report.Count), "price report built")

	if s.cache != nil {
		s.writeCache(ctx, key, report)
	}
	return report, nil
}

func buildPriceReport(term string, market markets.Market, results []serpapi.ShoppingResult) (*PriceReport, error) {
	listings := make([]pricing.Listing, 0, len(results))
	texts := make([]string, 0, len(results))
	for _, r := range results {
		listings = append(listings, pricing.Listing{
			Title:     r.Title,
			Price:     r.Price,
			Link:      r.Link,
			Source:    r.Source,
			Thumbnail: r.Thumbnail,
			Rating:    r.Rating,
			Reviews:   r.Reviews,
		})
		texts = append(texts, r.Price)
	}

	prices := pricing.ParsePrices(texts)
	if len(prices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no valid prices found").
			WithDetails(map[string]any{"listings": len(results)})
	}
	sorted := pricing.SortedCopy(prices)

	summary, err := pricing.Summarize(sorted)
	if err != nil {
		return nil, err
	}
	top := pricing.TopByPopularity(listings, pricing.TopListingCount)
	curve, err := pricing.BuildCurve(sorted, pricing.HighlightPrices(top), pricing.CurveOptions{})
	if err != nil {
		return nil, err
	}

	return &PriceReport{
		Query:    term,
		Country:  market.Code,
		Currency: market.Currency,
		Min:      summary.Min,
		Max:      summary.Max,
		Median:   summary.Median,
		Count:    summary.Count,
		Prices:   sorted,
		TopSix:   top,
		Chart:    curve.Chart(),
	}, nil
}

// Keyword looks up search demand for the query. The keyword that matches the
// query under Unicode case folding wins; otherwise the first suggestion is
// returned with ExactMatch false.
func (s *service) Keyword(ctx context.Context, q Query) (*KeywordReport, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingInput, "keyword required")
	}
	if s.keywords == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "keyword data provider not configured")
	}
	market := s.markets.Lookup(q.Country)
	ctx = s.logg.WithUpstream(s.logg.WithQuery(ctx, term, market.Code), dataforseo.UpstreamName)

	var cached KeywordReport
	var key string
	if s.cache != nil {
		key = s.cache.KeywordKey(market.Code, term)
		if s.readCache(ctx, key, &cached) {
			s.metrics.IncOutcome(dataforseo.UpstreamName, metrics.OutcomeCacheHit)
			return &cached, nil
		}
	}

	start := time.Now()
	keywords, err := s.keywords.KeywordsForKeywords(ctx, dataforseo.KeywordRequest{
		Keyword:      term,
		LocationCode: market.LocationCode,
	})
	s.metrics.ObserveDuration(dataforseo.UpstreamName, time.Since(start))
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNoData) {
			s.metrics.IncOutcome(dataforseo.UpstreamName, metrics.OutcomeNoData)
			return nil, err
		}
		s.metrics.IncOutcome(dataforseo.UpstreamName, metrics.OutcomeFailure)
		return nil, asUpstreamError(err, "failed to fetch keyword data")
	}
	if len(keywords) == 0 {
		s.metrics.IncOutcome(dataforseo.UpstreamName, metrics.OutcomeNoData)
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no keywords found for this query")
	}
	s.metrics.IncOutcome(dataforseo.UpstreamName, metrics.OutcomeSuccess)

	report := selectKeyword(term, keywords)
	if s.cache != nil {
		s.writeCache(ctx, key, report)
	}
	return report, nil
}

func selectKeyword(term string, keywords []dataforseo.KeywordData) *KeywordReport {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(term))
	for _, k := range keywords {
		if fold.String(strings.TrimSpace(k.Keyword)) == want {
			return keywordReport(k, true)
		}
	}
	return keywordReport(keywords[0], false)
}

func keywordReport(k dataforseo.KeywordData, exact bool) *KeywordReport {
	monthly := k.MonthlySearches
	if monthly == nil {
		monthly = []dataforseo.MonthlySearch{}
	}
	return &KeywordReport{
		Keyword:            k.Keyword,
		AvgMonthlySearches: k.SearchVolume,
		Competition:        string(k.Competition),
		CPC:                k.CPC,
		MonthlySearches:    monthly,
		ExactMatch:         exact,
	}
}

// Snapshot runs the price and keyword lookups concurrently and joins them.
// Only a missing query fails the whole snapshot.
func (s *service) Snapshot(ctx context.Context, q Query) (*Report, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingInput, "missing search query")
	}
	market := s.markets.Lookup(q.Country)
	q = Query{Term: term, Country: market.Code}
	report := &Report{Query: term, Country: market.Code}

	var g errgroup.Group
	g.Go(func() error {
		report.Prices, report.PricesError = s.Prices(ctx, q)
		return nil
	})
	g.Go(func() error {
		report.Keyword, report.KeywordError = s.Keyword(ctx, q)
		return nil
	})
	_ = g.Wait()

	if report.PricesError != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", report.PricesError.Error()), "snapshot price lookup failed")
	}
	if report.KeywordError != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", report.KeywordError.Error()), "snapshot keyword lookup failed")
	}
	return report, nil
}

func (s *service) readCache(ctx context.Context, key string, dst any) bool {
	err := s.cache.GetJSON(ctx, key, dst)
	if err == nil {
		return true
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "cache read failed")
	}
	return false
}

func (s *service) writeCache(ctx context.Context, key string, v any) {
	if err := s.cache.SetJSON(ctx, key, v, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "cache write failed")
	}
}

// asUpstreamError gives upstream failures a message fit for end users and
// keeps the client error as the cause. Other typed errors pass through.
func asUpstreamError(err error, msg string) error {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeUpstream {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, msg)
}
