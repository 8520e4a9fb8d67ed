package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricesnapshot/api/responses"
	"github.com/angelmondragon/pricesnapshot/api/validators"
	"github.com/angelmondragon/pricesnapshot/internal/snapshot"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
)

const (
	maxQueryLen   = 200
	maxCountryLen = 8
)

func queryFromRequest(r *http.Request, key, missing string) (snapshot.Query, error) {
	term, err := validators.RequireQuery(r, key, maxQueryLen, missing)
	if err != nil {
		return snapshot.Query{}, err
	}
	return snapshot.Query{
		Term:    term,
		Country: validators.QueryString(r, "country", maxCountryLen),
	}, nil
}

// PriceAnalysis serves the price report for ?q=&country=.
func PriceAnalysis(svc snapshot.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := queryFromRequest(r, "q", "missing search query")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithQuery(r.Context(), q.Term, q.Country)

		report, err := svc.Prices(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// KeywordData serves search demand for ?keyword=&country=.
func KeywordData(svc snapshot.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := queryFromRequest(r, "keyword", "keyword required")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithQuery(r.Context(), q.Term, q.Country)

		report, err := svc.Keyword(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

type snapshotSide struct {
	Data  any                  `json:"data,omitempty"`
	Error *responses.APIError `json:"error,omitempty"`
}

type snapshotResponse struct {
	Query   string       `json:"query"`
	Country string       `json:"country"`
	Prices  snapshotSide `json:"prices"`
	Keyword snapshotSide `json:"keyword"`
}

func sideOf[T any](data *T, err error) snapshotSide {
	if err != nil {
		payload, _ := responses.ErrorPayload(err)
		return snapshotSide{Error: &payload}
	}
	if data == nil {
		return snapshotSide{}
	}
	return snapshotSide{Data: data}
}

// Snapshot runs both lookups for ?q=&country=. A failing side is reported in
// its own error field and the response is still 200.
func Snapshot(svc snapshot.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := queryFromRequest(r, "q", "missing search query")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithQuery(r.Context(), q.Term, q.Country)

		report, err := svc.Snapshot(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse{
			Query:   report.Query,
			Country: report.Country,
			Prices:  sideOf(report.Prices, report.PricesError),
			Keyword: sideOf(report.Keyword, report.KeywordError),
		})
	}
}
