package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricesnapshot/api/responses"
	"github.com/angelmondragon/pricesnapshot/api/validators"
	"github.com/angelmondragon/pricesnapshot/internal/pricing"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
)

type PriceCurveBody struct {
	Prices          []float64 `json:"prices" validate:"max=1000"`
	HighlightPrices []float64 `json:"highlight_prices" validate:"max=50"`
	Resolution      int       `json:"resolution" validate:"omitempty,gte=2,lte=1000"`
	Bandwidth       float64   `json:"bandwidth" validate:"omitempty,gt=0,lte=10"`
}

type priceCurveResponse struct {
	Summary pricing.Summary   `json:"summary"`
	Curve   *pricing.Curve    `json:"curve"`
	Chart   pricing.ChartData `json:"chart"`
}

// PriceCurve computes an annotated density curve for caller-supplied prices.
func PriceCurve(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body PriceCurveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := pricing.Summarize(body.Prices)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		curve, err := pricing.BuildCurve(body.Prices, body.HighlightPrices, pricing.CurveOptions{
			Resolution: body.Resolution,
			Bandwidth:  body.Bandwidth,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceCurveResponse{
			Summary: summary,
			Curve:   curve,
			Chart:   curve.Chart(),
		})
	}
}
