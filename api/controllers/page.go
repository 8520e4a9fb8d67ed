package controllers

import (
	"io"
	"net/http"

	"github.com/angelmondragon/pricesnapshot/api/responses"
	"github.com/angelmondragon/pricesnapshot/api/validators"
	"github.com/angelmondragon/pricesnapshot/internal/snapshot"
	"github.com/angelmondragon/pricesnapshot/internal/web"
	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
)

type PageRenderer interface {
	Render(w io.Writer, data web.PageData) error
}

// Home renders the snapshot page. Without ?q= it shows the empty form.
func Home(renderer PageRenderer, svc snapshot.Service, table *markets.Table, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		term := validators.QueryString(r, "q", maxQueryLen)
		country := validators.QueryString(r, "country", maxCountryLen)

		data := web.NewPageData(table, country, nil)
		if term != "" {
			ctx = logg.WithQuery(ctx, term, country)
			report, err := svc.Snapshot(ctx, snapshot.Query{Term: term, Country: country})
			if err != nil {
				responses.LogError(ctx, logg, err)
				data.Query = term
				data.Error = pkgerrors.PublicMessage(err)
			} else {
				data = web.NewPageData(table, report.Country, report)
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := renderer.Render(w, data); err != nil {
			responses.WriteError(ctx, logg, w, err)
		}
	}
}
