// Package web renders the embeddable snapshot page.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/angelmondragon/pricesnapshot/internal/snapshot"
	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is everything the index template reads.
type PageData struct {
	Query        string
	Market       markets.Market
	Markets      []markets.Market
	Error        string
	Prices       *snapshot.PriceReport
	Chart        *ChartView
	Keyword      *snapshot.KeywordReport
	KeywordError string
}

// Searched reports whether the page shows results for a query.
func (p PageData) Searched() bool {
	return p.Query != ""
}

// NewPageData builds the view model for a query. report may be nil when no
// search was run.
func NewPageData(table *markets.Table, country string, report *snapshot.Report) PageData {
	market := table.Lookup(country)
	data := PageData{
		Market:  market,
		Markets: table.All(),
	}
	if report == nil {
		return data
	}

	data.Query = report.Query
	if report.PricesError != nil {
		data.Error = pkgerrors.PublicMessage(report.PricesError)
	}
	if report.Prices != nil {
		data.Prices = report.Prices
		data.Chart = BuildChart(report.Prices.Chart, table.SymbolFor(report.Prices.Currency), report.Prices.Currency)
	}
	if report.KeywordError != nil {
		data.KeywordError = pkgerrors.PublicMessage(report.KeywordError)
	}
	data.Keyword = report.Keyword
	return data
}

// Renderer executes the page template.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"formatPrice":         FormatPrice,
		"formatOptionalPrice": formatOptionalPrice,
		"possessive":          Possessive,
		"formatCount":         FormatCount,
		"formatOptionalCount": formatOptionalCount,
		"formatRating":        formatRating,
		"inc":                 func(i int) int { return i + 1 },
		"monthLabel":          monthLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page only once the template has executed completely.
func (r *Renderer) Render(w io.Writer, data PageData) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render page")
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and embed script.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthLabel(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}
