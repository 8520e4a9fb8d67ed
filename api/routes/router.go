package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pricesnapshot/api/controllers"
	"github.com/angelmondragon/pricesnapshot/api/middleware"
	"github.com/angelmondragon/pricesnapshot/api/responses"
	"github.com/angelmondragon/pricesnapshot/internal/snapshot"
	"github.com/angelmondragon/pricesnapshot/internal/web"
	"github.com/angelmondragon/pricesnapshot/pkg/config"
	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
	"github.com/angelmondragon/pricesnapshot/pkg/logger"
	"github.com/angelmondragon/pricesnapshot/pkg/markets"
)

// Dependencies are the collaborators the router hands to controllers.
// Gatherer and Ready are optional.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Service  snapshot.Service
	Markets  *markets.Table
	Renderer controllers.PageRenderer
	Gatherer prometheus.Gatherer
	Ready    map[string]controllers.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger
	table := deps.Markets
	if table == nil {
		table = markets.Builtin()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.FrameAncestors(cfg.Embed),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodInvalid, "method not allowed"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.Embed))
		r.Get("/analyse-prices", controllers.PriceAnalysis(deps.Service, logg))
		r.Get("/keyword-data", controllers.KeywordData(deps.Service, logg))
		r.Get("/snapshot", controllers.Snapshot(deps.Service, logg))
		r.Post("/price-curve", controllers.PriceCurve(logg))
		r.Get("/markets", controllers.Markets(table))
	})

	r.Handle("/static/*", http.StripPrefix("/static", web.Static()))
	r.Get("/", controllers.Home(deps.Renderer, deps.Service, table, logg))

	return r
}
