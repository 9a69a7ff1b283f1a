package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"stylemate/internal/http/handlers"
	"stylemate/internal/infra"
	"stylemate/internal/middleware"
	"stylemate/internal/telemetry"
)

// Options carries the cross-cutting pieces the router wires around handlers.
type Options struct {
	Logger        infra.Logger
	AllowedOrigin string
	DefaultLocale string
	CountryLookup middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigin),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(opts.Logger),
	)

	r.NotFound(app.NotFound)

	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Post("/submit", app.Submit)

	r.Route("/outfits", func(r chi.Router) {
		r.Post("/start", app.OutfitsStart)
		r.Get("/status", app.OutfitsStatus)
		r.Get("/file/*", app.OutfitsFile)
	})

	return r
}
