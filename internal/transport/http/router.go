package http

import (
	"net/http"
	"time"

	"campusnest/internal/authn"
	"campusnest/internal/observability/middleware"
	"campusnest/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CORSOrigins        []string
	RateLimitPerMinute int // applied per IP to write endpoints; 0 disables
	RequestTimeout     time.Duration
}

type handlers struct {
	svc *service.Service
}

func NewRouter(svc *service.Service, tokens *authn.Tokens, opts Options) http.Handler {
	h := &handlers{svc: svc}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsOrAny(opts.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Trace-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimitPerMinute > 0 {
		limit = httprate.Limit(opts.RateLimitPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests. Please slow down."})
			}),
		)
	}
	requireUser := tokens.Middleware(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized. Please sign in."})
	})

	r.Route("/api", func(r chi.Router) {
		r.With(limit).Post("/auth/register", h.register)
		r.With(limit).Post("/auth/login", h.login)

		r.Get("/housing", h.listHousing)
		r.Get("/housing/export.xlsx", h.exportHousing)
		r.Get("/housing/{id}", h.getHousing)
		r.Get("/reviews", h.listReviews)

		r.Group(func(pr chi.Router) {
			pr.Use(requireUser)

			pr.Get("/me", h.me)
			pr.With(limit).Post("/housing", h.createHousing)
			pr.With(limit).Post("/reviews", h.submitReview)

			pr.Get("/favorites", h.listFavorites)
			pr.With(limit).Post("/favorites", h.addFavorite)
			pr.With(limit).Delete("/favorites", h.removeFavorite)
		})
	})

	return r
}

func originsOrAny(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
