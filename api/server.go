package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant-site/config"
	"restaurant-site/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// Server is the JSON API of the site.
type Server struct {
	cfg          config.HTTPConfig
	catalog      *services.Catalog
	reservations *services.Reservations
	metrics      *Metrics
	limiter      *rate.Limiter
	handler      http.Handler
	now          func() time.Time
}

func NewServer(cfg config.HTTPConfig, catalog *services.Catalog, reservations *services.Reservations, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	burst := cfg.ReservationBurst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(cfg.ReservationRPS)
	if cfg.ReservationRPS <= 0 {
		limit = rate.Inf
	}
	s := &Server{
		cfg:          cfg,
		catalog:      catalog,
		reservations: reservations,
		metrics:      metrics,
		limiter:      rate.NewLimiter(limit, burst),
		now:          time.Now,
	}
	s.handler = s.corsMiddleware(s.routes())
	return s
}

// Handler returns the routed API with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(requestLoggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(timeoutMiddleware)

	r.HandleFunc("/health", s.health()).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	menu := &menuHandler{catalog: s.catalog}
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/categories", menu.ListCategories()).Methods(http.MethodGet)
	api.HandleFunc("/categories", menu.CreateCategory()).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id:[0-9]+}/items", menu.ListItems()).Methods(http.MethodGet)
	api.HandleFunc("/items", menu.CreateItem()).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}", menu.GetItem()).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", menu.UpdateItem()).Methods(http.MethodPatch)
	api.HandleFunc("/specials", menu.ListSpecials()).Methods(http.MethodGet)

	res := &reservationHandler{reservations: s.reservations, metrics: s.metrics}
	api.Handle("/reservations", rateLimited(s.limiter, res.Create())).Methods(http.MethodPost)
	api.HandleFunc("/reservations", res.ListForDate()).Methods(http.MethodGet)
	api.HandleFunc("/reservations/slots", res.Slots()).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id:[0-9]+}/status", res.UpdateStatus()).Methods(http.MethodPatch)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		jsonError(w, http.StatusNotFound, errNotFound)
	})
	return r
}

func (s *Server) health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": s.now().UTC().Format(time.RFC3339),
		})
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("action", "server_started").Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("action", "graceful_shutdown_started").Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Str("action", "graceful_shutdown_completed").Msg("HTTP server shut down gracefully")
	return <-errCh
}
