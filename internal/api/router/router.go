package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AlejandroPortugal/portal-agenda/internal/http/handlers"
	httpmiddleware "github.com/AlejandroPortugal/portal-agenda/internal/http/middleware"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Interviews         *handlers.InterviewsHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst for the write endpoints. Zero disables
	// limiting.
	WriteRateLimit float64
	WriteRateBurst int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/owners/{kind}/{id}/schedule", cfg.Interviews.GetSchedule)
		api.Get("/interviews", cfg.Interviews.ListByDate)
		api.Get("/guardians/{id}/interviews", cfg.Interviews.ListByGuardian)
		api.Get("/lookups/{kind}/{id}", cfg.Interviews.Lookup)

		api.Group(func(write chi.Router) {
			if cfg.WriteRateLimit > 0 {
				write.Use(httpmiddleware.RateLimit(cfg.WriteRateLimit, cfg.WriteRateBurst))
			}
			write.Post("/interviews", cfg.Interviews.Create)
			write.Patch("/interviews/{id}/status", cfg.Interviews.UpdateStatus)
		})
	})

	return r
}
