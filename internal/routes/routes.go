package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"accountd/internal/config"
	appmw "accountd/internal/middleware"
)

func SetupRoutes(db *sql.DB, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.RequestLogger(log.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeStatusJSON(w, http.StatusOK, map[string]any{"message": "accountd up"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		overall := "ok"
		dbStatus := map[string]any{"status": "ok"}
		status := http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			overall = "degraded"
			dbStatus["status"] = "error"
			dbStatus["error"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		writeStatusJSON(w, status, map[string]any{"status": overall, "db": dbStatus})
	})

	RegisterAuthRoutes(r, db, cfg)
	RegisterAccountRoutes(r, db, cfg)

	return r
}

func writeStatusJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
