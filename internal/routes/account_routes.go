package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"accountd/internal/config"
	"accountd/internal/handlers"
	appmw "accountd/internal/middleware"
	"accountd/internal/repository"
)

func RegisterAccountRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	userHandler := handlers.NewUserHandler(repository.NewUserRepository(db))

	router.Group(func(r chi.Router) {
		r.Use(appmw.JWTAuth(cfg.JWTSecret))
		r.Get("/me", userHandler.Me)
	})
}
