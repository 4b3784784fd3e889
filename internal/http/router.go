package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mwestbrook/signoff/internal/http/events"
	"github.com/mwestbrook/signoff/internal/http/transfer"
	"github.com/mwestbrook/signoff/internal/http/user"
)

func New(
	jwtSecret string,
	resolver ViewerResolver,
	transfersV1 *transfer.Handler,
	usersV1 *user.Handler,
	eventsV1 *events.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(Authentication(jwtSecret, resolver))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transfersV1.Routes(r)
		})

		r.Route("/approvals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transfersV1.ApprovalRoutes(r)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			usersV1.Routes(r)
		})

		r.Route("/metrics", usersV1.MetricsRoutes)

		r.Route("/events", eventsV1.Routes)
	})

	return router
}
