package handlers

import (
	"net/http"

	"takatrack-backend/internal/middleware"
	"takatrack-backend/internal/services"
	"takatrack-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services and settings the HTTP API is built from.
type Dependencies struct {
	Auth      *services.AuthService
	Waste     *services.WasteService
	Recycling *services.RecyclingService
	Dashboard *services.DashboardService

	// Hub is optional; without it /ws is not mounted.
	Hub *websocket.Hub

	AuthOptions    middleware.AuthOptions
	AllowedOrigins []string
}

func NewRouter(d Dependencies) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if d.Hub != nil {
		r.Get("/ws", websocket.HandleWebSocket(d.Hub, d.Auth, d.AuthOptions))
	}

	requireAuth := middleware.Auth(d.Auth, d.AuthOptions)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/health", Health())
		r.Post("/auth/register", Register(d.Auth))
		r.Post("/auth/login", Login(d.Auth))
		r.Get("/notifications", GetNotifications(d.Dashboard))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", GetCurrentUser(d.Auth))

			r.Get("/dashboard/stats", GetDashboardStats(d.Dashboard))
			r.Get("/drivers", GetDrivers(d.Dashboard))
			r.Post("/notifications/devices", RegisterDevice(d.Dashboard))

			r.Get("/waste/bins", GetBins(d.Waste))
			r.Get("/waste/collections", GetCollections(d.Waste))
			r.Post("/waste/collections", CreateCollection(d.Waste))
			r.Put("/waste/collections/{id}", UpdateCollection(d.Waste))

			r.Get("/recycling/records", GetRecyclingRecords(d.Recycling))
			r.Post("/recycling/records", CreateRecyclingRecord(d.Recycling))
			r.Get("/recycling/stats", GetRecyclingStats(d.Recycling))
		})
	})

	return r
}
