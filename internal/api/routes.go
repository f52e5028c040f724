package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sandboxsec/awaretrack/internal/auth"
)

// SetupRoutes configures all API routes. /log and the health check
// are public; everything under /api requires a bearer token.
func SetupRoutes(h *Handlers, authManager *auth.Manager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	// Tracking ingestion stays public: phished recipients carry no
	// credentials.
	r.Post("/log", h.LogClick)

	r.Post("/auth/signin", h.SignIn)
	r.Post("/auth/logout", h.SignOut)

	r.Route("/api", func(r chi.Router) {
		if authManager != nil {
			r.Use(authManager.Middleware)
		}

		r.Get("/auth/verify", h.VerifySession)

		r.Get("/clicks", h.ListClicks)
		r.Post("/clicks/pending", h.InsertPendingClicks)
		r.Delete("/clicks/{id}", h.DeleteClick)
		r.Delete("/clicks", h.ClearClicks)

		r.Get("/stats/departments", h.DeptStats)
		r.Get("/stats/browsers", h.BrowserStats)

		r.Post("/send-emails", h.SendEmails)

		r.Get("/email-config", h.GetMailConfig)
		r.Post("/email-config", h.SaveMailConfig)
		r.Post("/email-config/test", h.TestMailConfig)

		r.Get("/campaigns", h.ListCampaigns)
		r.Post("/campaigns", h.CreateCampaign)
		r.Put("/campaigns/{id}/status", h.UpdateCampaignStatus)
		r.Delete("/campaigns/{id}", h.DeleteCampaign)

		r.Get("/templates", h.ListTemplates)
		r.Post("/templates", h.CreateTemplate)
		r.Put("/templates/{id}", h.UpdateTemplate)
		r.Delete("/templates/{id}", h.DeleteTemplate)

		r.Get("/employees", h.ListEmployees)
		r.Post("/employees", h.CreateEmployee)
		r.Delete("/employees/{id}", h.DeleteEmployee)
	})

	return r
}
