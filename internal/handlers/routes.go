package handlers

import (
	"net/http"

	"inquiry_service/internal/auth"
	"inquiry_service/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Inquiries *InquiryHandler
	Process   *ProcessHandler
	Responses *ResponseHandler
	Employees *EmployeeHandler
	Voice     *VoiceHandler
	Profile   *ProfileHandler
}

// NewRouter builds the full HTTP surface. The inquiry submission endpoint and
// the processing trigger are public (the trigger is idempotent); everything
// else sits behind the JWT middleware.
func NewRouter(h Handlers, verifier *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// public
		r.Post("/inquiries", h.Inquiries.Create)
		r.Get("/process-inquiries", h.Process.Run)
		r.Post("/process-inquiries", h.Process.Run)
		r.Get("/process-inquiries/health", h.Process.Health)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(verifier.Middleware)

			r.Get("/inquiries", h.Inquiries.List)
			r.Get("/inquiries/{id}", h.Inquiries.Get)
			r.Put("/inquiries/{id}", h.Inquiries.Update)

			r.Post("/send-inquiry-response", h.Responses.Send)
			r.With(auth.RequireAdmin).Post("/employees", h.Employees.Create)
			r.Post("/voice-commands", h.Voice.Execute)

			r.Get("/profile", h.Profile.Get)
			r.Put("/profile", h.Profile.Update)
		})
	})

	return r
}
