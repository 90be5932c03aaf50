package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"carepoint.io/care-assistant/internal/store"
)

const requestTimeout = 60 * time.Second

type HealthResponse struct {
	Status    string `json:"status"`
	AIEnabled bool   `json:"ai_enabled"`
	Polling   bool   `json:"polling"`
}

func NewRouter(h *APIHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Streams are long-lived and must not be cut by the request timeout.
		r.Group(func(r chi.Router) {
			r.Use(h.JWTAuthMiddleware)
			r.Get("/sync/{dataType}/events", h.SyncEventsHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Post("/signup", h.SignupHandler)
			r.Post("/login", h.LoginHandler)
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				respondWithJSON(w, h.logger, http.StatusOK, HealthResponse{
					Status:    "ok",
					AIEnabled: h.resolver.AIEnabled(),
					Polling:   h.notifier.Polling(),
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(h.JWTAuthMiddleware)

				r.Post("/chats", h.CreateChatHandler)
				r.Get("/chats", h.ListChatsHandler)
				r.Get("/chats/{chatID}", h.GetChatDetailsHandler)
				r.Post("/chats/{chatID}/messages", h.PostMessageHandler)
				r.Post("/messages/{messageID}/feedback", h.MessageFeedbackHandler)

				r.Route("/assistant", func(r chi.Router) {
					r.Post("/resolve", h.ResolveHandler)
					r.Post("/language", h.DetectLanguageHandler)
					r.Get("/quota", h.QuotaHandler)
				})
				r.Post("/speech/voice", h.ChooseVoiceHandler)

				r.Post("/sync/refresh", h.RefreshHandler)

				r.Get("/doctors", h.ListDoctorsHandler)
				r.Get("/doctors/{doctorID}", h.GetDoctorHandler)
				r.Group(func(r chi.Router) {
					r.Use(h.requireRole(store.RoleAdmin))
					r.Post("/doctors", h.CreateDoctorHandler)
					r.Put("/doctors/{doctorID}", h.UpdateDoctorHandler)
					r.Delete("/doctors/{doctorID}", h.DeleteDoctorHandler)
				})

				r.Post("/appointments", h.BookAppointmentHandler)

				r.Group(func(r chi.Router) {
					r.Use(h.requireRole(store.RoleDoctor, store.RoleAdmin))

					r.Get("/patients", h.ListPatientsHandler)
					r.Post("/patients", h.CreatePatientHandler)
					r.Get("/patients/{patientID}", h.GetPatientHandler)
					r.Put("/patients/{patientID}", h.UpdatePatientHandler)
					r.Delete("/patients/{patientID}", h.DeletePatientHandler)

					r.Get("/appointments", h.ListAppointmentsHandler)
					r.Get("/appointments/{appointmentID}", h.GetAppointmentHandler)
					r.Patch("/appointments/{appointmentID}", h.SetAppointmentStatusHandler)
					r.Delete("/appointments/{appointmentID}", h.DeleteAppointmentHandler)
				})
			})
		})
	})

	return r
}
