package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mbertho/judoclub/internal/middleware"
)

// SetupRouter configures the HTTP routes and middleware of the club
// management API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Get("/seasons/active", h.ActiveSeason)
		r.Get("/categories", h.ListCategories)

		r.Post("/payments/webhook", h.PaymentWebhook)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/family", h.FamilyDashboard)

			r.Post("/members", h.CreateMember)
			r.Get("/members", h.ListMembers)
			r.Get("/members/{id}", h.GetMember)

			r.Post("/registrations", h.CreateRegistration)
			r.Get("/registrations/{id}/price", h.RegistrationPrice)

			r.Get("/invoices", h.ListInvoices)
			r.Get("/invoices/{id}", h.GetInvoice)
			r.Get("/invoices/{id}/pdf", h.InvoicePDF)

			r.Post("/payments/checkout", h.CreateCheckoutSession)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.RequireStaff)

				r.Post("/seasons", h.CreateSeason)
				r.Get("/seasons", h.ListSeasons)
				r.Post("/seasons/{id}/activate", h.ActivateSeason)

				r.Post("/categories", h.CreateCategory)

				r.Get("/registrations", h.ListRegistrations)
				r.Get("/registrations/export", h.ExportRegistrations)
				r.Patch("/registrations/{id}", h.UpdateRegistration)
				r.Post("/registrations/{id}/validate", h.ValidateRegistration)
				r.Post("/registrations/{id}/reject", h.RejectRegistration)
				r.Delete("/registrations/{id}", h.DeleteRegistration)

				r.Post("/invoices", h.CreateInvoice)

				r.Get("/stats", h.Stats)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
