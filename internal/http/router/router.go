package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"corporate-checkout/internal/http/handlers"
)

// Extras carries optional cross-cutting pieces. Nil fields are skipped.
type Extras struct {
	Observability func(http.Handler) http.Handler
	RateLimit     func(http.Handler) http.Handler
	Metrics       http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h *handlers.Handlers, ch *handlers.CheckoutHandler, vh *handlers.VendorHandler, ex Extras) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if ex.Observability != nil {
		r.Use(ex.Observability)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/ping", h.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.HealthcheckHead))
	r.Get("/healthcheck", h.Healthcheck)
	if ex.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", ex.Metrics)
	}

	r.Group(func(r chi.Router) {
		if ex.RateLimit != nil {
			r.Use(ex.RateLimit)
		}
		r.Get("/vendors", vh.List)

		r.Route("/checkouts", func(r chi.Router) {
			r.Post("/", ch.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ch.Get)
				r.Patch("/", ch.Update)
				r.Put("/proof/{proofType}", ch.SetProof)
				r.Post("/attachments", ch.AddAttachment)
				r.Delete("/attachments/{name}", ch.RemoveAttachment)
				r.Put("/step", ch.SetStep)
				r.Post("/submit", ch.Submit)
				r.Post("/reset", ch.Reset)
				r.Post("/program/provision", ch.ProvisionProgram)
			})
		})
	})

	r.NotFound(http.HandlerFunc(h.NotFound))

	return r
}
