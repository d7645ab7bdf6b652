package rest

import (
	"database/sql"
	"log/slog"
	"strings"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/enviohq/envio-backend/internal/auth"
	"github.com/enviohq/envio-backend/internal/catalog"
	"github.com/enviohq/envio-backend/internal/collection"
	"github.com/enviohq/envio-backend/internal/dashboard"
	"github.com/enviohq/envio-backend/internal/document"
	"github.com/enviohq/envio-backend/internal/invoice"
	"github.com/enviohq/envio-backend/internal/manifest"
	"github.com/enviohq/envio-backend/internal/storage"
	"github.com/enviohq/envio-backend/internal/subscription"
	"github.com/enviohq/envio-backend/internal/transport/middleware"
	"github.com/enviohq/envio-backend/internal/user"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Catalog      *catalog.Handler
	Subscription *subscription.Handler
	Invoice      *invoice.Handler
	Collection   *collection.Handler
	Manifest     *manifest.Handler
	Document     *document.Handler
	Dashboard    *dashboard.Handler
	Upload       *storage.Handler
}

// RegisterAllRoutes mounts the API under /api/v1. Route groups encode the
// role policy: /admin requires admin_keuangan or superadmin, /superadmin
// requires superadmin. Ownership checks stay in the services.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	router.Use(middleware.CORS(origins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// authenticated routes
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/user/profile", h.User.GetProfile)

			pr.Post("/uploads", h.Upload.Upload)

			pr.Get("/dashboard/user", h.Dashboard.UserDashboard)
			pr.With(h.Auth.RequireRoles(auth.AdminRoles...)).
				Get("/dashboard/admin", h.Dashboard.AdminDashboard)
			pr.With(h.Auth.RequireRoles(auth.SuperadminRoles...)).
				Get("/dashboard/superadmin", h.Dashboard.SuperadminDashboard)

			pr.Get("/services", h.Catalog.ListLayanan)
			pr.Get("/services/{id}", h.Catalog.GetLayanan)

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Post("/", h.Subscription.CreateTransaksi)
				tr.Get("/", h.Subscription.ListTransaksi)
				tr.Get("/{id}", h.Subscription.GetTransaksi)
				tr.Post("/{id}/payment-evidence", h.Subscription.AttachPaymentEvidence)
				tr.Patch("/{id}/cancel", h.Subscription.Cancel)
			})

			pr.Route("/invoices", func(ir chi.Router) {
				ir.Post("/", h.Invoice.CreateInvoice)
				ir.Get("/", h.Invoice.ListInvoices)
				ir.Get("/{id}", h.Invoice.GetInvoice)
				ir.Patch("/{id}", h.Invoice.UpdateAmounts)
				ir.Post("/{id}/pay", h.Invoice.Pay)
			})

			pr.Route("/waste-collection", func(cr chi.Router) {
				cr.Post("/", h.Collection.CreatePengangkutan)
				cr.Get("/", h.Collection.ListPengangkutan)
				cr.Get("/{id}", h.Collection.GetPengangkutan)
				cr.Patch("/{id}/status", h.Collection.UpdateStatus)
			})

			pr.Route("/manifests", func(mr chi.Router) {
				mr.Post("/", h.Manifest.CreateManifest)
				mr.Get("/", h.Manifest.ListManifests)
				mr.Get("/{id}", h.Manifest.GetManifest)
				mr.Patch("/{id}/submit", h.Manifest.Submit)
				mr.Patch("/{id}/complete", h.Manifest.Complete)
				mr.With(h.Auth.RequireRoles(auth.SuperadminRoles...)).
					Patch("/{id}/decision", h.Manifest.Decide)
			})

			pr.Route("/documents", func(dr chi.Router) {
				dr.Post("/", h.Document.CreateDokumen)
				dr.Get("/", h.Document.ListDokumen)
				dr.Get("/{id}", h.Document.GetDokumen)
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Use(h.Auth.RequireRoles(auth.AdminRoles...))

				ar.Patch("/transactions/{id}/activate", h.Subscription.Activate)
				ar.Patch("/transactions/{id}/complete", h.Subscription.Complete)
				ar.Post("/invoices/sweep-overdue", h.Invoice.SweepOverdue)
				ar.Post("/services", h.Catalog.CreateLayanan)
			})

			pr.Route("/superadmin", func(sr chi.Router) {
				sr.Use(h.Auth.RequireRoles(auth.SuperadminRoles...))

				sr.Delete("/users/{id}", h.User.DeleteUser)
				sr.Delete("/services/{id}", h.Catalog.DeleteLayanan)
			})
		})
	})
}
