package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modamart/modamart/internal/auth"
	"github.com/modamart/modamart/internal/cart"
	"github.com/modamart/modamart/internal/catalog"
	"github.com/modamart/modamart/internal/newsletter"
	"github.com/modamart/modamart/internal/shared"
	"github.com/modamart/modamart/internal/storefront"
	"github.com/modamart/modamart/internal/wishlist"
	"github.com/modamart/modamart/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	AuthHandler       *auth.Handler
	CatalogHandler    *catalog.Handler
	CartHandler       *cart.Handler
	WishlistHandler   *wishlist.Handler
	NewsletterHandler *newsletter.Handler
	StorefrontHandler *storefront.Handler
	JobHandler        *jobs.Handler
	Pool              *pgxpool.Pool
}

// NewRouter constructs the chi.Router with storefront defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		if params.StorefrontHandler != nil {
			params.StorefrontHandler.MountRoutes(api)
		}
		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(api)
		}
		if params.CartHandler != nil {
			params.CartHandler.MountRoutes(api)
		}
		if params.WishlistHandler != nil {
			params.WishlistHandler.MountRoutes(api)
		}
		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(api)
		}
		if params.NewsletterHandler != nil {
			params.NewsletterHandler.MountRoutes(api)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(jr chi.Router) {
			params.JobHandler.MountRoutes(jr)
		})
	}

	return r
}
