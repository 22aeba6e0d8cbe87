package storefront

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Handler serves the aggregated home page.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers storefront routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/home", h.home)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	locale := i18n.FromRequest(r)
	view, err := h.service.Home(r.Context(), locale)
	if err != nil {
		h.logger.Error("home page", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}
