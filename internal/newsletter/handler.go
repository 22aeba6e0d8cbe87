package newsletter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
)

// Handler serves subscription endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers newsletter routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/newsletter", h.subscribe)
	r.Delete("/newsletter", h.unsubscribe)
}

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}
	locale := i18n.FromRequest(r)
	if err := h.service.Subscribe(r.Context(), req.Email, locale); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "subscribed")
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := h.service.Unsubscribe(r.Context(), email); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "unsubscribed")
}
