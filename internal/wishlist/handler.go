package wishlist

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
	"github.com/modamart/modamart/internal/shared"
)

// Handler serves the wishlist JSON endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers wishlist routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/wishlist", h.list)
	r.Post("/wishlist", h.add)
	r.Delete("/wishlist", h.remove)
}

func ownerFromRequest(r *http.Request) (Owner, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return Owner{}, false
	}
	if user := sess.User(); user != "" {
		if id, err := strconv.ParseInt(user, 10, 64); err == nil && id > 0 {
			return Owner{UserID: id}, true
		}
	}
	return Owner{SessionID: sess.ID}, true
}

type addRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	items, err := h.service.List(r.Context(), owner, i18n.FromRequest(r))
	if err != nil {
		h.logger.Error("list wishlist", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}

	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.ProductID <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "product_id is required"})
		return
	}

	if err := h.service.Add(r.Context(), owner, req.ProductID); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "item added to wishlist")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}

	productID, err := strconv.ParseInt(r.URL.Query().Get("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "product_id is required"})
		return
	}

	if err := h.service.Remove(r.Context(), owner, productID); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "item removed from wishlist")
}
