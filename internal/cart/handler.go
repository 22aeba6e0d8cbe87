package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
	"github.com/modamart/modamart/internal/shared"
)

// Handler serves the cart JSON endpoints consumed by page scripts.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart", h.addItem)
	r.Put("/cart", h.updateItem)
	r.Delete("/cart", h.removeItem)
}

type addItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	VariantID *int64 `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

type updateItemRequest struct {
	ItemID   int64 `json:"item_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gte=1"`
}

// ownerFromRequest resolves cart ownership before every operation:
// authenticated requests act on the persisted cart, everything else on
// the session cart.
func ownerFromRequest(r *http.Request) (Owner, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return Owner{}, false
	}
	if user := sess.User(); user != "" {
		if id, err := strconv.ParseInt(user, 10, 64); err == nil && id > 0 {
			return UserOwner(id), true
		}
	}
	return SessionOwner(sess.ID), true
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	view, err := h.service.List(r.Context(), owner, i18n.FromRequest(r))
	if err != nil {
		h.logger.Error("get cart", slog.Any("error", err), slog.String("owner", owner.Key()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}

	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "product_id and a quantity of at least 1 are required"})
		return
	}

	if err := h.service.Add(r.Context(), owner, req.ProductID, req.VariantID, req.Quantity); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "item added to cart")
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}

	var req updateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "item_id and a quantity of at least 1 are required"})
		return
	}

	if err := h.service.SetQuantity(r.Context(), owner, req.ItemID, req.Quantity); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "cart updated")
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromRequest(r)
	if !ok {
		httpx.RespondResultError(w, httpx.ErrValidation)
		return
	}

	itemID, err := strconv.ParseInt(r.URL.Query().Get("item_id"), 10, 64)
	if err != nil || itemID <= 0 {
		httpx.JSON(w, http.StatusBadRequest, httpx.Result{Success: false, Message: "item_id is required"})
		return
	}

	if err := h.service.Remove(r.Context(), owner, itemID); err != nil {
		httpx.RespondResultError(w, err)
		return
	}
	httpx.OK(w, "item removed from cart")
}
