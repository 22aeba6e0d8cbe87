package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"

	"github.com/modamart/modamart/internal/platform/httpx"
	"github.com/modamart/modamart/internal/shared"
	"github.com/modamart/modamart/jobs"
)

// CartMerger reconciles a guest cart into the user cart at login.
type CartMerger interface {
	Merge(ctx context.Context, sessionID string, userID int64) error
}

// WishlistAdopter moves a guest wishlist into the account at login.
type WishlistAdopter interface {
	Adopt(ctx context.Context, sessionID string, userID int64) error
}

// Mailer enqueues transactional mail.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// Handler serves registration, login and logout.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	cart     CartMerger
	wishlist WishlistAdopter
	mail     Mailer
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, cart CartMerger, wishlist WishlistAdopter, mail Mailer) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		cart:     cart,
		wishlist: wishlist,
		mail:     mail,
		validate: validator.New(),
	}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email, name and a password of at least 8 characters are required")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.adoptGuestState(r, user.ID)

	if h.mail != nil {
		payload := jobs.SendEmailPayload{
			To:      user.Email,
			Subject: "Willkommen bei ModaMart",
			Body:    "welcome",
			Locale:  string(user.Locale),
		}
		if _, err := h.mail.EnqueueSendEmail(r.Context(), payload); err != nil {
			h.logger.Warn("enqueue welcome mail", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.adoptGuestState(r, user.ID)

	httpx.JSON(w, http.StatusOK, user)
}

// adoptGuestState promotes the session and reconciles guest cart and
// wishlist into the account. Reconciliation failures are logged, not
// fatal: losing a merge is better than blocking a login.
func (h *Handler) adoptGuestState(r *http.Request, userID int64) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return
	}
	sessionID := sess.ID
	sess.SetUser(strconv.FormatInt(userID, 10))

	if h.cart != nil {
		if err := h.cart.Merge(r.Context(), sessionID, userID); err != nil {
			h.logger.Error("merge guest cart", slog.Any("error", err), slog.Int64("user_id", userID))
		}
	}
	if h.wishlist != nil {
		if err := h.wishlist.Adopt(r.Context(), sessionID, userID); err != nil {
			h.logger.Error("adopt guest wishlist", slog.Any("error", err), slog.Int64("user_id", userID))
		}
	}
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	httpx.OK(w, "logged out")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
