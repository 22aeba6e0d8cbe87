package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/modamart/modamart/internal/i18n"
	"github.com/modamart/modamart/internal/platform/httpx"
	"github.com/modamart/modamart/jobs"
)

// Mailer enqueues confirmation mail.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error)
}

// Service wraps subscription business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	mail   Mailer
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo Repository, mail Mailer) *Service {
	return &Service{logger: logger, repo: repo, mail: mail}
}

var confirmationSubjects = map[i18n.Locale]string{
	i18n.LocaleDE: "Newsletter-Anmeldung bestätigt",
	i18n.LocaleEN: "Newsletter subscription confirmed",
	i18n.LocaleAR: "تم تأكيد الاشتراك في النشرة البريدية",
}

// Subscribe registers an email address. Subscribing an address that is
// already on the list succeeds silently and sends no second mail.
func (s *Service) Subscribe(ctx context.Context, email string, locale i18n.Locale) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", httpx.ErrValidation)
	}

	if err := s.repo.Subscribe(ctx, email, string(locale)); err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil
		}
		return err
	}

	if s.mail != nil {
		payload := jobs.SendEmailPayload{
			To:      email,
			Subject: confirmationSubjects[locale],
			Body:    "newsletter-confirmation",
			Locale:  string(locale),
		}
		if _, err := s.mail.EnqueueSendEmail(ctx, payload); err != nil {
			s.logger.Warn("enqueue confirmation mail", slog.Any("error", err), slog.String("email", email))
		}
	}
	return nil
}

// Unsubscribe removes an address from the list.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("%w: email required", httpx.ErrValidation)
	}
	return s.repo.Unsubscribe(ctx, email)
}
