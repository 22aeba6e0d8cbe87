package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for transactional storefront mail
	// (welcome mail, newsletter confirmations).
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Locale  string `json:"locale,omitempty"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SendFunc delivers a single email. The worker wires an SMTP-backed
// implementation; tests pass a recording stub.
type SendFunc func(ctx context.Context, payload SendEmailPayload) error

// NewSendEmailHandler returns the Asynq handler for TaskTypeSendEmail.
// A nil send function logs the mail instead of delivering it, which is
// the behavior in development without an SMTP relay.
func NewSendEmailHandler(logger *slog.Logger, send SendFunc) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if send == nil {
			logger.Info("send email",
				slog.String("to", payload.To),
				slog.String("subject", payload.Subject),
				slog.String("locale", payload.Locale))
			return nil
		}
		if err := send(ctx, payload); err != nil {
			logger.Error("send email", slog.Any("error", err), slog.String("to", payload.To))
			return err
		}
		return nil
	}
}
