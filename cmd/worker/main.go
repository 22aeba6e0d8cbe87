package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/modamart/modamart/internal/app"
	"github.com/modamart/modamart/jobs"
)

// smtpSender delivers mail through the relay named in the configuration,
// Mailpit in development.
func smtpSender(cfg *app.Config) jobs.SendFunc {
	if cfg.SMTPHost == "" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	return func(_ context.Context, payload jobs.SendEmailPayload) error {
		var msg strings.Builder
		msg.WriteString("From: " + cfg.SMTPFrom + "\r\n")
		msg.WriteString("To: " + payload.To + "\r\n")
		msg.WriteString("Subject: " + payload.Subject + "\r\n")
		msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
		msg.WriteString(payload.Body)
		return smtp.SendMail(addr, nil, cfg.SMTPFrom, []string{payload.To}, []byte(msg.String()))
	}
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		SendMail:  smtpSender(cfg),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
