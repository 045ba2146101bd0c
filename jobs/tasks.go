package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/nyasinga/aylfwebsite/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypePublishDue is the task type for publishing scheduled blog posts.
	TaskTypePublishDue = "blog:publish_due"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SMTPConfig points the mail handler at an SMTP relay.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// SendEmailHandler returns the handler for TaskTypeSendEmail tasks.
func SendEmailHandler(cfg SMTPConfig, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskTypeSendEmail)
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(fmt.Errorf("decode mail payload: %v: %w", err, asynq.SkipRetry))
		}
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
			cfg.From, payload.To, payload.Subject, payload.Body)
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		if err := smtp.SendMail(addr, nil, cfg.From, []string{payload.To}, []byte(msg)); err != nil {
			return tracker.End(fmt.Errorf("send mail to %s: %w", payload.To, err))
		}
		if logger != nil {
			logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
		}
		return tracker.End(nil)
	}
}

// NewPublishDueTask constructs the scheduled-publish task.
func NewPublishDueTask() *asynq.Task {
	return asynq.NewTask(TaskTypePublishDue, nil)
}

// Publisher flips scheduled drafts whose publish time has passed.
type Publisher interface {
	PublishDue(ctx context.Context) (int, error)
}

// PublishDueHandler returns the handler for TaskTypePublishDue tasks.
func PublishDueHandler(publisher Publisher, logger *slog.Logger) asynq.HandlerFunc {
	metrics := jobmetrics.NewMetrics(nil)
	return func(ctx context.Context, _ *asynq.Task) error {
		tracker := metrics.Track(TaskTypePublishDue)
		count, err := publisher.PublishDue(ctx)
		if err != nil {
			return tracker.End(fmt.Errorf("publish due posts: %w", err))
		}
		if count > 0 && logger != nil {
			logger.Info("published scheduled posts", slog.Int("count", count))
		}
		return tracker.End(nil)
	}
}
