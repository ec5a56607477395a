package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/softsell/softsell/internal/jobs"
	"github.com/softsell/softsell/internal/mailer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskContactPurge removes leads past their retention window.
	TaskContactPurge = "contact:purge"
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
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}

// SendEmailJob delivers queued e-mails through a mailer.Sender.
type SendEmailJob struct {
	Sender  mailer.Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskTypeSendEmail tasks.
func (j *SendEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sender == nil {
		return errors.New("send email: sender not configured")
	}
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.To == "" {
		j.log().Warn("discarding malformed email task", slog.Any("error", err))
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskTypeSendEmail)
	err := j.Sender.Send(ctx, mailer.Message{
		To:      []string{payload.To},
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	if err != nil {
		j.log().Error("send email", slog.String("subject", payload.Subject), slog.Any("error", err))
	}
	return tracker.End(err)
}

func (j *SendEmailJob) log() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}

// MinLeadRetention is the shortest retention window a purge run accepts.
const MinLeadRetention = time.Hour

// ContactPurgePayload configures the retention window of a purge run.
type ContactPurgePayload struct {
	RetentionSeconds int64 `json:"retention_seconds"`
}

// Retention returns the window as a duration.
func (p ContactPurgePayload) Retention() time.Duration {
	return time.Duration(p.RetentionSeconds) * time.Second
}

// NewContactPurgeTask creates a purge task for the given retention.
func NewContactPurgeTask(retention time.Duration) (*asynq.Task, error) {
	if retention < MinLeadRetention {
		return nil, fmt.Errorf("contact purge: retention %s is shorter than %s", retention, MinLeadRetention)
	}
	body, err := json.Marshal(ContactPurgePayload{RetentionSeconds: int64(retention / time.Second)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactPurge, body, asynq.Queue(QueueDefault)), nil
}

// LeadPurger deletes leads older than a retention window.
type LeadPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// ContactPurgeJob runs the lead retention policy.
type ContactPurgeJob struct {
	Purger  LeadPurger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle executes the purge job.
func (j *ContactPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Purger == nil {
		return errors.New("contact purge: purger not configured")
	}
	var payload ContactPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Retention() < MinLeadRetention {
		j.log().Warn("discarding malformed purge task", slog.Any("error", err))
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskContactPurge)
	removed, err := j.Purger.Purge(ctx, payload.Retention())
	if err != nil {
		j.log().Error("purge leads", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddPurged(removed)
	j.log().Info("leads purged", slog.Int64("removed", removed), slog.Duration("retention", payload.Retention()))
	return tracker.End(nil)
}

func (j *ContactPurgeJob) log() *slog.Logger {
	if j.Logger == nil {
		return slog.Default()
	}
	return j.Logger
}
