package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/softsell/softsell/internal/jobs"
	"github.com/softsell/softsell/internal/mailer"
)

type stubSender struct {
	sent []mailer.Message
	err  error
}

func (s *stubSender) Send(ctx context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type stubPurger struct {
	retention time.Duration
	removed   int64
	err       error
}

func (p *stubPurger) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	p.retention = retention
	return p.removed, p.err
}

func TestSendEmailJobDelivers(t *testing.T) {
	sender := &stubSender{}
	job := &SendEmailJob{Sender: sender, Metrics: jobmetrics.NewMetrics(prometheus.NewRegistry())}

	task, err := NewSendEmailTask(SendEmailPayload{To: "sales@softsell.test", Subject: "Hi", Body: "Body"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"sales@softsell.test"}, sender.sent[0].To)
	assert.Equal(t, "Hi", sender.sent[0].Subject)
}

func TestSendEmailJobSkipsMalformedPayload(t *testing.T) {
	job := &SendEmailJob{Sender: &stubSender{}}

	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	body, _ := json.Marshal(SendEmailPayload{Subject: "no recipient"})
	err = job.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, body))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSendEmailJobReturnsSenderError(t *testing.T) {
	boom := errors.New("smtp down")
	job := &SendEmailJob{Sender: &stubSender{err: boom}}

	task, err := NewSendEmailTask(SendEmailPayload{To: "sales@softsell.test"})
	require.NoError(t, err)
	assert.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestContactPurgeJob(t *testing.T) {
	purger := &stubPurger{removed: 3}
	job := &ContactPurgeJob{Purger: purger, Metrics: jobmetrics.NewMetrics(prometheus.NewRegistry())}

	task, err := NewContactPurgeTask(48 * time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 48*time.Hour, purger.retention)
}

func TestContactPurgeJobKeepsSubHourPrecision(t *testing.T) {
	purger := &stubPurger{}
	job := &ContactPurgeJob{Purger: purger, Metrics: jobmetrics.NewMetrics(prometheus.NewRegistry())}

	task, err := NewContactPurgeTask(90 * time.Minute)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, 90*time.Minute, purger.retention)
}

func TestNewContactPurgeTaskRejectsShortRetention(t *testing.T) {
	for _, retention := range []time.Duration{0, 30 * time.Minute, time.Hour - time.Second} {
		_, err := NewContactPurgeTask(retention)
		assert.Error(t, err, "retention %s", retention)
	}
}

func TestContactPurgeJobRejectsShortRetention(t *testing.T) {
	purger := &stubPurger{}
	job := &ContactPurgeJob{Purger: purger}

	body, err := json.Marshal(ContactPurgePayload{RetentionSeconds: 1800})
	require.NoError(t, err)
	task := asynq.NewTask(TaskContactPurge, body)
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
	assert.Zero(t, purger.retention)
}

func TestJobsWithoutDependenciesFail(t *testing.T) {
	var send *SendEmailJob
	assert.Error(t, send.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, nil)))

	var purge *ContactPurgeJob
	assert.Error(t, purge.Handle(context.Background(), asynq.NewTask(TaskContactPurge, nil)))
}
