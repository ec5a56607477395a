package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softsell/softsell/internal/contact"
)

type stubQueue struct {
	payloads []SendEmailPayload
	err      error
}

func (q *stubQueue) EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.payloads = append(q.payloads, payload)
	return &asynq.TaskInfo{Type: TaskTypeSendEmail, Queue: QueueDefault}, nil
}

func sampleLead() contact.Lead {
	return contact.Lead{
		Name:        "Jane",
		Email:       "jane@x.com",
		Company:     "Acme",
		LicenseType: contact.LicenseAdobe,
		Message:     "Hi",
		ReceivedAt:  time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func TestLeadNotifierEnqueuesEmail(t *testing.T) {
	queue := &stubQueue{}
	notifier := NewLeadNotifier(queue, "sales@softsell.test")

	require.NoError(t, notifier.NotifyLead(context.Background(), sampleLead()))
	require.Len(t, queue.payloads, 1)

	payload := queue.payloads[0]
	assert.Equal(t, "sales@softsell.test", payload.To)
	assert.Equal(t, "New Adobe Creative Cloud lead from Acme", payload.Subject)
	assert.Contains(t, payload.Body, "Email: jane@x.com")
	assert.Contains(t, payload.Body, "Received: 2026-01-02 03:04 UTC")
	assert.Contains(t, payload.Body, "\n\nHi\n")
}

func TestLeadNotifierWrapsQueueError(t *testing.T) {
	boom := errors.New("redis down")
	notifier := NewLeadNotifier(&stubQueue{err: boom}, "sales@softsell.test")

	err := notifier.NotifyLead(context.Background(), sampleLead())
	assert.ErrorIs(t, err, boom)
}
