package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/softsell/softsell/internal/contact"
)

// EmailEnqueuer queues outgoing e-mails.
type EmailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// LeadNotifier turns captured leads into queued notification e-mails.
type LeadNotifier struct {
	queue EmailEnqueuer
	to    string
}

// NewLeadNotifier returns a notifier that mails every lead to the given address.
func NewLeadNotifier(queue EmailEnqueuer, to string) *LeadNotifier {
	return &LeadNotifier{queue: queue, to: to}
}

// NotifyLead enqueues the notification for a lead.
func (n *LeadNotifier) NotifyLead(ctx context.Context, lead contact.Lead) error {
	if _, err := n.queue.EnqueueSendEmail(ctx, leadEmail(n.to, lead)); err != nil {
		return fmt.Errorf("jobs: enqueue lead notification: %w", err)
	}
	return nil
}

func leadEmail(to string, lead contact.Lead) SendEmailPayload {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	fmt.Fprintf(&b, "License: %s\n", lead.LicenseLabel())
	fmt.Fprintf(&b, "Received: %s\n\n", lead.ReceivedAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(lead.Message)
	b.WriteString("\n")
	return SendEmailPayload{
		To:      to,
		Subject: fmt.Sprintf("New %s lead from %s", lead.LicenseLabel(), lead.Company),
		Body:    b.String(),
	}
}

var _ contact.LeadNotifier = (*LeadNotifier)(nil)
