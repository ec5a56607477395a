package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LeadNotifier tells the sales inbox about a new lead.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// Service captures accepted submissions. Both the repository and the notifier
// are optional.
type Service struct {
	repo     Repository
	notifier LeadNotifier
	now      func() time.Time
}

// NewService constructs a Service. Nil dependencies disable that step.
func NewService(repo Repository, notifier LeadNotifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// Capture records an accepted form. The state must already have passed
// Validate; Capture re-checks it and refuses invalid input.
func (s *Service) Capture(ctx context.Context, state FormState, meta RequestMeta) (Lead, error) {
	if err := Validate(state).Err(); err != nil {
		return Lead{}, fmt.Errorf("contact: capture: %w", err)
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return Lead{}, fmt.Errorf("contact: lead id: %w", err)
	}
	lead := Lead{
		ID:          id,
		Name:        state.Name,
		Email:       state.Email,
		Company:     state.Company,
		LicenseType: state.LicenseType,
		Message:     state.Message,
		RemoteAddr:  meta.RemoteAddr,
		UserAgent:   meta.UserAgent,
		ReceivedAt:  s.now().UTC(),
	}
	var errs []error
	if s.repo != nil {
		if err := s.repo.Insert(ctx, lead); err != nil {
			errs = append(errs, err)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			errs = append(errs, fmt.Errorf("contact: notify lead: %w", err))
		}
	}
	return lead, errors.Join(errs...)
}

// Purge deletes leads received more than retention ago.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if s == nil || s.repo == nil {
		return 0, nil
	}
	if retention <= 0 {
		return 0, errors.New("contact: retention must be positive")
	}
	return s.repo.PurgeBefore(ctx, s.now().Add(-retention))
}
