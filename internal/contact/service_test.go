package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	leads     []Lead
	insertErr error
	cutoff    time.Time
	purged    int64
}

func (s *stubRepo) Insert(ctx context.Context, lead Lead) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.leads = append(s.leads, lead)
	return nil
}

func (s *stubRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.purged, nil
}

type stubNotifier struct {
	leads []Lead
	err   error
}

func (s *stubNotifier) NotifyLead(ctx context.Context, lead Lead) error {
	s.leads = append(s.leads, lead)
	return s.err
}

func TestServiceCaptureStoresAndNotifies(t *testing.T) {
	repo := &stubRepo{}
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier)
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	lead, err := svc.Capture(context.Background(), validState(), RequestMeta{RemoteAddr: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.NotEqual(t, [16]byte{}, [16]byte(lead.ID))
	assert.Equal(t, "Jane", lead.Name)
	assert.Equal(t, LicenseAdobe, lead.LicenseType)
	assert.Equal(t, "Adobe Creative Cloud", lead.LicenseLabel())
	assert.Equal(t, "10.0.0.1", lead.RemoteAddr)
	assert.Equal(t, fixed, lead.ReceivedAt)
	require.Len(t, repo.leads, 1)
	require.Len(t, notifier.leads, 1)
	assert.Equal(t, lead.ID, notifier.leads[0].ID)
}

func TestServiceCaptureRejectsInvalidState(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, nil)

	_, err := svc.Capture(context.Background(), FormState{Name: "Jane"}, RequestMeta{})
	require.Error(t, err)
	var fe FieldError
	assert.ErrorAs(t, err, &fe)
	assert.Empty(t, repo.leads)
}

func TestServiceCaptureJoinsFailures(t *testing.T) {
	repoErr := errors.New("db down")
	notifyErr := errors.New("queue down")
	svc := NewService(&stubRepo{insertErr: repoErr}, &stubNotifier{err: notifyErr})

	_, err := svc.Capture(context.Background(), validState(), RequestMeta{})
	assert.ErrorIs(t, err, repoErr)
	assert.ErrorIs(t, err, notifyErr)
}

func TestServiceCaptureWithoutBackends(t *testing.T) {
	lead, err := NewService(nil, nil).Capture(context.Background(), validState(), RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Acme", lead.Company)
}

func TestServicePurge(t *testing.T) {
	repo := &stubRepo{purged: 3}
	svc := NewService(repo, nil)
	fixed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	n, err := svc.Purge(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, fixed.Add(-24*time.Hour), repo.cutoff)

	_, err = svc.Purge(context.Background(), 0)
	assert.Error(t, err)

	n, err = NewService(nil, nil).Purge(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
