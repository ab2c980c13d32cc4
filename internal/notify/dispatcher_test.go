package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"pothole-service/internal/model"
	"pothole-service/internal/store"
)

// flakyProvider fails a set number of sends, then succeeds.
type flakyProvider struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (p *flakyProvider) Code() string { return "test" }

func (p *flakyProvider) Send(ctx context.Context, recipient, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return "", errors.New("carrier unavailable")
	}
	return "msg-001", nil
}

func (p *flakyProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func testDispatcher(t *testing.T, provider Provider) (*Dispatcher, *store.MemoryNotificationStore) {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(provider))

	notifications := store.NewMemoryNotificationStore()
	d := NewDispatcher(Config{
		Channel:     "test",
		Recipient:   "+911234567890",
		Workers:     1,
		QueueSize:   8,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		DedupWindow: time.Minute,
	}, registry, notifications, zerolog.Nop())
	d.Start()
	return d, notifications
}

func testReport() model.Report {
	return model.Report{
		ID:               uuid.New(),
		Location:         "MG Road, Sector 4",
		Severity:         model.SeveritySevere,
		EstimatedCostINR: 3900,
		Detection:        model.DetectionSummary{PotholeCount: 1, TotalAreaM2: 0.6, ConfidencePercent: 91},
	}
}

func TestDispatcher_RetriesUntilSent(t *testing.T) {
	provider := &flakyProvider{failures: 2}
	d, notifications := testDispatcher(t, provider)

	d.Enqueue(testReport(), model.NotificationEventAuthorityAlert)
	d.Stop()

	require.Equal(t, 3, provider.callCount())

	rows, err := notifications.List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	n := rows[0]
	require.Equal(t, model.NotificationStatusSent, n.Status)
	require.Equal(t, 3, n.Attempts)
	require.Equal(t, "msg-001", n.ProviderID)
	require.Empty(t, n.Error)
	require.Contains(t, n.Message, "Severity: SEVERE")
	require.Contains(t, n.Message, "₹3900")
}

func TestDispatcher_ExhaustionMarksFailed(t *testing.T) {
	provider := &flakyProvider{failures: 99}
	d, notifications := testDispatcher(t, provider)

	d.Enqueue(testReport(), model.NotificationEventAuthorityAlert)
	d.Stop()

	require.Equal(t, 3, provider.callCount())

	rows, err := notifications.List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, model.NotificationStatusFailed, rows[0].Status)
	require.Equal(t, 3, rows[0].Attempts)
	require.Equal(t, "carrier unavailable", rows[0].Error)
}

func TestDispatcher_DuplicateEnqueueCollapses(t *testing.T) {
	provider := &flakyProvider{}
	d, notifications := testDispatcher(t, provider)

	r := testReport()
	d.Enqueue(r, model.NotificationEventAuthorityAlert)
	d.Enqueue(r, model.NotificationEventAuthorityAlert)
	d.Stop()

	require.Equal(t, 1, provider.callCount())

	rows, err := notifications.List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDispatcher_DistinctEventsBothDeliver(t *testing.T) {
	provider := &flakyProvider{}
	d, notifications := testDispatcher(t, provider)

	r := testReport()
	d.Enqueue(r, model.NotificationEventAuthorityAlert)
	d.Enqueue(r, model.NotificationEventDroneAssigned)
	d.Stop()

	require.Equal(t, 2, provider.callCount())

	rows, err := notifications.List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestDispatcher_EnqueueAfterStopIsNoop(t *testing.T) {
	provider := &flakyProvider{}
	d, notifications := testDispatcher(t, provider)
	d.Stop()

	d.Enqueue(testReport(), model.NotificationEventAuthorityAlert)

	rows, err := notifications.List(context.Background(), store.NotificationFilter{})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Zero(t, provider.callCount())
}

func TestDeduplicator_Window(t *testing.T) {
	dedup := NewDeduplicator(50 * time.Millisecond)

	require.False(t, dedup.IsDuplicate("a"))
	require.True(t, dedup.IsDuplicate("a"))
	require.False(t, dedup.IsDuplicate("b"))

	time.Sleep(60 * time.Millisecond)
	require.False(t, dedup.IsDuplicate("a"))
}
