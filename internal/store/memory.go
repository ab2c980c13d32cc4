package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pothole-service/internal/model"
)

// MemoryReportStore keeps reports in a mutex-guarded map with the same CAS
// semantics as the postgres implementation. Used by tests and by the service
// in storage-less mode.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]model.Report
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[uuid.UUID]model.Report)}
}

func (s *MemoryReportStore) Create(ctx context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	s.reports[r.ID] = cloneReport(*r)
	return nil
}

func (s *MemoryReportStore) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	r := cloneReport(stored)
	return &r, nil
}

func (s *MemoryReportStore) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, r.Status) {
			continue
		}
		if len(filter.Severities) > 0 && !slices.Contains(filter.Severities, r.Severity) {
			continue
		}
		if filter.ReporterID != nil && (r.ReporterID == nil || *r.ReporterID != *filter.ReporterID) {
			continue
		}
		matched = append(matched, cloneReport(r))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []model.Report{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Update applies the CAS: the write succeeds only if the stored version still
// equals r.Version. On success both the stored row and r carry the new
// version.
func (s *MemoryReportStore) Update(ctx context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.reports[r.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != r.Version {
		return ErrVersionConflict
	}

	r.Version++
	r.UpdatedAt = time.Now().UTC()
	s.reports[r.ID] = cloneReport(*r)
	return nil
}

func cloneReport(r model.Report) model.Report {
	r.Audit = slices.Clone(r.Audit)
	if r.ReporterID != nil {
		id := *r.ReporterID
		r.ReporterID = &id
	}
	return r
}

// MemoryNotificationStore mirrors the notifications table for tests.
type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]model.Notification
	order         []uuid.UUID
}

func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{notifications: make(map[uuid.UUID]model.Notification)}
}

func (s *MemoryNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	s.notifications[n.ID] = *n
	s.order = append(s.order, n.ID)
	return nil
}

func (s *MemoryNotificationStore) Update(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[n.ID]; !ok {
		return ErrNotFound
	}
	n.UpdatedAt = time.Now().UTC()
	s.notifications[n.ID] = *n
	return nil
}

func (s *MemoryNotificationStore) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, 0, len(s.order))
	// Newest first: creation order reversed.
	for i := len(s.order) - 1; i >= 0; i-- {
		n := s.notifications[s.order[i]]
		if filter.ReportID != nil && n.ReportID != *filter.ReportID {
			continue
		}
		out = append(out, n)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

var (
	_ ReportStore       = (*MemoryReportStore)(nil)
	_ NotificationStore = (*MemoryNotificationStore)(nil)
)
