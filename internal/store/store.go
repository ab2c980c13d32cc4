package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"pothole-service/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict means the row changed since the caller loaded it.
	ErrVersionConflict = errors.New("stale report version")
)

type ReportFilter struct {
	Statuses   []model.ReportStatus
	Severities []model.Severity
	ReporterID *uuid.UUID
	Limit      int
	Offset     int
}

// ReportStore is the durable keyed collection of reports. Update is a
// compare-and-swap on Version: it persists the report only while the stored
// version still equals r.Version, bumping both on success. That per-row CAS is
// what serializes concurrent transitions on the same report.
type ReportStore interface {
	Create(ctx context.Context, r *model.Report) error
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]model.Report, error)
	Update(ctx context.Context, r *model.Report) error
}

type NotificationFilter struct {
	ReportID *uuid.UUID
	Limit    int
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	Update(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
}
