package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"pothole-service/internal/analysis"
	"pothole-service/internal/model"
	"pothole-service/internal/store"
	"pothole-service/internal/workflow"
	"pothole-service/internal/workorder"
)

// casAttempts bounds how often a stale transition is re-validated against the
// fresh row before the caller sees a conflict.
const casAttempts = 3

// Notifier queues outbound alerts. Must not block.
type Notifier interface {
	Enqueue(report model.Report, event model.NotificationEvent)
}

// EventSink receives report lifecycle events for live consumers.
type EventSink interface {
	ReportCreated(report model.Report)
	ReportUpdated(report model.Report)
}

type ReportService struct {
	reports       store.ReportStore
	notifications store.NotificationStore
	notifier      Notifier
	events        EventSink
	workorders    *workorder.Generator
	log           zerolog.Logger
}

func NewReportService(
	reports store.ReportStore,
	notifications store.NotificationStore,
	notifier Notifier,
	events EventSink,
	workorders *workorder.Generator,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		reports:       reports,
		notifications: notifications,
		notifier:      notifier,
		events:        events,
		workorders:    workorders,
		log:           log.With().Str("component", "reports").Logger(),
	}
}

type AnalyzeInput struct {
	Location          string
	Coordinates       model.Coordinates
	ImageWidthPx      int
	DistanceFactor    float64
	Detections        []analysis.Detection
	ImageURL          string
	ProcessedImageURL string
}

// Analyze derives a report from detector output and persists it in PENDING.
// Measurements, severity and the cost estimate are computed once here and
// frozen; a re-analysis creates a new report.
func (s *ReportService) Analyze(ctx context.Context, principal model.Principal, in AnalyzeInput) (*model.Report, error) {
	if in.Location == "" {
		return nil, ErrInvalidInput
	}

	distanceFactor := in.DistanceFactor
	if distanceFactor == 0 {
		distanceFactor = 1.0
	}

	metrics, err := analysis.ComputeMetrics(in.Detections, in.ImageWidthPx, distanceFactor)
	if err != nil {
		return nil, ErrInvalidInput
	}
	severity := analysis.ClassifySeverity(metrics.TotalAreaM2)
	estimate, err := analysis.EstimateCost(severity, metrics.TotalAreaM2)
	if err != nil {
		return nil, ErrInvalidInput
	}

	now := time.Now().UTC()
	created := model.AuditEntry{
		Action:    model.AuditActionUploaded,
		Timestamp: now,
	}
	var reporterID *uuid.UUID
	if principal.UserID != uuid.Nil {
		id := principal.UserID
		reporterID = &id
		created.ActorID = &id
		created.ActorRole = string(principal.Role)
	}

	report := &model.Report{
		ReporterID:  reporterID,
		Location:    in.Location,
		Coordinates: in.Coordinates,
		Detection: model.DetectionSummary{
			PotholeCount:      metrics.PotholeCount,
			TotalAreaM2:       metrics.TotalAreaM2,
			ConfidencePercent: metrics.ConfidencePercent,
		},
		Severity:          severity,
		Material:          estimate.Material,
		BagsRequired:      estimate.BagsRequired,
		EstimatedCostINR:  estimate.EstimatedCostINR,
		Status:            model.ReportStatusPending,
		DroneStatus:       model.DroneStatusNone,
		Audit:             datatypes.JSONSlice[model.AuditEntry]{created},
		ImageURL:          in.ImageURL,
		ProcessedImageURL: in.ProcessedImageURL,
		Version:           1,
		CreatedAt:         now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("report_id", report.ID.String()).
		Str("severity", string(report.Severity)).
		Int("potholes", report.Detection.PotholeCount).
		Float64("area_m2", report.Detection.TotalAreaM2).
		Msg("report created")

	if s.events != nil {
		s.events.ReportCreated(*report)
	}
	return report, nil
}

// ApplyAction runs one workflow transition with optimistic concurrency: load,
// validate, CAS-write; a lost race re-loads and re-validates against the
// winner's state, so a precondition is never checked against a stale status.
func (s *ReportService) ApplyAction(ctx context.Context, principal model.Principal, reportID uuid.UUID, action workflow.Action, notes string) (*model.Report, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		report, err := s.reports.Get(ctx, reportID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		outcome, err := workflow.Apply(report, action, principal, notes, time.Now().UTC())
		if err != nil {
			if errors.Is(err, workflow.ErrUnknownAction) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}

		if err := s.reports.Update(ctx, report); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		s.log.Info().
			Str("report_id", report.ID.String()).
			Str("action", action.AuditTag()).
			Str("status", string(report.Status)).
			Str("drone_status", string(report.DroneStatus)).
			Msg("action applied")

		if s.notifier != nil {
			for _, event := range outcome.Events {
				s.notifier.Enqueue(*report, event)
			}
		}
		if s.events != nil {
			s.events.ReportUpdated(*report)
		}
		return report, nil
	}

	return nil, ErrConflict
}

func (s *ReportService) Get(ctx context.Context, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.reports.Get(ctx, reportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

type ReportListOptions struct {
	Statuses   []model.ReportStatus
	Severities []model.Severity
	ReporterID *uuid.UUID
	Limit      int
	Offset     int
}

func (s *ReportService) List(ctx context.Context, opts ReportListOptions) ([]model.Report, error) {
	for _, status := range opts.Statuses {
		if !status.IsValid() {
			return nil, ErrInvalidInput
		}
	}
	for _, severity := range opts.Severities {
		if !severity.IsValid() {
			return nil, ErrInvalidInput
		}
	}

	return s.reports.List(ctx, store.ReportFilter{
		Statuses:   opts.Statuses,
		Severities: opts.Severities,
		ReporterID: opts.ReporterID,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

func (s *ReportService) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	return s.reports.List(ctx, store.ReportFilter{ReporterID: &reporterID})
}

func (s *ReportService) ListNotifications(ctx context.Context, reportID *uuid.UUID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.notifications.List(ctx, store.NotificationFilter{ReportID: reportID, Limit: limit})
}

// WorkOrderPDF renders the printable work order for a report.
func (s *ReportService) WorkOrderPDF(ctx context.Context, reportID uuid.UUID) ([]byte, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return s.workorders.Generate(*report)
}
