package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pothole-service/internal/model"
	"pothole-service/internal/store"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Model(&model.Report{}).
		First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, filter store.ReportFilter) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Severities) > 0 {
		query = query.Where("severity IN ?", filter.Severities)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var reports []model.Report
	if err := query.
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Update is the compare-and-swap write: only the row still at report.Version
// is touched, and the version advances with the same statement. Zero rows
// affected means the row is gone or someone else won the race.
func (r *ReportRepository) Update(ctx context.Context, report *model.Report) error {
	res := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ? AND version = ?", report.ID, report.Version).
		Updates(map[string]interface{}{
			"status":       report.Status,
			"drone_status": report.DroneStatus,
			"audit":        report.Audit,
			"version":      gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&model.Report{}).
			Where("id = ?", report.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return store.ErrNotFound
		}
		return store.ErrVersionConflict
	}

	report.Version++
	return nil
}

var _ store.ReportStore = (*ReportRepository)(nil)
