package repository

import (
	"context"

	"gorm.io/gorm"

	"pothole-service/internal/model"
	"pothole-service/internal/store"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) Update(ctx context.Context, n *model.Notification) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"status":      n.Status,
			"attempts":    n.Attempts,
			"provider_id": n.ProviderID,
			"error":       n.Error,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, filter store.NotificationFilter) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).Model(&model.Notification{})

	if filter.ReportID != nil {
		query = query.Where("report_id = ?", *filter.ReportID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(100)
	}

	var notifications []model.Notification
	if err := query.
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

var _ store.NotificationStore = (*NotificationRepository)(nil)
