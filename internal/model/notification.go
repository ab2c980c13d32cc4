package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	}
	return false
}

type NotificationEvent string

const (
	NotificationEventAuthorityAlert NotificationEvent = "AUTHORITY_ALERT"
	NotificationEventDroneAssigned  NotificationEvent = "DRONE_ASSIGNED"
)

// Notification is one dispatch attempt record. A row is written in PENDING
// before delivery starts, then settles in SENT or FAILED; the row never goes
// back to PENDING.
type Notification struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReportID uuid.UUID         `gorm:"type:uuid;not null;index" json:"report_id"`
	Event    NotificationEvent `gorm:"type:varchar(32);not null" json:"event"`

	Channel   string `gorm:"type:varchar(32);not null" json:"channel"`
	Recipient string `gorm:"type:varchar(128);not null" json:"recipient"`
	Message   string `gorm:"type:text;not null" json:"message"`

	Status   NotificationStatus `gorm:"type:notification_status;not null;default:'PENDING'" json:"status"`
	Attempts int                `gorm:"not null;default:0" json:"attempts"`

	// ProviderID is the downstream delivery identifier (Twilio SID, Telegram
	// message id) when the channel reports one.
	ProviderID string `gorm:"type:varchar(128)" json:"provider_id,omitempty"`
	Error      string `gorm:"type:text" json:"error,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
