package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "PENDING"
	ReportStatusReported   ReportStatus = "REPORTED"
	ReportStatusInspected  ReportStatus = "INSPECTED"
	ReportStatusInProgress ReportStatus = "IN_PROGRESS"
	ReportStatusResolved   ReportStatus = "RESOLVED"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReported, ReportStatusInspected,
		ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// IsTerminal reports whether the primary status accepts no further transitions.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusResolved
}

type DroneStatus string

const (
	DroneStatusNone       DroneStatus = "NONE"
	DroneStatusAssigned   DroneStatus = "ASSIGNED"
	DroneStatusInProgress DroneStatus = "IN_PROGRESS"
	DroneStatusComplete   DroneStatus = "COMPLETE"
)

func (s DroneStatus) IsValid() bool {
	switch s {
	case DroneStatusNone, DroneStatusAssigned, DroneStatusInProgress, DroneStatusComplete:
		return true
	}
	return false
}

type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere, SeverityCritical:
		return true
	}
	return false
}

// Coordinates pin the report to a point on the road network. Immutable after
// creation.
type Coordinates struct {
	Lat float64 `gorm:"column:coord_lat;not null" json:"lat"`
	Lng float64 `gorm:"column:coord_lng;not null" json:"lng"`
}

// DetectionSummary aggregates the detector output the report was derived from.
// Frozen at creation: a re-analysis produces a new report, never a mutation.
type DetectionSummary struct {
	PotholeCount      int     `gorm:"column:pothole_count;not null" json:"pothole_count"`
	TotalAreaM2       float64 `gorm:"column:total_area_m2;not null" json:"total_area_m2"`
	ConfidencePercent float64 `gorm:"column:confidence_percent;not null" json:"confidence_percent"`
}

// Report is a severity-classified, cost-estimated municipal work item derived
// from one analyzed road-surface image. Audit entries ride inside the row so a
// transition and its audit record persist as a single atomic write.
type Report struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReporterID *uuid.UUID  `gorm:"type:uuid" json:"reporter_id"`
	Location   string      `gorm:"type:text;not null" json:"location"`
	Coordinates Coordinates `gorm:"embedded" json:"coordinates"`

	Detection DetectionSummary `gorm:"embedded" json:"detection_summary"`

	Severity         Severity `gorm:"type:report_severity;not null" json:"severity"`
	Material         string   `gorm:"type:varchar(64);not null" json:"material"`
	BagsRequired     int      `gorm:"not null" json:"bags_required"`
	EstimatedCostINR float64  `gorm:"column:estimated_cost_inr;not null" json:"estimated_cost_inr"`

	Status      ReportStatus `gorm:"type:report_status;not null;default:'PENDING'" json:"status"`
	DroneStatus DroneStatus  `gorm:"type:drone_status;not null;default:'NONE'" json:"drone_status"`

	Audit datatypes.JSONSlice[AuditEntry] `gorm:"type:jsonb;not null;default:'[]'" json:"audit"`

	ImageURL          string `gorm:"type:text" json:"image_url"`
	ProcessedImageURL string `gorm:"type:text" json:"processed_image_url"`

	// Version backs the per-report compare-and-swap; every persisted update
	// increments it.
	Version int64 `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
