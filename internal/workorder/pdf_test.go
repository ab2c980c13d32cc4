package workorder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"pothole-service/internal/model"
)

func TestGenerate(t *testing.T) {
	g := NewGenerator("https://potholes.example.com/")

	r := model.Report{
		ID:       uuid.New(),
		Location: "MG Road, Sector 4",
		Coordinates: model.Coordinates{
			Lat: 12.971599,
			Lng: 77.594566,
		},
		Detection: model.DetectionSummary{
			PotholeCount:      2,
			TotalAreaM2:       0.6,
			ConfidencePercent: 91.5,
		},
		Severity:         model.SeveritySevere,
		Material:         "Hot Mix Asphalt",
		BagsRequired:     6,
		EstimatedCostINR: 3900,
		Status:           model.ReportStatusReported,
		DroneStatus:      model.DroneStatusNone,
		Audit: []model.AuditEntry{
			{Action: "uploaded", Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
			{Action: "notify_authorities", Notes: "near school", Timestamp: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)},
		},
		CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	pdfBytes, err := g.Generate(r)
	require.NoError(t, err)
	require.Greater(t, len(pdfBytes), 1000)
	require.Equal(t, "%PDF", string(pdfBytes[:4]))
}
