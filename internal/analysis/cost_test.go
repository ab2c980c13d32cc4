package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pothole-service/internal/model"
)

func TestEstimateCost_MinorSmallArea(t *testing.T) {
	// Two small detections on a 1000px image total ≈ 0.0319 m².
	m, err := ComputeMetrics([]Detection{
		{WidthPx: 50, HeightPx: 40, Confidence: 0.8},
		{WidthPx: 30, HeightPx: 20, Confidence: 0.9},
	}, 1000, 1.0)
	require.NoError(t, err)

	sev := ClassifySeverity(m.TotalAreaM2)
	require.Equal(t, model.SeverityMinor, sev)

	est, err := EstimateCost(sev, m.TotalAreaM2)
	require.NoError(t, err)
	require.Equal(t, "Cold Patch Asphalt", est.Material)
	require.Equal(t, 1, est.BagsRequired)
	require.Equal(t, 350.0, est.EstimatedCostINR)
}

func TestEstimateCost_Severe(t *testing.T) {
	sev := ClassifySeverity(0.6)
	require.Equal(t, model.SeveritySevere, sev)

	est, err := EstimateCost(sev, 0.6)
	require.NoError(t, err)
	require.Equal(t, "Hot Mix Asphalt", est.Material)
	require.Equal(t, 6, est.BagsRequired)
	require.Equal(t, 3900.0, est.EstimatedCostINR)
}

func TestEstimateCost_ZeroArea(t *testing.T) {
	est, err := EstimateCost(model.SeverityMinor, 0)
	require.NoError(t, err)
	require.Equal(t, "Cold Patch Asphalt", est.Material)
	require.Equal(t, 0, est.BagsRequired)
	require.Zero(t, est.EstimatedCostINR)
}

func TestEstimateCost_CriticalRoundsUp(t *testing.T) {
	est, err := EstimateCost(model.SeverityCritical, 1.0)
	require.NoError(t, err)
	require.Equal(t, "Premium Hot Mix", est.Material)
	// ceil(1.0 / 0.08) = 13
	require.Equal(t, 13, est.BagsRequired)
	require.Equal(t, 13*850.0, est.EstimatedCostINR)
}

func TestEstimateCost_UnknownSeverity(t *testing.T) {
	_, err := EstimateCost(model.Severity("CATASTROPHIC"), 0.3)
	require.ErrorIs(t, err, ErrUnknownSeverity)
}
