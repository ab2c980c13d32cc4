package analysis

import "pothole-service/internal/model"

// Severity thresholds over total affected area, in m². Intervals are
// half-open with the lower bound inclusive.
const (
	moderateMinAreaM2 = 0.2
	severeMinAreaM2   = 0.5
	criticalMinAreaM2 = 1.0
)

// ClassifySeverity maps total affected area to a severity tier. Total over
// all non-negative inputs.
func ClassifySeverity(totalAreaM2 float64) model.Severity {
	switch {
	case totalAreaM2 >= criticalMinAreaM2:
		return model.SeverityCritical
	case totalAreaM2 >= severeMinAreaM2:
		return model.SeveritySevere
	case totalAreaM2 >= moderateMinAreaM2:
		return model.SeverityModerate
	default:
		return model.SeverityMinor
	}
}
