package notify

import (
	"fmt"

	"pothole-service/internal/model"
)

// Message renders the outbound text for an event.
func Message(r model.Report, event model.NotificationEvent) string {
	switch event {
	case model.NotificationEventDroneAssigned:
		return fmt.Sprintf(
			"Drone assigned to pothole report %s at %s. Survey starts shortly.",
			r.ID, r.Location,
		)
	default:
		return fmt.Sprintf(
			"New pothole reported at %s. Severity: %s, Area: %.2fm², Cost: ₹%.0f. ID: %s",
			r.Location, r.Severity, r.Detection.TotalAreaM2, r.EstimatedCostINR, r.ID,
		)
	}
}
