package analysis

import (
	"errors"
	"math"

	"pothole-service/internal/model"
)

var ErrUnknownSeverity = errors.New("unknown severity")

// Estimate is the repair material plan derived from severity and area.
type Estimate struct {
	Material         string
	BagsRequired     int
	EstimatedCostINR float64
}

type materialSpec struct {
	material      string
	costPerBagINR float64
	coverageM2    float64 // area one bag patches
}

// Fixed municipal pricing table; heavier mixes cost more and cover less per
// bag.
var materialTable = map[model.Severity]materialSpec{
	model.SeverityMinor:    {"Cold Patch Asphalt", 350, 0.15},
	model.SeverityModerate: {"Cold Mix Asphalt", 480, 0.12},
	model.SeveritySevere:   {"Hot Mix Asphalt", 650, 0.10},
	model.SeverityCritical: {"Premium Hot Mix", 850, 0.08},
}

// EstimateCost computes material, bag count and cost for a report. Zero area
// yields zero bags and zero cost; any positive area requires at least one bag.
func EstimateCost(severity model.Severity, totalAreaM2 float64) (Estimate, error) {
	spec, ok := materialTable[severity]
	if !ok {
		return Estimate{}, ErrUnknownSeverity
	}

	est := Estimate{Material: spec.material}
	if totalAreaM2 <= 0 {
		return est, nil
	}

	bags := int(math.Ceil(totalAreaM2 / spec.coverageM2))
	if bags < 1 {
		bags = 1
	}
	est.BagsRequired = bags
	est.EstimatedCostINR = float64(bags) * spec.costPerBagINR
	return est, nil
}
