package analysis

import "errors"

// LaneWidthM is the real-world reference width of a single traffic lane. The
// analyzed image is assumed to span one lane, which anchors the pixel-to-meter
// conversion.
const LaneWidthM = 3.5

var ErrInvalidInput = errors.New("invalid detection input")

// Detection is one bounding box reported by the external detector.
type Detection struct {
	WidthPx    float64 `json:"width_px"`
	HeightPx   float64 `json:"height_px"`
	Confidence float64 `json:"confidence"` // detector confidence in [0,1]
}

// Metrics is the physical summary derived from one image's detections.
type Metrics struct {
	PotholeCount      int
	TotalAreaM2       float64
	ConfidencePercent float64
}

// ComputeMetrics converts detector output into physical measurements.
// metersPerPixel = LaneWidthM / imageWidthPx, scaled by distanceFactor for
// images shot closer or farther than the reference distance (1.0 = reference).
// An empty detection list is valid and yields zero metrics; whether that is
// reportable is the caller's policy.
func ComputeMetrics(detections []Detection, imageWidthPx int, distanceFactor float64) (Metrics, error) {
	if imageWidthPx <= 0 || distanceFactor <= 0 {
		return Metrics{}, ErrInvalidInput
	}

	mpp := LaneWidthM / float64(imageWidthPx) * distanceFactor

	var m Metrics
	var confidenceSum float64
	for _, d := range detections {
		if d.WidthPx < 0 || d.HeightPx < 0 {
			return Metrics{}, ErrInvalidInput
		}
		if d.Confidence < 0 || d.Confidence > 1 {
			return Metrics{}, ErrInvalidInput
		}
		m.TotalAreaM2 += d.WidthPx * d.HeightPx * mpp * mpp
		confidenceSum += d.Confidence
	}

	m.PotholeCount = len(detections)
	if m.PotholeCount > 0 {
		m.ConfidencePercent = confidenceSum / float64(m.PotholeCount) * 100
	}
	return m, nil
}
