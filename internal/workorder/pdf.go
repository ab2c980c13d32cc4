package workorder

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"pothole-service/internal/model"
)

// Generator renders printable A4 work orders for repair crews. The QR code
// links back to the live report under baseURL.
type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *Generator) Generate(r model.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Pothole Repair Work Order", "", 1, "L", false, 0, "")

	link := fmt.Sprintf("%s/api/v1/potholes/%s", g.baseURL, r.ID)
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", imgOptions, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imgOptions, 0, "")

	// Core fonts are cp1252, so currency and area stay ASCII.
	rows := []struct {
		label string
		value string
	}{
		{"Report ID", r.ID.String()},
		{"Created", r.CreatedAt.Format("2006-01-02 15:04 MST")},
		{"Location", r.Location},
		{"Coordinates", fmt.Sprintf("%.6f, %.6f", r.Coordinates.Lat, r.Coordinates.Lng)},
		{"Status", string(r.Status)},
		{"Drone status", string(r.DroneStatus)},
		{"Severity", string(r.Severity)},
		{"Potholes", strconv.Itoa(r.Detection.PotholeCount)},
		{"Affected area", fmt.Sprintf("%.4f sq.m", r.Detection.TotalAreaM2)},
		{"Confidence", fmt.Sprintf("%.1f%%", r.Detection.ConfidencePercent)},
		{"Material", r.Material},
		{"Bags required", strconv.Itoa(r.BagsRequired)},
		{"Estimated cost", fmt.Sprintf("INR %.2f", r.EstimatedCostINR)},
	}

	pdf.Ln(6)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, row.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, row.value, "", 1, "L", false, 0, "")
	}

	if len(r.Audit) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "History", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, entry := range r.Audit {
			line := fmt.Sprintf("%s  %s", entry.Timestamp.Format("2006-01-02 15:04"), entry.Action)
			if entry.Notes != "" {
				line += "  - " + entry.Notes
			}
			pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
