package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"tripmate/internal/domain/models"
	"tripmate/internal/plan"
	"tripmate/internal/repositories"
	"tripmate/internal/utils"
)

// PlanDocsService renders the shared plan as a printable PDF: itinerary,
// transits, expenses and the budget line.
type PlanDocsService struct {
	TripRepo  repositories.TripRepository
	PlanRepo  repositories.PlanRepository
	Store     *plan.Store
	RequestID string
	// Loader overrides data loading in tests.
	Loader func(tripID string) (models.Trip, *models.Plan, error)
}

func (s PlanDocsService) loadDocData(tripID string) (models.Trip, *models.Plan, error) {
	if s.Loader != nil {
		return s.Loader(tripID)
	}
	trip, err := s.TripRepo.GetByIDString(tripID)
	if err != nil {
		return models.Trip{}, nil, err
	}
	// prefer the live in-memory plan; fall back to storage for idle trips
	if s.Store != nil {
		if p, ok := s.Store.Snapshot(tripID); ok {
			return trip, p, nil
		}
	}
	p, err := s.PlanRepo.Load(tripID)
	if err != nil {
		return models.Trip{}, nil, err
	}
	if p == nil {
		p = models.NewPlan()
	}
	return trip, p, nil
}

func (s PlanDocsService) GenerateTripPlanPDF(tripID string) ([]byte, string, error) {
	trip, p, err := s.loadDocData(tripID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_plan_pdf", "trip_id="+tripID)
	return buildTripPlanPDF(trip, p)
}

func buildTripPlanPDF(trip models.Trip, p *models.Plan) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Plan", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, safe(trip.Name, "Trip Plan"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Destinasi: %s    Tanggal: %s s/d %s",
		safe(trip.Destination, "-"), safe(trip.StartDate, "-"), safe(trip.EndDate, "-")))
	pdf.Ln(10)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}

	section("Itinerary")
	if len(p.Itineraries) == 0 {
		pdf.Cell(0, 6, "-")
		pdf.Ln(6)
	}
	for _, it := range p.Itineraries {
		line := safe(it.Title, "-")
		if it.Date != "" || it.Time != "" {
			line = strings.TrimSpace(it.Date+" "+it.Time) + "  " + line
		}
		if it.AddedBy != "" {
			line += fmt.Sprintf("  (oleh %s)", it.AddedBy)
		}
		pdf.MultiCell(0, 6, line, "", "", false)
	}
	pdf.Ln(4)

	section("Transit")
	if len(p.Transits) == 0 {
		pdf.Cell(0, 6, "-")
		pdf.Ln(6)
	}
	for _, tr := range p.Transits {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %s -> %s  %s - %s",
			safe(tr.Mode, "-"), safe(tr.From, "?"), safe(tr.To, "?"),
			safe(tr.DepartureTime, "-"), safe(tr.ArrivalTime, "-")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	section("Pengeluaran")
	var total float64
	if len(p.Expenses) == 0 {
		pdf.Cell(0, 6, "-")
		pdf.Ln(6)
	}
	for _, ex := range p.Expenses {
		total += ex.Amount
		pdf.Cell(0, 6, fmt.Sprintf("%-30s %12.2f  %s", safe(ex.Title, "-"), ex.Amount, safe(ex.PaidBy, "")))
		pdf.Ln(6)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Total pengeluaran: %.2f    Budget: %v", total, p.Budget))
	pdf.Ln(8)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TRIPPLAN_%d_%s.pdf", trip.ID, safeFilenamePart(trip.Name))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.TrimSpace(s))
	if out == "" {
		return "plan"
	}
	return out
}
