package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders a verified journey as a downloadable PDF summary.
type DocsService struct {
	Journeys  repositories.VerifiedJourneyRepo
	RequestID string
}

// GenerateJourneySummary builds the PDF for the caller's verification record
// on a PNR.
func (s DocsService) GenerateJourneySummary(phoneNumber, pnr string) ([]byte, string, error) {
	v, err := s.Journeys.GetByPhonePNR(phoneNumber, pnr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", domain.NewAPIError(domain.CodePNRNotVerified, "This PNR has not been verified yet.", http.StatusBadRequest)
		}
		return nil, "", domain.NewAPIError(domain.CodeDBUnavailable, "Database is unavailable", http.StatusServiceUnavailable)
	}
	utils.LogEvent(s.RequestID, "docs", "journey_summary", fmt.Sprintf("pnr=%s", pnr))
	return buildJourneySummaryPDF(v)
}

func buildJourneySummaryPDF(v models.VerifiedJourney) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Journey Summary", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "JOURNEY SUMMARY")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("PNR            : %s", safe(v.PNR, "-")),
		fmt.Sprintf("Train          : %s %s", safe(v.Journey.TrainNumber, "-"), safe(v.Journey.TrainName, "-")),
		fmt.Sprintf("Class          : %s", safe(v.Journey.Class, "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(v.Journey.From, "-"), safe(v.Journey.To, "-")),
		fmt.Sprintf("Boarding Date  : %s", safe(v.Journey.BoardingDate, "-")),
		fmt.Sprintf("Booking Status : %s", safe(v.StatusType, "-")),
		fmt.Sprintf("Verified At    : %s", v.VerifiedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: booking status reflects the last successful PNR check. Final status is known after chart preparation.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("JOURNEY_%s_%s.pdf", safeFilenamePart(v.PNR), safeFilenamePart(v.Journey.TrainNumber))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
