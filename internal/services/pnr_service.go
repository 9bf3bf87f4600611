package services

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"
	"trainbuddy/internal/utils"
)

// PnrStatus is the queue-position part of a lookup result.
type PnrStatus struct {
	Type             string `json:"type"`
	CurrentPosition  int    `json:"currentPosition"`
	OriginalPosition int    `json:"originalPosition"`
}

// PnrChart tells whether the chart is out yet and when to expect it.
type PnrChart struct {
	Prepared     bool   `json:"prepared"`
	ExpectedTime string `json:"expectedTime"`
}

// PnrClarity is the human explanation attached to a status.
type PnrClarity struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tips  []string `json:"tips"`
}

// PnrResult is the canonical lookup output consumed by the rest of the
// system and persisted (journey + status type) into verified_journeys.
type PnrResult struct {
	Success bool           `json:"success"`
	PNR     string         `json:"pnr"`
	Journey models.Journey `json:"journey"`
	Status  PnrStatus      `json:"status"`
	Chart   PnrChart       `json:"chart"`
	Clarity PnrClarity     `json:"clarity"`
}

// PnrService looks up ticket status with the external provider and records
// the verification side effect.
type PnrService struct {
	Client    *IRCTCClient
	Journeys  repositories.VerifiedJourneyRepo
	RequestID string
}

// Lookup fetches PNR status: provider if configured, mock data otherwise.
func (s PnrService) Lookup(pnr string) (PnrResult, error) {
	pnr = strings.TrimSpace(pnr)
	if len(pnr) != 10 {
		return PnrResult{}, domain.NewAPIError(domain.CodeInvalidPNR, "Enter a valid 10-digit PNR.", http.StatusBadRequest)
	}

	if s.Client == nil || !s.Client.Configured() {
		return mockPnrResult(pnr), nil
	}

	var (
		result PnrResult
		err    error
	)
	if s.Client.Provider == "rapidapi" {
		result, err = s.lookupRapidAPI(pnr)
	} else {
		result, err = s.lookupIndianRail(pnr)
	}
	if err != nil {
		utils.LogEvent(s.RequestID, "pnr", "lookup_failed", err.Error())
		return PnrResult{}, domain.NewAPIError("PNR_LOOKUP_FAILED", "Unable to fetch PNR status. Please try again.", http.StatusInternalServerError)
	}
	return result, nil
}

// PersistVerification upserts the verified journey for (phone, pnr). Callers
// treat failure as best-effort: a warning, never a failed lookup.
func (s PnrService) PersistVerification(phoneNumber string, result PnrResult) error {
	return s.Journeys.Upsert(models.VerifiedJourney{
		PhoneNumber: phoneNumber,
		PNR:         result.PNR,
		Journey:     result.Journey,
		StatusType:  result.Status.Type,
	})
}

type indianRailResponse struct {
	Data struct {
		TrainNumber string `json:"train_number"`
		TrainName   string `json:"train_name"`
		Class       string `json:"class"`
		From        struct {
			Code string `json:"code"`
		} `json:"from"`
		Board struct {
			Code string `json:"code"`
		} `json:"board"`
		To struct {
			Code string `json:"code"`
		} `json:"to"`
		Alight struct {
			Code string `json:"code"`
		} `json:"alight"`
		TravelDate    string `json:"travel_date"`
		Doj           string `json:"doj"`
		ChartPrepared string `json:"chart_prepared"`
		Passenger     []struct {
			Status string `json:"status"`
		} `json:"passenger"`
	} `json:"data"`
}

func (s PnrService) lookupIndianRail(pnr string) (PnrResult, error) {
	var resp indianRailResponse
	if err := s.Client.GetJSON("/pnr-check/pnr/"+pnr, nil, &resp); err != nil {
		return PnrResult{}, err
	}

	d := resp.Data
	statusText := ""
	if len(d.Passenger) > 0 {
		statusText = d.Passenger[0].Status
	}
	statusType := DeriveStatusType(statusText)
	current, original := ExtractPositions(statusText)
	travelDate := firstNonEmpty(d.TravelDate, d.Doj)

	return PnrResult{
		Success: true,
		PNR:     pnr,
		Journey: models.Journey{
			TrainNumber:  firstNonEmpty(d.TrainNumber, "N/A"),
			TrainName:    firstNonEmpty(d.TrainName, "N/A"),
			Class:        firstNonEmpty(d.Class, "N/A"),
			From:         firstNonEmpty(d.From.Code, d.Board.Code, "N/A"),
			To:           firstNonEmpty(d.To.Code, d.Alight.Code, "N/A"),
			BoardingDate: firstNonEmpty(travelDate, "N/A"),
		},
		Status: PnrStatus{Type: statusType, CurrentPosition: current, OriginalPosition: original},
		Chart: PnrChart{
			Prepared:     d.ChartPrepared == "CHART PREPARED",
			ExpectedTime: estimateChartTime(travelDate),
		},
		Clarity: clarityFor(statusType, current),
	}, nil
}

type rapidAPIResponse struct {
	Data rapidAPIData `json:"data"`
	rapidAPIData
}

type rapidAPIData struct {
	TrainDetails struct {
		TrainNo     string `json:"TrainNo"`
		TrainName   string `json:"TrainName"`
		Class       string `json:"Class"`
		Source      string `json:"Source"`
		Destination string `json:"Destination"`
		Doj         string `json:"doj"`
	} `json:"TrainDetails"`
	Class           string `json:"Class"`
	DateOfJourney   string `json:"DateOfJourney"`
	ChartPrepared   bool   `json:"ChartPrepared"`
	ChartStatus     string `json:"ChartStatus"`
	PassengerStatus []struct {
		CurrentStatus string `json:"CurrentStatus"`
		BookingStatus string `json:"BookingStatus"`
	} `json:"PassengerStatus"`
}

// lookupRapidAPI tries the v3 endpoint first and falls back to v1 unless the
// failure is one a retry cannot fix.
func (s PnrService) lookupRapidAPI(pnr string) (PnrResult, error) {
	endpoints := []string{"/api/v3/getPNRStatus", "/api/v1/getPNRStatus"}

	var lastErr error
	for _, endpoint := range endpoints {
		var resp rapidAPIResponse
		err := s.Client.GetJSON(endpoint, map[string]string{"pnrNumber": pnr}, &resp)
		if err == nil {
			return s.transformRapidAPI(resp, pnr), nil
		}
		lastErr = err
		if fatalProviderError(err) {
			return PnrResult{}, err
		}
	}
	return PnrResult{}, lastErr
}

func (s PnrService) transformRapidAPI(resp rapidAPIResponse, pnr string) PnrResult {
	d := resp.Data
	if d.TrainDetails.TrainNo == "" && len(d.PassengerStatus) == 0 {
		d = resp.rapidAPIData
	}

	statusText := ""
	if len(d.PassengerStatus) > 0 {
		statusText = firstNonEmpty(d.PassengerStatus[0].CurrentStatus, d.PassengerStatus[0].BookingStatus)
	}
	statusType := DeriveStatusType(statusText)
	current, original := ExtractPositions(statusText)
	travelDate := firstNonEmpty(d.DateOfJourney, d.TrainDetails.Doj)

	return PnrResult{
		Success: true,
		PNR:     pnr,
		Journey: models.Journey{
			TrainNumber:  firstNonEmpty(d.TrainDetails.TrainNo, "N/A"),
			TrainName:    firstNonEmpty(d.TrainDetails.TrainName, "N/A"),
			Class:        firstNonEmpty(d.Class, d.TrainDetails.Class, "N/A"),
			From:         firstNonEmpty(d.TrainDetails.Source, "N/A"),
			To:           firstNonEmpty(d.TrainDetails.Destination, "N/A"),
			BoardingDate: firstNonEmpty(travelDate, "N/A"),
		},
		Status: PnrStatus{Type: statusType, CurrentPosition: current, OriginalPosition: original},
		Chart: PnrChart{
			Prepared:     d.ChartPrepared || d.ChartStatus == "CHART PREPARED",
			ExpectedTime: estimateChartTime(travelDate),
		},
		Clarity: clarityFor(statusType, current),
	}
}

// DeriveStatusType classifies provider status text by substring.
func DeriveStatusType(statusText string) string {
	if statusText == "" {
		return models.StatusUnknown
	}
	upper := strings.ToUpper(statusText)
	switch {
	case strings.Contains(upper, "CNF") || strings.Contains(upper, "CONFIRM"):
		return models.StatusCNF
	case strings.Contains(upper, "RAC"):
		return models.StatusRAC
	case strings.Contains(upper, "W/L") || strings.Contains(upper, "WL"):
		return models.StatusWL
	default:
		return models.StatusUnknown
	}
}

var positionRe = regexp.MustCompile(`\d+`)

// ExtractPositions pulls current/original queue positions out of status text
// like "WL 12/25". A single number serves as both.
func ExtractPositions(statusText string) (current, original int) {
	matches := positionRe.FindAllString(statusText, 2)
	if len(matches) == 0 {
		return 0, 0
	}
	current, _ = strconv.Atoi(matches[0])
	original = current
	if len(matches) > 1 {
		original, _ = strconv.Atoi(matches[1])
	}
	return current, original
}

// estimateChartTime guesses chart preparation at four hours before the
// travel date.
func estimateChartTime(travelDate string) string {
	travelDate = strings.TrimSpace(travelDate)
	if travelDate == "" {
		return time.Now().Format(time.RFC3339)
	}

	var t time.Time
	if parts := strings.Split(travelDate, "-"); len(parts) == 3 && len(parts[0]) <= 2 {
		// DD-MM-YYYY provider format
		day, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		year, _ := strconv.Atoi(parts[2])
		t = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	} else if parsed, err := utils.ParseDate(travelDate); err == nil {
		t = parsed
	} else {
		return time.Now().Format(time.RFC3339)
	}

	return t.Add(-4 * time.Hour).Format(time.RFC3339)
}

func clarityFor(statusType string, position int) PnrClarity {
	switch statusType {
	case models.StatusWL:
		return PnrClarity{
			Title: "What this means for you",
			Body:  fmt.Sprintf("Your ticket is currently on the waiting list at position %d. Final status will be known after chart preparation, typically 4 hours before departure.", position),
			Tips: []string{
				"Final status will be known after chart preparation.",
				fmt.Sprintf("WL below %d on this route often moves to RAC or CNF, but not guaranteed.", position+10),
				"Keep checking status regularly as it may change.",
			},
		}
	case models.StatusRAC:
		return PnrClarity{
			Title: "RAC Status Explained",
			Body:  fmt.Sprintf("You have a RAC (Reservation Against Cancellation) ticket at position %d. You are guaranteed travel but may share a berth initially.", position),
			Tips: []string{
				"RAC passengers get confirmed berths if cancellations happen.",
				"You can board the train with RAC status.",
				"Check after chart preparation for potential upgrades.",
			},
		}
	case models.StatusCNF:
		return PnrClarity{
			Title: "Confirmed Ticket",
			Body:  "Your ticket is confirmed. You have a reserved seat/berth for your journey.",
			Tips: []string{
				"Carry a valid ID proof for verification.",
				"Reach the station at least 30 minutes before departure.",
				"Check your coach and berth number on the chart.",
			},
		}
	default:
		return PnrClarity{
			Title: "Status Information",
			Body:  "Unable to determine exact status. Please check the official IRCTC website or contact railway helpline.",
			Tips: []string{
				"Verify your PNR number is correct.",
				"Try checking again after some time.",
				"Contact railway customer care if issue persists.",
			},
		}
	}
}

func mockPnrResult(pnr string) PnrResult {
	return PnrResult{
		Success: true,
		PNR:     pnr,
		Journey: models.Journey{
			TrainNumber:  "12951",
			TrainName:    "Mumbai Rajdhani",
			Class:        "3A",
			From:         "BCT",
			To:           "NDLS",
			BoardingDate: "2025-12-20",
		},
		Status: PnrStatus{Type: models.StatusWL, CurrentPosition: 12, OriginalPosition: 25},
		Chart:  PnrChart{Prepared: false, ExpectedTime: "2025-12-20T15:00:00+05:30"},
		Clarity: PnrClarity{
			Title: "What this means for you",
			Body:  "Your ticket is currently WL 12. Final status will be known after chart preparation...",
			Tips: []string{
				"Final status will be known after chart preparation.",
				"WL below 15 on this route often moves to RAC or CNF, but not guaranteed.",
			},
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
