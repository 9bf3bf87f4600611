package services

import (
	"encoding/json"
	"strings"
	"testing"

	"trainbuddy/internal/domain"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newOfferService(t *testing.T) (OfferService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	svc := OfferService{
		Offers:   repositories.OfferRepo{DB: db},
		Requests: repositories.OfferRequestRepo{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func offerRow(id int64, phone, status string, seats int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "phone_number", "pnr", "train_number", "train_name", "class",
		"from_station", "to_station", "boarding_date", "seats_available", "note", "status",
		"created_at", "updated_at",
	}).AddRow(id, phone, "9999999999", "12951", "Mumbai Rajdhani", "3A", "BCT", "NDLS", "2025-12-20", seats, "", status, testNow, testNow)
}

func TestOfferCreateClampsSeats(t *testing.T) {
	cases := []struct{ input, want int }{
		{0, 1},
		{99, 4},
		{2, 2},
	}
	for _, tc := range cases {
		svc, mock, done := newOfferService(t)

		mock.ExpectExec("INSERT INTO offer_seats").
			WithArgs("+919876543210", "1234567890",
				"12951", "Mumbai Rajdhani", "3A", "BCT", "NDLS", "2025-12-20",
				tc.want, nil, models.OfferActive).
			WillReturnResult(sqlmock.NewResult(5, 1))
		mock.ExpectQuery("FROM offer_seats").
			WillReturnRows(offerRow(5, "+919876543210", models.OfferActive, tc.want))

		offer, err := svc.Create(callerJourney(), tc.input, "")
		if err != nil {
			t.Fatalf("create(%d) error: %v", tc.input, err)
		}
		if offer.SeatsAvailable != tc.want {
			t.Fatalf("create(%d): expected %d seats, got %d", tc.input, tc.want, offer.SeatsAvailable)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
		done()
	}
}

func TestOfferSearchMasksOwnerIdentity(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	mock.ExpectQuery("FROM offer_seats").
		WillReturnRows(offerRow(5, "+919812345678", models.OfferActive, 2))

	results, err := svc.Search(callerJourney())
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DisplayName != "Passenger • 5678" {
		t.Fatalf("expected masked display name, got %q", results[0].DisplayName)
	}

	// the serialized payload must not carry the owner's phone or PNR
	raw, err := json.Marshal(results)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(raw), "+919812345678") {
		t.Fatalf("owner phone leaked: %s", raw)
	}
	if strings.Contains(string(raw), "9999999999") {
		t.Fatalf("owner pnr leaked: %s", raw)
	}
}

func TestOfferCreateRequiresConfirmedBooking(t *testing.T) {
	svc, _, done := newOfferService(t)
	defer done()

	caller := callerJourney()
	caller.StatusType = models.StatusWL

	_, err := svc.Create(caller, 2, "")
	if !domain.IsCode(err, domain.CodePNRNotConfirmed) {
		t.Fatalf("expected PNR_NOT_CONFIRMED, got %v", err)
	}
}

func TestOfferRequestAgainstClosedOffer(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	mock.ExpectQuery("FROM offer_seats").WithArgs(int64(5)).
		WillReturnRows(offerRow(5, "+919812345678", models.OfferClosed, 2))

	_, err := svc.Request(callerJourney(), 5, "")
	if !domain.IsCode(err, domain.CodeOfferNotActive) {
		t.Fatalf("expected OFFER_NOT_ACTIVE, got %v", err)
	}
	// no INSERT must have run
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements ran: %v", err)
	}
}

func TestOfferRequestRejectsOwnOffer(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	mock.ExpectQuery("FROM offer_seats").WithArgs(int64(5)).
		WillReturnRows(offerRow(5, "+919876543210", models.OfferActive, 2))

	_, err := svc.Request(callerJourney(), 5, "")
	if !domain.IsCode(err, domain.CodeInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestOfferRequestTripMismatch(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	rows := sqlmock.NewRows([]string{
		"id", "phone_number", "pnr", "train_number", "train_name", "class",
		"from_station", "to_station", "boarding_date", "seats_available", "note", "status",
		"created_at", "updated_at",
	}).AddRow(5, "+919812345678", "9999999999", "12951", "Mumbai Rajdhani", "2A", "BCT", "NDLS", "2025-12-20", 2, "", models.OfferActive, testNow, testNow)
	mock.ExpectQuery("FROM offer_seats").WithArgs(int64(5)).WillReturnRows(rows)

	_, err := svc.Request(callerJourney(), 5, "")
	if !domain.IsCode(err, domain.CodeTripMismatch) {
		t.Fatalf("expected TRIP_MISMATCH, got %v", err)
	}
}

func TestOfferRequestHappyPath(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	mock.ExpectQuery("FROM offer_seats").WithArgs(int64(5)).
		WillReturnRows(offerRow(5, "+919812345678", models.OfferActive, 2))
	mock.ExpectExec("INSERT INTO offer_seat_requests").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM offer_seat_requests").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "offer_id", "from_phone_number", "to_phone_number", "pnr", "message", "status", "created_at", "updated_at",
		}).AddRow(9, 5, "+919876543210", "+919812345678", "1234567890", "seat please", models.RequestPending, testNow, testNow))

	req, err := svc.Request(callerJourney(), 5, "seat please")
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if req.ToPhoneNumber != "+919812345678" {
		t.Fatalf("recipient must come from the offer owner, got %q", req.ToPhoneNumber)
	}
	if req.Status != models.RequestPending {
		t.Fatalf("expected PENDING, got %s", req.Status)
	}
}

func TestOfferRespondAuthorization(t *testing.T) {
	svc, mock, done := newOfferService(t)
	defer done()

	mock.ExpectQuery("FROM offer_seat_requests").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "offer_id", "from_phone_number", "to_phone_number", "pnr", "message", "status", "created_at", "updated_at",
		}).AddRow(9, 5, "+919876543210", "+919812345678", "1234567890", "", models.RequestPending, testNow, testNow))

	// requester cannot accept their own request
	_, err := svc.Respond("+919876543210", 9, "ACCEPT")
	if !domain.IsCode(err, domain.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements ran: %v", err)
	}
}
