package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	intconfig "trainbuddy/internal/config"
	"trainbuddy/internal/domain/models"
	"trainbuddy/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func gateRouter(t *testing.T, phone string) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	prev := intconfig.DB
	intconfig.DB = db

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if phone != "" {
			c.Set(phoneNumberKey, phone)
		}
		c.Next()
	})
	r.POST("/gated", RequireVerifiedPNR(repositories.VerifiedJourneyRepo{DB: db}, PNRFromBody), func(c *gin.Context) {
		v, ok := GetVerifiedJourney(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "trainNumber": v.Journey.TrainNumber})
	})

	return r, mock, func() {
		intconfig.DB = prev
		db.Close()
	}
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGateRequiresIdentity(t *testing.T) {
	r, _, done := gateRouter(t, "")
	defer done()

	w := postJSON(r, "/gated", gin.H{"pnr": "1234567890"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGateRejectsMalformedPNR(t *testing.T) {
	r, _, done := gateRouter(t, "+919876543210")
	defer done()

	w := postJSON(r, "/gated", gin.H{"pnr": "12345"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["errorCode"] != "INVALID_PNR" {
		t.Fatalf("expected INVALID_PNR, got %v", body["errorCode"])
	}
}

func TestGateUnverifiedPNR(t *testing.T) {
	r, mock, done := gateRouter(t, "+919876543210")
	defer done()

	mock.ExpectQuery("FROM verified_journeys").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := postJSON(r, "/gated", gin.H{"pnr": "1234567890"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["errorCode"] != "PNR_NOT_VERIFIED" {
		t.Fatalf("expected PNR_NOT_VERIFIED, got %v", body["errorCode"])
	}
}

func TestGateAttachesJourneyAndPreservesBody(t *testing.T) {
	r, mock, done := gateRouter(t, "+919876543210")
	defer done()

	mock.ExpectQuery("FROM verified_journeys").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "phone_number", "pnr", "train_number", "train_name", "class",
			"from_station", "to_station", "boarding_date", "status_type", "verified_at",
		}).AddRow(1, "+919876543210", "1234567890", "12951", "Mumbai Rajdhani", "3A", "BCT", "NDLS", "2025-12-20", models.StatusCNF, time.Now()))

	w := postJSON(r, "/gated", gin.H{"pnr": "1234567890"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["trainNumber"] != "12951" {
		t.Fatalf("expected journey in context, got %v", body)
	}
}
