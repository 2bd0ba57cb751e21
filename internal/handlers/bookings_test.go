package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bus-ticketing-platform/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingService struct {
	booking *models.Booking
	details *models.BookingDetails
	err     error

	lastCreate  *models.CreateBookingRequest
	lastPayment *models.PaymentRequest
}

func (f *fakeBookingService) CreateReservation(req *models.CreateBookingRequest) (*models.Booking, error) {
	f.lastCreate = req
	return f.booking, f.err
}

func (f *fakeBookingService) ConfirmPayment(req *models.PaymentRequest) (*models.Booking, error) {
	f.lastPayment = req
	return f.booking, f.err
}

func (f *fakeBookingService) GetBooking(bookingID int) (*models.BookingDetails, error) {
	return f.details, f.err
}

func (f *fakeBookingService) GetTripBooking(tripID, bookingID int) (*models.BookingDetails, error) {
	return f.details, f.err
}

type fakeETicketService struct {
	data     []byte
	filename string
	err      error
}

func (f *fakeETicketService) GenerateETicket(details *models.BookingDetails) ([]byte, string, error) {
	return f.data, f.filename, f.err
}

func newBookingRouter(bookingService *fakeBookingService, eticketService *fakeETicketService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(bookingService, eticketService)

	router := gin.New()
	router.POST("/api/trips/:tripId/bookings", handler.CreateBooking)
	router.POST("/api/bookings/:id/payment", handler.ConfirmPayment)
	router.GET("/api/trips/:tripId/bookings/:id", handler.GetBooking)
	router.GET("/api/bookings/:id/eticket", handler.GetETicket)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBooking(t *testing.T) {
	until := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	svc := &fakeBookingService{booking: &models.Booking{
		ID:            42,
		Status:        models.BookingReserved,
		ReservedUntil: &until,
		Amount:        decimal.RequireFromString("149.97"),
	}}
	router := newBookingRouter(svc, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodPost, "/api/trips/1/bookings", gin.H{
		"seats":         []string{"A1", "A2", "A3"},
		"name":          "Jane Doe",
		"email":         "jane@example.com",
		"date_of_birth": "1990-04-12",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["booking_id"])
	assert.Equal(t, "reserved", resp["status"])
	assert.Equal(t, "149.97", resp["amount"])

	require.NotNil(t, svc.lastCreate)
	assert.Equal(t, 1, svc.lastCreate.TripID, "trip id must come from the path, not the body")
}

func TestCreateBooking_InvalidTripID(t *testing.T) {
	router := newBookingRouter(&fakeBookingService{}, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodPost, "/api/trips/abc/bookings", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_MalformedBody(t *testing.T) {
	router := newBookingRouter(&fakeBookingService{}, &fakeETicketService{})

	req := httptest.NewRequest(http.MethodPost, "/api/trips/1/bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"seats missing", models.ErrSeatsNotFound, http.StatusNotFound},
		{"trip missing", models.ErrTripNotFound, http.StatusNotFound},
		{"seats taken", models.ErrSeatsAlreadyBooked, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBookingRouter(&fakeBookingService{err: tt.err}, &fakeETicketService{})

			rec := doJSON(t, router, http.MethodPost, "/api/trips/1/bookings", gin.H{
				"seats":         []string{"A1"},
				"name":          "Jane Doe",
				"email":         "jane@example.com",
				"date_of_birth": "1990-04-12",
			})
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.err.Error(), resp["error"])
		})
	}
}

func TestCreateBooking_ValidationErrors(t *testing.T) {
	verr := models.ValidationErrors{}
	verr.Add("seats", "select at least one seat")
	router := newBookingRouter(&fakeBookingService{err: verr}, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodPost, "/api/trips/1/bookings", gin.H{
		"name": "Jane Doe",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp["error"])
	assert.Contains(t, resp, "fields")
}

func TestCreateBooking_UnexpectedError(t *testing.T) {
	router := newBookingRouter(&fakeBookingService{err: assert.AnError}, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodPost, "/api/trips/1/bookings", gin.H{
		"seats": []string{"A1"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to process booking", resp["error"], "internal details must not leak")
}

func TestConfirmPayment(t *testing.T) {
	svc := &fakeBookingService{booking: &models.Booking{
		ID:                 42,
		Status:             models.BookingBooked,
		ConfirmationNumber: "LL-ABC123-0XYZ42",
		Amount:             decimal.RequireFromString("149.97"),
	}}
	router := newBookingRouter(svc, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodPost, "/api/bookings/42/payment", gin.H{
		"cardholder_name": "Jane Doe",
		"card_number":     "4242 4242 4242 4242",
		"expiry":          "12/39",
		"cvv":             "123",
		"billing_address": "1 Main St",
		"card_type":       "credit",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "booked", resp["status"])
	assert.Equal(t, "LL-ABC123-0XYZ42", resp["confirmation_number"])

	require.NotNil(t, svc.lastPayment)
	assert.Equal(t, 42, svc.lastPayment.BookingID, "booking id must come from the path, not the body")
}

func TestConfirmPayment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.ErrBookingNotFound, http.StatusNotFound},
		{"already purchased", models.ErrAlreadyPurchased, http.StatusConflict},
		{"not reserved", models.ErrNotReserved, http.StatusConflict},
		{"expired", models.ErrReservationExpired, http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newBookingRouter(&fakeBookingService{err: tt.err}, &fakeETicketService{})

			rec := doJSON(t, router, http.MethodPost, "/api/bookings/42/payment", gin.H{
				"cardholder_name": "Jane Doe",
			})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetBooking(t *testing.T) {
	details := &models.BookingDetails{
		Booking:     models.Booking{ID: 42, Status: models.BookingBooked},
		Trip:        models.TripSummary{ID: 1},
		SeatNumbers: []string{"A1"},
	}
	router := newBookingRouter(&fakeBookingService{details: details}, &fakeETicketService{})

	rec := doJSON(t, router, http.MethodGet, "/api/trips/1/bookings/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Booking.ID)
	assert.Equal(t, []string{"A1"}, resp.SeatNumbers)
}

func TestGetETicket(t *testing.T) {
	details := &models.BookingDetails{
		Booking: models.Booking{ID: 42, Status: models.BookingBooked, ConfirmationNumber: "LL-ABC123-0XYZ42"},
	}
	router := newBookingRouter(
		&fakeBookingService{details: details},
		&fakeETicketService{data: []byte("%PDF-1.3 fake"), filename: "eticket_LL-ABC123-0XYZ42.pdf"},
	)

	rec := doJSON(t, router, http.MethodGet, "/api/bookings/42/eticket", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "eticket_LL-ABC123-0XYZ42.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestGetETicket_NotConfirmed(t *testing.T) {
	details := &models.BookingDetails{
		Booking: models.Booking{ID: 42, Status: models.BookingReserved},
	}
	router := newBookingRouter(
		&fakeBookingService{details: details},
		&fakeETicketService{err: models.ErrNotConfirmed},
	)

	rec := doJSON(t, router, http.MethodGet, "/api/bookings/42/eticket", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
