package services

import (
	"errors"
	"testing"
	"time"

	"bus-ticketing-platform/internal/models"
	"bus-ticketing-platform/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	lastReservation *repositories.ReservationParams
	lastConfirm     *repositories.ConfirmationParams
	lastDeleteNow   time.Time

	booking *models.Booking
	details *models.BookingDetails
	deleted int
	err     error
}

func (f *fakeBookingRepo) CreateReservation(params repositories.ReservationParams) (*models.Booking, error) {
	f.lastReservation = &params
	return f.booking, f.err
}

func (f *fakeBookingRepo) ConfirmBooking(params repositories.ConfirmationParams) (*models.Booking, error) {
	f.lastConfirm = &params
	return f.booking, f.err
}

func (f *fakeBookingRepo) DeleteExpired(now time.Time) (int, error) {
	f.lastDeleteNow = now
	return f.deleted, f.err
}

func (f *fakeBookingRepo) GetBookingDetails(bookingID int) (*models.BookingDetails, error) {
	return f.details, f.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func validCreateRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		TripID:      1,
		SeatNumbers: []string{" a1", "B2", "A1"},
		Name:        "  Jane Doe ",
		Email:       "Jane@Example.COM",
		DateOfBirth: "1990-04-12",
	}
}

func TestBookingService_CreateReservation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: &models.Booking{ID: 42, Status: models.BookingReserved}}
	svc := NewBookingService(repo, 30*time.Minute, "LL").WithClock(fixedClock(now))

	booking, err := svc.CreateReservation(validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, 42, booking.ID)

	require.NotNil(t, repo.lastReservation)
	params := repo.lastReservation
	assert.Equal(t, 1, params.TripID)
	assert.Equal(t, []string{"A1", "B2"}, params.SeatNumbers)
	assert.Equal(t, "Jane Doe", params.Name)
	assert.Equal(t, "jane@example.com", params.Email)
	assert.Equal(t, now.Add(30*time.Minute), params.ReservedUntil)
}

func TestBookingService_CreateReservation_InvalidInput(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := NewBookingService(repo, 30*time.Minute, "LL")

	_, err := svc.CreateReservation(&models.CreateBookingRequest{TripID: 1})
	require.Error(t, err)

	var verr models.ValidationErrors
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "seats")
	assert.Nil(t, repo.lastReservation, "repository must not be touched on invalid input")
}

func TestBookingService_CreateReservation_RepoError(t *testing.T) {
	repo := &fakeBookingRepo{err: models.ErrSeatsAlreadyBooked}
	svc := NewBookingService(repo, 30*time.Minute, "LL")

	_, err := svc.CreateReservation(validCreateRequest())
	assert.ErrorIs(t, err, models.ErrSeatsAlreadyBooked)
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	repo := &fakeBookingRepo{booking: &models.Booking{
		ID:                 42,
		Status:             models.BookingBooked,
		ConfirmationNumber: "LL-FIXED-000001",
		Amount:             decimal.RequireFromString("149.97"),
	}}
	svc := NewBookingService(repo, 30*time.Minute, "LL").
		WithClock(fixedClock(now)).
		WithConfirmationGenerator(func(prefix string) string { return prefix + "-FIXED-000001" })

	booking, err := svc.ConfirmPayment(&models.PaymentRequest{
		BookingID:      42,
		CardholderName: "Jane Doe",
		CardNumber:     "4242 4242 4242 4242",
		Expiry:         "12/39",
		CVV:            "123",
		BillingAddress: " 1 Main St ",
		CardType:       "Credit",
	})
	require.NoError(t, err)
	assert.Equal(t, "LL-FIXED-000001", booking.ConfirmationNumber)

	require.NotNil(t, repo.lastConfirm)
	params := repo.lastConfirm
	assert.Equal(t, 42, params.BookingID)
	assert.Equal(t, "LL-FIXED-000001", params.ConfirmationNumber)
	assert.Equal(t, "1 Main St", params.BillingAddress)
	assert.Equal(t, models.PaymentMethodCredit, params.CardType)
	assert.Equal(t, "4242", params.CardLast4)
	assert.Equal(t, now, params.Now)
}

func TestBookingService_ConfirmPayment_InvalidInput(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := NewBookingService(repo, 30*time.Minute, "LL")

	_, err := svc.ConfirmPayment(&models.PaymentRequest{BookingID: 42})
	require.Error(t, err)
	assert.Nil(t, repo.lastConfirm, "repository must not be touched on invalid input")
}

func TestBookingService_ConfirmPayment_Expired(t *testing.T) {
	repo := &fakeBookingRepo{err: models.ErrReservationExpired}
	svc := NewBookingService(repo, 30*time.Minute, "LL")

	_, err := svc.ConfirmPayment(&models.PaymentRequest{
		BookingID:      42,
		CardholderName: "Jane Doe",
		CardNumber:     "4242424242424242",
		Expiry:         "12/39",
		CVV:            "123",
		BillingAddress: "1 Main St",
		CardType:       "debit",
	})
	assert.ErrorIs(t, err, models.ErrReservationExpired)
}

func TestBookingService_GetBooking_InvalidID(t *testing.T) {
	svc := NewBookingService(&fakeBookingRepo{}, 30*time.Minute, "LL")

	_, err := svc.GetBooking(0)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestBookingService_GetTripBooking(t *testing.T) {
	details := &models.BookingDetails{
		Booking: models.Booking{ID: 42},
		Trip:    models.TripSummary{ID: 7},
	}
	svc := NewBookingService(&fakeBookingRepo{details: details}, 30*time.Minute, "LL")

	got, err := svc.GetTripBooking(7, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Booking.ID)

	_, err = svc.GetTripBooking(8, 42)
	assert.ErrorIs(t, err, models.ErrBookingNotFound, "wrong trip id must read as not found")
}
