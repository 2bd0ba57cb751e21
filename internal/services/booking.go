package services

import (
	"strings"
	"time"

	"bus-ticketing-platform/internal/models"
	"bus-ticketing-platform/internal/monitoring"
	"bus-ticketing-platform/internal/repositories"
)

// BookingRepository interface for booking data operations
type BookingRepository interface {
	CreateReservation(params repositories.ReservationParams) (*models.Booking, error)
	ConfirmBooking(params repositories.ConfirmationParams) (*models.Booking, error)
	DeleteExpired(now time.Time) (int, error)
	GetBookingDetails(bookingID int) (*models.BookingDetails, error)
}

// BookingService drives the reservation and payment flows. Input validation
// happens here, before any transaction opens; everything transactional is
// delegated to the repository. The clock and the confirmation-number
// generator are injectable so expiry and code-format behavior are
// deterministic under test.
type BookingService struct {
	bookingRepo          BookingRepository
	reservationWindow    time.Duration
	confirmationPrefix   string
	now                  func() time.Time
	generateConfirmation func(prefix string) string
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo BookingRepository, reservationWindow time.Duration, confirmationPrefix string) *BookingService {
	return &BookingService{
		bookingRepo:          bookingRepo,
		reservationWindow:    reservationWindow,
		confirmationPrefix:   confirmationPrefix,
		now:                  time.Now,
		generateConfirmation: models.GenerateConfirmationNumber,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// WithConfirmationGenerator overrides the confirmation-number generator.
// Used by tests.
func (s *BookingService) WithConfirmationGenerator(generate func(prefix string) string) *BookingService {
	s.generateConfirmation = generate
	return s
}

// CreateReservation validates the request and places a time-boxed hold on
// the selected seats.
func (s *BookingService) CreateReservation(req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		monitoring.RecordReservation("invalid")
		return nil, err
	}

	booking, err := s.bookingRepo.CreateReservation(repositories.ReservationParams{
		TripID:        req.TripID,
		SeatNumbers:   req.NormalizedSeatNumbers(),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		DateOfBirth:   strings.TrimSpace(req.DateOfBirth),
		ReservedUntil: s.now().Add(s.reservationWindow),
	})
	if err != nil {
		monitoring.RecordReservation(outcomeLabel(err))
		return nil, err
	}

	monitoring.RecordReservation("success")
	return booking, nil
}

// ConfirmPayment validates the simulated card details and finalizes the
// reservation, returning the booking with its confirmation number set.
// Nothing is charged; only the card type and last four digits persist.
func (s *BookingService) ConfirmPayment(req *models.PaymentRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		monitoring.RecordPayment("invalid")
		return nil, err
	}

	booking, err := s.bookingRepo.ConfirmBooking(repositories.ConfirmationParams{
		BookingID:          req.BookingID,
		ConfirmationNumber: s.generateConfirmation(s.confirmationPrefix),
		BillingAddress:     strings.TrimSpace(req.BillingAddress),
		CardType:           models.PaymentMethodType(strings.ToLower(strings.TrimSpace(req.CardType))),
		CardLast4:          req.CardLast4(),
		Now:                s.now(),
	})
	if err != nil {
		monitoring.RecordPayment(outcomeLabel(err))
		return nil, err
	}

	monitoring.RecordPayment("success")
	return booking, nil
}

// GetBooking returns the joined details view for a booking.
func (s *BookingService) GetBooking(bookingID int) (*models.BookingDetails, error) {
	if bookingID <= 0 {
		return nil, models.ErrBookingNotFound
	}
	return s.bookingRepo.GetBookingDetails(bookingID)
}

// GetTripBooking returns booking details scoped to a trip: a booking looked
// up under the wrong trip id is reported as not found rather than leaked.
func (s *BookingService) GetTripBooking(tripID, bookingID int) (*models.BookingDetails, error) {
	details, err := s.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if details.Trip.ID != tripID {
		return nil, models.ErrBookingNotFound
	}
	return details, nil
}

func outcomeLabel(err error) string {
	if models.IsBusinessError(err) {
		return "rejected"
	}
	return "error"
}
