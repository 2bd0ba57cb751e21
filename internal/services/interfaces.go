package services

import (
	"bus-ticketing-platform/internal/models"
)

// BookingServiceInterface defines the booking operations handlers depend on.
type BookingServiceInterface interface {
	CreateReservation(req *models.CreateBookingRequest) (*models.Booking, error)
	ConfirmPayment(req *models.PaymentRequest) (*models.Booking, error)
	GetBooking(bookingID int) (*models.BookingDetails, error)
	GetTripBooking(tripID, bookingID int) (*models.BookingDetails, error)
}

// CleanupServiceInterface defines the sweep operation the cron handler
// depends on.
type CleanupServiceInterface interface {
	CleanupExpired() (int, error)
}

// ETicketServiceInterface defines ticket rendering for handlers.
type ETicketServiceInterface interface {
	GenerateETicket(details *models.BookingDetails) ([]byte, string, error)
}
