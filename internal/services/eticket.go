package services

import (
	"bytes"
	"fmt"
	"strings"

	"bus-ticketing-platform/internal/models"

	"github.com/phpdave11/gofpdf"
)

// ETicketService renders a printable PDF ticket for a confirmed booking.
type ETicketService struct{}

// NewETicketService creates a new e-ticket service
func NewETicketService() *ETicketService {
	return &ETicketService{}
}

// GenerateETicket builds the PDF for a booking that has been paid for.
// Reservations that are still pending payment have no ticket.
func (s *ETicketService) GenerateETicket(details *models.BookingDetails) ([]byte, string, error) {
	if details.Booking.Status != models.BookingBooked {
		return nil, "", models.ErrNotConfirmed
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Confirmation : %s", details.Booking.ConfirmationNumber),
		fmt.Sprintf("Passenger    : %s", details.Passenger.Name),
		fmt.Sprintf("Email        : %s", details.Passenger.Email),
		fmt.Sprintf("Route        : %s (%s) -> %s (%s)",
			details.Trip.OriginName, details.Trip.OriginAbbreviation,
			details.Trip.DestinationName, details.Trip.DestinationAbbreviation),
		fmt.Sprintf("Date         : %s", details.Trip.Date),
		fmt.Sprintf("Departure    : %s", details.Trip.DepartureTime),
		fmt.Sprintf("Arrival      : %s", details.Trip.ArrivalTime),
		fmt.Sprintf("Seats        : %s", strings.Join(details.SeatNumbers, ", ")),
		fmt.Sprintf("Amount paid  : %s", details.Booking.Amount.StringFixed(2)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this ticket when boarding. Valid for the listed seats only.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render e-ticket: %w", err)
	}

	filename := fmt.Sprintf("eticket_%s.pdf", details.Booking.ConfirmationNumber)
	return buf.Bytes(), filename, nil
}
