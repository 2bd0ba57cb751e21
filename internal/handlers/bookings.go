package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"bus-ticketing-platform/internal/models"
	"bus-ticketing-platform/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the reservation and payment flows.
type BookingHandler struct {
	bookingService services.BookingServiceInterface
	eticketService services.ETicketServiceInterface
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService services.BookingServiceInterface, eticketService services.ETicketServiceInterface) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		eticketService: eticketService,
	}
}

// CreateBooking handles POST /api/trips/:tripId/bookings. On success the
// seats are held for the reservation window and the client is expected to
// proceed to payment.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	req.TripID = tripID

	booking, err := h.bookingService.CreateReservation(&req)
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking_id":     booking.ID,
		"status":         booking.Status,
		"amount":         booking.Amount.StringFixed(2),
		"reserved_until": booking.ReservedUntil,
	})
}

// ConfirmPayment handles POST /api/bookings/:id/payment.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	req.BookingID = bookingID

	booking, err := h.bookingService.ConfirmPayment(&req)
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id":          booking.ID,
		"status":              booking.Status,
		"amount":              booking.Amount.StringFixed(2),
		"confirmation_number": booking.ConfirmationNumber,
	})
}

// GetBooking handles GET /api/trips/:tripId/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	tripID, ok := pathID(c, "tripId")
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.bookingService.GetTripBooking(tripID, bookingID)
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetETicket handles GET /api/bookings/:id/eticket, returning the PDF
// ticket for a confirmed booking.
func (h *BookingHandler) GetETicket(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	pdfBytes, filename, err := h.eticketService.GenerateETicket(details)
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid %s", name), nil)
		return 0, false
	}
	return id, true
}
