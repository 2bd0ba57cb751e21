package handlers

import (
	"errors"
	"log"
	"net/http"

	"bus-ticketing-platform/internal/middleware"
	"bus-ticketing-platform/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError sends a standard error payload with the request id included.
func respondError(c *gin.Context, status int, message string, fields models.ValidationErrors) {
	payload := gin.H{
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	}
	if len(fields) > 0 {
		payload["fields"] = fields
	}
	c.JSON(status, payload)
}

// RespondBookingError maps booking errors onto HTTP responses. Business
// failures surface their own message and log at warn; anything unexpected
// logs at error and surfaces a generic message so internal details never
// reach the client.
func RespondBookingError(c *gin.Context, err error) {
	var fieldErrs models.ValidationErrors
	if errors.As(err, &fieldErrs) {
		respondError(c, http.StatusBadRequest, "validation failed", fieldErrs)
		return
	}

	if models.IsBusinessError(err) {
		log.Printf("Warning: booking request rejected: %v (request_id=%s)", err, middleware.GetRequestID(c))
		respondError(c, businessErrorStatus(err), err.Error(), nil)
		return
	}

	log.Printf("Error: booking request failed: %v (request_id=%s)", err, middleware.GetRequestID(c))
	respondError(c, http.StatusInternalServerError, "failed to process booking", nil)
}

func businessErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrSeatsNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSeatsAlreadyBooked),
		errors.Is(err, models.ErrAlreadyPurchased),
		errors.Is(err, models.ErrNotReserved),
		errors.Is(err, models.ErrNotConfirmed):
		return http.StatusConflict
	case errors.Is(err, models.ErrReservationExpired):
		return http.StatusGone
	default:
		return http.StatusBadRequest
	}
}
