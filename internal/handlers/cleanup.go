package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"bus-ticketing-platform/internal/middleware"
	"bus-ticketing-platform/internal/services"

	"github.com/gin-gonic/gin"
)

// CleanupHandler exposes the expiry sweep to an external scheduler. The
// endpoint is guarded by a shared bearer secret so only the scheduler can
// trigger it.
type CleanupHandler struct {
	cleanupService services.CleanupServiceInterface
	secret         string
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cleanupService services.CleanupServiceInterface, secret string) *CleanupHandler {
	return &CleanupHandler{
		cleanupService: cleanupService,
		secret:         secret,
	}
}

// CleanupBookings handles GET /api/cron/cleanup-bookings.
func (h *CleanupHandler) CleanupBookings(c *gin.Context) {
	if !h.authorized(c.GetHeader("Authorization")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cleaned, err := h.cleanupService.CleanupExpired()
	if err != nil {
		RespondBookingError(c, err)
		return
	}

	message := "Successfully cleaned up expired bookings"
	if cleaned == 0 {
		message = "No expired bookings found"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"cleaned":    cleaned,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": middleware.GetRequestID(c),
	})
}

func (h *CleanupHandler) authorized(header string) bool {
	// An unset secret keeps the endpoint closed rather than open.
	if h.secret == "" {
		return false
	}
	expected := "Bearer " + h.secret
	return subtle.ConstantTimeCompare([]byte(header), []byte(expected)) == 1
}
