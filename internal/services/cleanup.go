package services

import (
	"context"
	"log"
	"time"

	"bus-ticketing-platform/internal/monitoring"
)

// CleanupService reclaims reservations whose hold expired without payment.
// The same sweep backs both the scheduled cron endpoint and the in-process
// background loop; it is idempotent and safe to run concurrently with
// payment finalization.
type CleanupService struct {
	bookingRepo BookingRepository
	now         func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(bookingRepo BookingRepository) *CleanupService {
	return &CleanupService{
		bookingRepo: bookingRepo,
		now:         time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *CleanupService) WithClock(now func() time.Time) *CleanupService {
	s.now = now
	return s
}

// CleanupExpired deletes all expired reservations and their seat links,
// returning how many bookings were reclaimed.
func (s *CleanupService) CleanupExpired() (int, error) {
	cleaned, err := s.bookingRepo.DeleteExpired(s.now())
	if err != nil {
		return 0, err
	}
	if cleaned > 0 {
		monitoring.RecordCleanup(cleaned)
	}
	return cleaned, nil
}

// Run sweeps on a fixed interval until ctx is canceled.
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Expiry sweeper started (interval %s)", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Expiry sweeper stopped")
			return
		case <-ticker.C:
			cleaned, err := s.CleanupExpired()
			if err != nil {
				log.Printf("Error: expiry sweep failed: %v", err)
				continue
			}
			if cleaned > 0 {
				log.Printf("Expiry sweep reclaimed %d reservation(s)", cleaned)
			}
		}
	}
}
