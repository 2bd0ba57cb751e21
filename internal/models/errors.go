package models

import "errors"

// Business-rule failures raised from inside booking transactions. Each one
// rolls the transaction back and maps to a single user-facing message;
// anything else bubbling out of a repository is treated as unexpected.
var (
	ErrSeatsNotFound      = errors.New("some selected seats do not exist")
	ErrSeatsAlreadyBooked = errors.New("one or more seats are already booked")
	ErrTripNotFound       = errors.New("trip not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrAlreadyPurchased   = errors.New("booking has already been purchased")
	ErrNotReserved        = errors.New("booking is not in reserved status")
	ErrReservationExpired = errors.New("reservation has expired")
	ErrNotConfirmed       = errors.New("booking has not been confirmed")
)

// IsBusinessError reports whether err is an expected business outcome that
// callers should render inline rather than treat as a server fault.
func IsBusinessError(err error) bool {
	for _, known := range []error{
		ErrSeatsNotFound,
		ErrSeatsAlreadyBooked,
		ErrTripNotFound,
		ErrBookingNotFound,
		ErrAlreadyPurchased,
		ErrNotReserved,
		ErrReservationExpired,
		ErrNotConfirmed,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
