package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingReserved BookingStatus = "reserved"
	BookingBooked   BookingStatus = "booked"
	// BookingCanceled exists in the schema but no core path produces it.
	BookingCanceled BookingStatus = "canceled"
)

// Booking is a hold (and, once paid, a purchase) on one or more seats for a
// single trip. While status is "reserved" the hold is only valid until
// ReservedUntil; payment flips it to "booked" and clears the deadline.
type Booking struct {
	ID                 int             `json:"id" db:"id"`
	ConfirmationNumber string          `json:"confirmation_number,omitempty" db:"confirmation_number"`
	PassengerID        int             `json:"passenger_id" db:"passenger_id"`
	Status             BookingStatus   `json:"status" db:"status"`
	ReservedUntil      *time.Time      `json:"reserved_until,omitempty" db:"reserved_until"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}

// BookingSeat links a booking to one seat. The storage layer enforces that a
// seat id appears in at most one link, ever.
type BookingSeat struct {
	ID        int       `json:"id" db:"id"`
	BookingID int       `json:"booking_id" db:"booking_id"`
	SeatID    int       `json:"seat_id" db:"seat_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BookingDetails is the joined view returned for confirmation pages and
// e-tickets: the booking, the passenger who owns it, the trip it is on and
// the seat numbers it holds.
type BookingDetails struct {
	Booking     Booking     `json:"booking"`
	Passenger   Passenger   `json:"passenger"`
	Trip        TripSummary `json:"trip"`
	SeatNumbers []string    `json:"seat_numbers"`
}

// CreateBookingRequest carries the user-submitted data for a new
// reservation.
type CreateBookingRequest struct {
	TripID      int      `json:"-"`
	SeatNumbers []string `json:"seats"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	DateOfBirth string   `json:"date_of_birth"`
}

// PaymentRequest carries the simulated card details submitted to finalize a
// reservation. The card is validated for shape only and never charged; only
// the card type and last four digits are persisted.
type PaymentRequest struct {
	BookingID      int    `json:"-"`
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	BillingAddress string `json:"billing_address"`
	CardType       string `json:"card_type"`
}

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	cardNumberRegex = regexp.MustCompile(`^[0-9]{12,19}$`)
	cvvRegex        = regexp.MustCompile(`^[0-9]{3,4}$`)
	expiryRegex     = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	// Confirmation number format: <prefix>-<base36 timestamp>-<base36 random>
	confirmationRegex = regexp.MustCompile(`^[A-Z0-9]+-[0-9A-Z]+-[0-9A-Z]{6}$`)
)

// Validate checks the reservation input field by field. It does not touch
// the database; seat existence and availability are transactional concerns.
func (req *CreateBookingRequest) Validate() error {
	errs := ValidationErrors{}

	if req.TripID <= 0 {
		errs.Add("trip_id", "trip id is required")
	}

	if len(req.NormalizedSeatNumbers()) == 0 {
		errs.Add("seats", "select at least one seat")
	}
	for _, seat := range req.SeatNumbers {
		if len(strings.TrimSpace(seat)) > 10 {
			errs.Add("seats", fmt.Sprintf("seat number %q is invalid", seat))
		}
	}

	if strings.TrimSpace(req.Name) == "" {
		errs.Add("name", "name is required")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs.Add("email", "email is required")
	} else if !emailRegex.MatchString(email) {
		errs.Add("email", "email format is invalid")
	}

	dob := strings.TrimSpace(req.DateOfBirth)
	if dob == "" {
		errs.Add("date_of_birth", "date of birth is required")
	} else if parsed, err := time.Parse("2006-01-02", dob); err != nil {
		errs.Add("date_of_birth", "date of birth must be YYYY-MM-DD")
	} else if parsed.After(time.Now()) {
		errs.Add("date_of_birth", "date of birth must be in the past")
	}

	return errs.OrNil()
}

// NormalizedSeatNumbers returns the requested seat numbers trimmed,
// upper-cased and deduplicated, preserving first-seen order. Callers are
// supposed to deduplicate before submitting, but the core must not rely on
// that.
func (req *CreateBookingRequest) NormalizedSeatNumbers() []string {
	seen := make(map[string]bool, len(req.SeatNumbers))
	out := make([]string, 0, len(req.SeatNumbers))
	for _, seat := range req.SeatNumbers {
		seat = strings.ToUpper(strings.TrimSpace(seat))
		if seat == "" || seen[seat] {
			continue
		}
		seen[seat] = true
		out = append(out, seat)
	}
	return out
}

// Validate checks the payment input field by field.
func (req *PaymentRequest) Validate() error {
	errs := ValidationErrors{}

	if req.BookingID <= 0 {
		errs.Add("booking_id", "booking id is required")
	}

	if strings.TrimSpace(req.CardholderName) == "" {
		errs.Add("cardholder_name", "cardholder name is required")
	}

	if !cardNumberRegex.MatchString(stripSpaces(req.CardNumber)) {
		errs.Add("card_number", "card number must be 12-19 digits")
	}

	if match := expiryRegex.FindStringSubmatch(strings.TrimSpace(req.Expiry)); match == nil {
		errs.Add("expiry", "expiry must be MM/YY")
	} else {
		month, _ := strconv.Atoi(match[1])
		year, _ := strconv.Atoi(match[2])
		endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
		if !endOfMonth.After(time.Now().UTC()) {
			errs.Add("expiry", "card has expired")
		}
	}

	if !cvvRegex.MatchString(strings.TrimSpace(req.CVV)) {
		errs.Add("cvv", "cvv must be 3-4 digits")
	}

	if strings.TrimSpace(req.BillingAddress) == "" {
		errs.Add("billing_address", "billing address is required")
	}

	switch PaymentMethodType(strings.ToLower(strings.TrimSpace(req.CardType))) {
	case PaymentMethodCredit, PaymentMethodDebit:
	default:
		errs.Add("card_type", "card type must be credit or debit")
	}

	return errs.OrNil()
}

// CardLast4 returns the last four characters of the card number with all
// whitespace stripped.
func (req *PaymentRequest) CardLast4() string {
	digits := stripSpaces(req.CardNumber)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// GenerateConfirmationNumber produces a confirmation code in the form
// <prefix>-<base36 timestamp>-<base36 random, zero-padded to 6 chars>.
// Uniqueness is ultimately enforced by the column constraint; a collision
// surfaces as a retryable failure, not a silent duplicate.
func GenerateConfirmationNumber(prefix string) string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	max := big.NewInt(36 * 36 * 36 * 36 * 36 * 36)
	randomNum, err := rand.Int(rand.Reader, max)
	var randomPart string
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		randomPart = strconv.FormatInt(time.Now().UnixNano()%max.Int64(), 36)
	} else {
		randomPart = randomNum.Text(36)
	}
	randomPart = strings.ToUpper(randomPart)
	if pad := 6 - len(randomPart); pad > 0 {
		randomPart = strings.Repeat("0", pad) + randomPart
	}

	return fmt.Sprintf("%s-%s-%s", prefix, timestamp, randomPart)
}

// IsValidConfirmationNumber reports whether s matches the generated format.
func IsValidConfirmationNumber(s string) bool {
	return confirmationRegex.MatchString(s)
}
