package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bus-ticketing-platform/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BookingRepository owns every write to the bookings and booking_seats
// tables. All three mutations (reserve, confirm, reclaim) run inside a
// single transaction with explicit row locks; correctness under concurrency
// depends on the database, not on in-process coordination.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ReservationParams is the validated input for CreateReservation. Seat
// numbers are expected normalized and deduplicated by the service layer.
type ReservationParams struct {
	TripID        int
	SeatNumbers   []string
	Name          string
	Email         string
	DateOfBirth   string
	ReservedUntil time.Time
}

// ConfirmationParams is the validated input for ConfirmBooking.
type ConfirmationParams struct {
	BookingID          int
	ConfirmationNumber string
	BillingAddress     string
	CardType           models.PaymentMethodType
	CardLast4          string
	Now                time.Time
}

// CreateReservation atomically reserves the requested seats on a trip.
//
// The seat rows are locked with FOR UPDATE before availability is checked,
// so two concurrent reservations for overlapping seats serialize: the first
// to lock wins, the second sees the winner's links and fails with
// ErrSeatsAlreadyBooked. The unique constraint on booking_seats.seat_id
// backstops the lock discipline.
func (r *BookingRepository) CreateReservation(params ReservationParams) (*models.Booking, error) {
	if len(params.SeatNumbers) == 0 {
		return nil, models.ErrSeatsNotFound
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	passengerID, err := getOrCreatePassenger(tx, params.Name, params.Email, params.DateOfBirth)
	if err != nil {
		return nil, err
	}

	// Lock the candidate seat rows for the duration of the transaction.
	// Locking in id order keeps concurrent reservations from deadlocking on
	// overlapping seat sets.
	rows, err := tx.Query(`
		SELECT id FROM seats
		WHERE trip_id = $1 AND seat_number = ANY($2)
		ORDER BY id
		FOR UPDATE`, params.TripID, pq.Array(params.SeatNumbers))
	if err != nil {
		return nil, fmt.Errorf("failed to lock seat rows: %w", err)
	}

	var seatIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan seat id: %w", err)
		}
		seatIDs = append(seatIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seat rows: %w", err)
	}

	if len(seatIDs) != len(params.SeatNumbers) {
		return nil, models.ErrSeatsNotFound
	}

	// Availability check happens while the locks are held, so no concurrent
	// transaction can slip a competing link in between check and insert.
	var taken int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM booking_seats
		WHERE seat_id = ANY($1)`, pq.Array(seatIDs)).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}
	if taken > 0 {
		return nil, models.ErrSeatsAlreadyBooked
	}

	var cost decimal.Decimal
	err = tx.QueryRow(`SELECT cost FROM trips WHERE id = $1`, params.TripID).Scan(&cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip cost: %w", err)
	}

	amount := cost.Mul(decimal.NewFromInt(int64(len(seatIDs)))).Round(2)

	booking := &models.Booking{
		PassengerID:   passengerID,
		Status:        models.BookingReserved,
		ReservedUntil: &params.ReservedUntil,
		Amount:        amount,
	}
	err = tx.QueryRow(`
		INSERT INTO bookings (passenger_id, status, reserved_until, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		passengerID, models.BookingReserved, params.ReservedUntil, amount,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	for _, seatID := range seatIDs {
		_, err := tx.Exec(`
			INSERT INTO booking_seats (booking_id, seat_id)
			VALUES ($1, $2)`, booking.ID, seatID)
		if err != nil {
			if isUniqueViolation(err, "booking_seats_seat_id_key") {
				return nil, models.ErrSeatsAlreadyBooked
			}
			return nil, fmt.Errorf("failed to link seat %d: %w", seatID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	return booking, nil
}

// ConfirmBooking atomically finalizes payment on a live reservation. The
// booking row is locked so the expiry sweep cannot delete it mid-flight;
// expired reservations are rejected but left in place for the sweep to
// reclaim.
func (r *BookingRepository) ConfirmBooking(params ConfirmationParams) (*models.Booking, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	booking := &models.Booking{}
	var status string
	var reservedUntil sql.NullTime
	err = tx.QueryRow(`
		SELECT id, passenger_id, status, reserved_until, amount, created_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`, params.BookingID,
	).Scan(&booking.ID, &booking.PassengerID, &status, &reservedUntil, &booking.Amount, &booking.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	booking.Status = models.BookingStatus(status)

	if booking.Status == models.BookingBooked {
		return nil, models.ErrAlreadyPurchased
	}
	if booking.Status != models.BookingReserved {
		return nil, models.ErrNotReserved
	}
	// A reserved booking should always carry a deadline; treat a missing one
	// as expired rather than granting an unbounded hold.
	if !reservedUntil.Valid || reservedUntil.Time.Before(params.Now) {
		return nil, models.ErrReservationExpired
	}

	_, err = tx.Exec(`
		UPDATE bookings
		SET status = $2, confirmation_number = $3, reserved_until = NULL
		WHERE id = $1`,
		params.BookingID, models.BookingBooked, params.ConfirmationNumber)
	if err != nil {
		if isUniqueViolation(err, "bookings_confirmation_number_key") {
			return nil, fmt.Errorf("confirmation number collision for booking %d: %w", params.BookingID, err)
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE passengers
		SET billing_address = $2, payment_method_type = $3, payment_method_last4 = $4
		WHERE id = $1`,
		booking.PassengerID, params.BillingAddress, params.CardType, params.CardLast4)
	if err != nil {
		return nil, fmt.Errorf("failed to update passenger billing details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation: %w", err)
	}

	booking.Status = models.BookingBooked
	booking.ConfirmationNumber = params.ConfirmationNumber
	booking.ReservedUntil = nil
	return booking, nil
}

// DeleteExpired reclaims reservations whose hold lapsed without payment,
// releasing their seats. The candidate rows are locked before deletion: a
// finalizer racing on the same booking either commits first (the row stops
// matching the predicate and is left alone) or blocks until the sweep
// commits and then fails with not-found. Repeat sweeps re-query, so the
// operation is idempotent.
func (r *BookingRepository) DeleteExpired(now time.Time) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id FROM bookings
		WHERE status = $1 AND reserved_until < $2
		ORDER BY id
		FOR UPDATE`, models.BookingReserved, now)
	if err != nil {
		return 0, fmt.Errorf("failed to select expired bookings: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan booking id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read expired bookings: %w", err)
	}

	if len(ids) == 0 {
		return 0, tx.Commit()
	}

	if _, err := tx.Exec(`DELETE FROM booking_seats WHERE booking_id = ANY($1)`, pq.Array(ids)); err != nil {
		return 0, fmt.Errorf("failed to delete booking seat links: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM bookings WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired bookings: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup: %w", err)
	}

	return int(deleted), nil
}

// GetBookingDetails returns the joined booking/passenger/trip/seat view for
// a single booking.
func (r *BookingRepository) GetBookingDetails(bookingID int) (*models.BookingDetails, error) {
	details := &models.BookingDetails{}

	var confirmation sql.NullString
	var reservedUntil sql.NullTime
	var status string
	var dateOfBirth sql.NullString
	err := r.db.QueryRow(`
		SELECT b.id, b.confirmation_number, b.passenger_id, b.status, b.reserved_until, b.amount, b.created_at,
		       p.name, p.email, p.date_of_birth::text
		FROM bookings b
		JOIN passengers p ON p.id = b.passenger_id
		WHERE b.id = $1`, bookingID,
	).Scan(
		&details.Booking.ID, &confirmation, &details.Booking.PassengerID, &status,
		&reservedUntil, &details.Booking.Amount, &details.Booking.CreatedAt,
		&details.Passenger.Name, &details.Passenger.Email, &dateOfBirth,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking details: %w", err)
	}
	details.Booking.Status = models.BookingStatus(status)
	details.Booking.ConfirmationNumber = confirmation.String
	if reservedUntil.Valid {
		t := reservedUntil.Time
		details.Booking.ReservedUntil = &t
	}
	details.Passenger.ID = details.Booking.PassengerID
	details.Passenger.DateOfBirth = dateOfBirth.String

	tripID, seatNumbers, err := r.getBookingSeats(bookingID)
	if err != nil {
		return nil, err
	}
	details.SeatNumbers = seatNumbers

	trip, err := r.getTripSummary(tripID)
	if err != nil {
		return nil, err
	}
	details.Trip = *trip

	return details, nil
}

func (r *BookingRepository) getBookingSeats(bookingID int) (int, []string, error) {
	rows, err := r.db.Query(`
		SELECT s.trip_id, s.seat_number
		FROM booking_seats bs
		JOIN seats s ON s.id = bs.seat_id
		WHERE bs.booking_id = $1
		ORDER BY s.seat_number`, bookingID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load booking seats: %w", err)
	}
	defer rows.Close()

	var tripID int
	var seatNumbers []string
	for rows.Next() {
		var seatNumber string
		if err := rows.Scan(&tripID, &seatNumber); err != nil {
			return 0, nil, fmt.Errorf("failed to scan booking seat: %w", err)
		}
		seatNumbers = append(seatNumbers, seatNumber)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to read booking seats: %w", err)
	}

	if len(seatNumbers) == 0 {
		// A booking always links at least one seat; a bare row means the
		// links were reclaimed out from under it.
		return 0, nil, models.ErrBookingNotFound
	}

	return tripID, seatNumbers, nil
}

func (r *BookingRepository) getTripSummary(tripID int) (*models.TripSummary, error) {
	trip := &models.TripSummary{}
	err := r.db.QueryRow(`
		SELECT t.id, t.date::text, t.departure_time::text, t.arrival_time::text,
		       ol.name, ol.abbreviation, dl.name, dl.abbreviation
		FROM trips t
		JOIN routes r ON r.id = t.route_id
		JOIN locations ol ON ol.id = r.origin_location_id
		JOIN locations dl ON dl.id = r.destination_location_id
		WHERE t.id = $1`, tripID,
	).Scan(
		&trip.ID, &trip.Date, &trip.DepartureTime, &trip.ArrivalTime,
		&trip.OriginName, &trip.OriginAbbreviation,
		&trip.DestinationName, &trip.DestinationAbbreviation,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip summary: %w", err)
	}
	return trip, nil
}

// getOrCreatePassenger finds the passenger owning email or inserts a new
// one. Existing identity fields win over the submitted ones: repeat
// bookings never overwrite name or date of birth. ON CONFLICT DO NOTHING
// keeps a concurrent first booking for the same email from aborting the
// transaction; the follow-up select picks up whichever insert won.
func getOrCreatePassenger(tx *sql.Tx, name, email, dateOfBirth string) (int, error) {
	var id int
	err := tx.QueryRow(`SELECT id FROM passengers WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up passenger: %w", err)
	}

	err = tx.QueryRow(`
		INSERT INTO passengers (name, email, date_of_birth)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`, name, email, dateOfBirth).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to insert passenger: %w", err)
	}

	if err := tx.QueryRow(`SELECT id FROM passengers WHERE email = $1`, email).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to re-read passenger after conflict: %w", err)
	}
	return id, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return constraint == "" || pqErr.Constraint == constraint
	}
	return false
}
