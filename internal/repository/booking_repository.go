package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/utils"
)

// BookingRepo provides persistence for bookings.  The booking path is the
// one place concurrent access matters: multiple pilots may race for the
// last slot of the same event, so every mutation runs inside a
// transaction that first takes a row-level lock on the event.  Taking
// SELECT ... FOR UPDATE on the event row serialises the read-check-write
// sequence per event: a second transaction blocks on the same lock until
// the first commits, so two racing requests can never both observe free
// capacity.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, event_id, pilot_id, slot_type, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.EventID, &b.PilotID, &b.SlotType, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Book creates a CONFIRMED booking for the pilot on the event.  The
// capacity check, duplicate check, insert and counter increment all
// happen under the event row lock and commit or roll back together.
// When the increment fills the last slot the event is closed in the same
// transaction.  Returns ErrEventNotFound, ErrEventClosed,
// ErrDuplicateBooking or ErrEventFull.
func (r *BookingRepo) Book(ctx context.Context, eventID uint64, pilotID, slotType string) (*model.Booking, error) {
	defer utils.StartTimer("booking.book").Stop()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the event row for the duration of the transaction.
	var (
		status          string
		maxPilots       int
		currentBookings int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, max_pilots, current_bookings FROM events WHERE id = ? FOR UPDATE`,
		eventID).Scan(&status, &maxPilots, &currentBookings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != model.EventActive {
		return nil, ErrEventClosed
	}

	// One confirmed booking per pilot per event, regardless of slot type.
	var dup int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id = ? AND pilot_id = ? AND status = 'CONFIRMED'`,
		eventID, pilotID).Scan(&dup); err != nil {
		return nil, err
	}
	if dup > 0 {
		return nil, ErrDuplicateBooking
	}

	if currentBookings >= maxPilots {
		return nil, ErrEventFull
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (event_id, pilot_id, slot_type, status) VALUES (?, ?, ?, 'CONFIRMED')`,
		eventID, pilotID, slotType)
	if err != nil {
		return nil, err
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if currentBookings+1 >= maxPilots {
		// Last slot taken: close the event in the same atomic step.
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET current_bookings = current_bookings + 1,
					status = 'CLOSED', closed_reason = 'CAPACITY'
			 WHERE id = ?`, eventID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET current_bookings = current_bookings + 1 WHERE id = ?`, eventID)
	}
	if err != nil {
		return nil, err
	}

	booking, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, bookingID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// Cancel marks a CONFIRMED booking CANCELLED and frees its slot.  A
// missing or already-cancelled booking yields ErrBookingNotFound; a
// pilot cancelling someone else's booking yields ErrForbidden (staff
// bypass the ownership check).  When the freed slot belonged to an event
// that was closed by reaching capacity, the event reopens to ACTIVE in
// the same transaction; manually closed events keep their status.  A
// booking on a CANCELLED event is already void, so cancelling it reads
// as not found and the event is left untouched.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID uint64, actingPilot string, staff bool) (*model.Booking, error) {
	defer utils.StartTimer("booking.cancel").Stop()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? AND status = 'CONFIRMED' FOR UPDATE`,
		bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if !staff && booking.PilotID != actingPilot {
		return nil, ErrForbidden
	}

	// Lock the owning event before touching its counter.
	var (
		status string
		reason sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		`SELECT status, closed_reason FROM events WHERE id = ? FOR UPDATE`,
		booking.EventID).Scan(&status, &reason)
	if err != nil {
		return nil, err
	}
	if status == model.EventCancelled {
		return nil, ErrBookingNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED' WHERE id = ?`, bookingID); err != nil {
		return nil, err
	}

	reopen := status == model.EventClosed && reason.Valid && reason.String == model.ClosedByCapacity
	if reopen {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET current_bookings = current_bookings - 1,
					status = 'ACTIVE', closed_reason = NULL
			 WHERE id = ? AND current_bookings > 0`, booking.EventID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET current_bookings = current_bookings - 1
			 WHERE id = ? AND current_bookings > 0`, booking.EventID)
	}
	if err != nil {
		return nil, err
	}

	updated, err := scanBooking(tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, bookingID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return updated, nil
}

// ListByEvent returns all confirmed bookings for an event, oldest first.
// It backs the admin roster view.  Returns ErrEventNotFound when the
// event does not exist, so an empty roster and a bad ID read differently.
func (r *BookingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Booking, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE id = ?`, eventID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrEventNotFound
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE event_id = ? AND status = 'CONFIRMED'
		 ORDER BY created_at ASC, id ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// SlotCounts returns the confirmed bookings of an event partitioned by
// slot type.  The counts come from a single GROUP BY query, so the
// snapshot is consistent: an in-flight booking transaction is either
// fully visible or not at all.  Returns ErrEventNotFound when the event
// does not exist.
func (r *BookingRepo) SlotCounts(ctx context.Context, eventID uint64) (model.SlotCounts, error) {
	var counts model.SlotCounts
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE id = ?`, eventID).Scan(&exists); err != nil {
		return counts, err
	}
	if exists == 0 {
		return counts, ErrEventNotFound
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT slot_type, COUNT(*) FROM bookings
		 WHERE event_id = ? AND status = 'CONFIRMED'
		 GROUP BY slot_type`, eventID)
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			slotType string
			n        int
		)
		if err := rows.Scan(&slotType, &n); err != nil {
			return counts, err
		}
		switch slotType {
		case model.SlotDeparture:
			counts.Departure = n
		case model.SlotLanding:
			counts.Landing = n
		case model.SlotDepartureLanding:
			counts.DepartureLanding = n
		}
	}
	return counts, rows.Err()
}
