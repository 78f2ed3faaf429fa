package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/airline-event-booking/internal/model"
)

// EventRepo provides persistence for events.  It owns the event lifecycle:
// creation, status transitions and the capacity counter that the booking
// repository mutates inside its transactions.  All timestamps are stored
// in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, name, description, departure, arrival, event_date, event_time,
		picture, route, airline, max_pilots, current_bookings, status, closed_reason,
		created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var (
		e       model.Event
		desc    sql.NullString
		picture sql.NullString
		route   sql.NullString
		airline sql.NullString
		reason  sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Name, &desc, &e.Departure, &e.Arrival, &e.Date, &e.Time,
		&picture, &route, &airline, &e.MaxPilots, &e.CurrentBookings, &e.Status, &reason,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	if picture.Valid {
		v := picture.String
		e.Picture = &v
	}
	if route.Valid {
		v := route.String
		e.Route = &v
	}
	if airline.Valid {
		v := airline.String
		e.Airline = &v
	}
	if reason.Valid {
		v := reason.String
		e.ClosedReason = &v
	}
	return &e, nil
}

// Create inserts a new ACTIVE event with zero bookings and returns the
// stored row including its generated ID and timestamps.  Field validation
// and the max-pilots default are the handler's responsibility; the
// repository stores what it is given.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	const q = `INSERT INTO events
		(name, description, departure, arrival, event_date, event_time,
		 picture, route, airline, max_pilots, current_bookings, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, q,
		e.Name, nullable(e.Description), e.Departure, e.Arrival, e.Date, e.Time,
		nullablePtr(e.Picture), nullablePtr(e.Route), nullablePtr(e.Airline), e.MaxPilots,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID returns the event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// List returns all events ordered newest first.  It backs the public
// browse endpoint; cancelled events are included so pilots can see the
// full roster history.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateStatus applies a staff-initiated status change: ACTIVE -> CLOSED
// (manual close) or ACTIVE/CLOSED -> CANCELLED.  Reopening happens only
// through booking cancellation, so an ACTIVE target is rejected here.
// The check-and-write runs inside a transaction with the event row
// locked, so a concurrent booking cannot interleave between the read and
// the update.  Returns ErrEventNotFound or ErrInvalidTransition.
func (r *EventRepo) UpdateStatus(ctx context.Context, id uint64, to string) (*model.Event, error) {
	if to != model.EventClosed && to != model.EventCancelled {
		return nil, ErrInvalidTransition
	}
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

	var from string
	err = tx.QueryRowContext(ctx, `SELECT status FROM events WHERE id = ? FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if from == to || !model.CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	// Manual closes are flagged so booking cancellations never reopen them.
	var reason any
	if to == model.EventClosed {
		reason = model.ClosedManually
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET status = ?, closed_reason = ? WHERE id = ?`,
		to, reason, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, id)
}

// SetPicture stores the public URL of an uploaded event picture.
func (r *EventRepo) SetPicture(ctx context.Context, id uint64, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET picture = ? WHERE id = ?`, url, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullablePtr maps a nil or empty pointer to SQL NULL.
func nullablePtr(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
