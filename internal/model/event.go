package model

import "time"

// Event status values.  An event starts ACTIVE, becomes CLOSED when its
// capacity is reached or a staff member closes it manually, and CANCELLED
// is terminal.
const (
	EventActive    = "ACTIVE"
	EventClosed    = "CLOSED"
	EventCancelled = "CANCELLED"
)

// Reasons an event can be in the CLOSED state.  A capacity close is undone
// automatically when a booking is cancelled; a manual close is not.
const (
	ClosedByCapacity = "CAPACITY"
	ClosedManually   = "MANUAL"
)

// DefaultMaxPilots is applied when an event is created without a positive
// pilot limit.
const DefaultMaxPilots = 10

// Event represents one bookable flying event as stored in the `events`
// table.  Pilots book slots against it until the pilot limit is reached.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the event.
//  Description     – optional longer description.
//  Departure       – ICAO code of the departure airport.
//  Arrival         – ICAO code of the arrival airport.
//  Date            – calendar date the event takes place on.
//  Time            – free-form schedule text (e.g. "1800z-2100z").
//  Picture         – optional public URL of an uploaded event picture.
//  Route           – optional flight-plan route string.
//  Airline         – optional virtual-airline tag.
//  MaxPilots       – maximum number of confirmed bookings.
//  CurrentBookings – number of confirmed bookings; never exceeds MaxPilots.
//  Status          – ACTIVE, CLOSED or CANCELLED.
//  ClosedReason    – CAPACITY or MANUAL while CLOSED, nil otherwise.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Event struct {
	ID              uint64    `json:"id"`               // events.id
	Name            string    `json:"name"`             // events.name
	Description     string    `json:"description"`      // events.description
	Departure       string    `json:"departure"`        // events.departure
	Arrival         string    `json:"arrival"`          // events.arrival
	Date            string    `json:"date"`             // events.event_date (YYYY-MM-DD)
	Time            string    `json:"time"`             // events.event_time (free-form)
	Picture         *string   `json:"picture,omitempty"` // events.picture (nullable)
	Route           *string   `json:"route,omitempty"`  // events.route (nullable)
	Airline         *string   `json:"airline,omitempty"` // events.airline (nullable)
	MaxPilots       int       `json:"max_pilots"`       // events.max_pilots
	CurrentBookings int       `json:"current_bookings"` // events.current_bookings
	Status          string    `json:"status"`           // events.status
	ClosedReason    *string   `json:"-"`                // events.closed_reason (nullable)
	CreatedAt       time.Time `json:"created_at"`       // events.created_at
	UpdatedAt       time.Time `json:"updated_at"`       // events.updated_at
}

// Remaining returns the number of slots still available.
func (e *Event) Remaining() int {
	return e.MaxPilots - e.CurrentBookings
}

// IsFull returns true when no slots remain.
func (e *Event) IsFull() bool {
	return e.CurrentBookings >= e.MaxPilots
}

// CanTransition reports whether an event status change is allowed.
// ACTIVE may close, ACTIVE and CLOSED may cancel, and a capacity-closed
// event reopens to ACTIVE when a booking is cancelled.  CANCELLED is
// terminal.
func CanTransition(from, to string) bool {
	switch from {
	case EventActive:
		return to == EventClosed || to == EventCancelled
	case EventClosed:
		return to == EventActive || to == EventCancelled
	default:
		return false
	}
}
