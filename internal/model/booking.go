package model

import "time"

// Booking status values.  A booking is CONFIRMED on creation and counts
// toward its event's current_bookings until it is CANCELLED.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Slot types a pilot can book.  A pilot either flies the departure leg,
// the landing leg, or both.
const (
	SlotDeparture        = "DEPARTURE"
	SlotLanding          = "LANDING"
	SlotDepartureLanding = "DEPARTURE_LANDING"
)

// ValidSlotType reports whether s is one of the three recognised slot types.
func ValidSlotType(s string) bool {
	return s == SlotDeparture || s == SlotLanding || s == SlotDepartureLanding
}

// Booking records one pilot's reservation on one event as stored in the
// `bookings` table.  At most one CONFIRMED booking exists per
// (event_id, pilot_id) pair.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event being booked.
//  PilotID   – network identifier of the booking pilot.
//  SlotType  – DEPARTURE, LANDING or DEPARTURE_LANDING.
//  Status    – CONFIRMED or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	EventID   uint64    `json:"event_id"`   // bookings.event_id
	PilotID   string    `json:"pilot_id"`   // bookings.pilot_id
	SlotType  string    `json:"slot_type"`  // bookings.slot_type
	Status    string    `json:"status"`     // bookings.status
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time `json:"updated_at"` // bookings.updated_at
}

// SlotCounts partitions an event's confirmed bookings by slot type.  It is
// display-only data derived from a single consistent read.
type SlotCounts struct {
	Departure        int `json:"departure"`
	Landing          int `json:"landing"`
	DepartureLanding int `json:"departure_landing"`
}

// Total returns the sum over all slot types.
func (s SlotCounts) Total() int {
	return s.Departure + s.Landing + s.DepartureLanding
}
