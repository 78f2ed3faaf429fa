// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a pilot's slot booking commits.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID      uint64 `json:"booking_id"`
	EventID        uint64 `json:"event_id"`
	EventName      string `json:"event_name"`
	PilotID        string `json:"pilot_id"`
	SlotType       string `json:"slot_type"`
	Departure      string `json:"departure"`
	Arrival        string `json:"arrival"`
	EventDate      string `json:"event_date"`
	SlotsRemaining int    `json:"slots_remaining"`
	ConfirmedAt    string `json:"confirmed_at"`
}
