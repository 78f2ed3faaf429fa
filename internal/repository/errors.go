// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting database error strings. Handlers translate them into the
// matching HTTP status codes.
package repository

import "errors"

// ErrEventNotFound is returned when an event does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking does not exist or has
// already been cancelled. Handlers should translate this into an HTTP
// 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrStaffNotFound is returned when a staff member does not exist.
var ErrStaffNotFound = errors.New("staff member not found")

// ErrEventClosed is returned when a booking is attempted against an
// event that is CLOSED or CANCELLED. Handlers should translate this
// into an HTTP 409 response.
var ErrEventClosed = errors.New("event is not open for booking")

// ErrEventFull is returned when an event has no remaining slots.
// Handlers should translate this into an HTTP 409 response.
var ErrEventFull = errors.New("event is fully booked")

// ErrDuplicateBooking is returned when a pilot already holds a
// confirmed booking on the event, regardless of slot type. Handlers
// should translate this into an HTTP 409 response.
var ErrDuplicateBooking = errors.New("pilot already booked on this event")

// ErrInvalidTransition is returned when an event status change is not
// allowed by the lifecycle, such as reactivating a cancelled event.
// Handlers should translate this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid event status transition")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another pilot's
// booking. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a staff email address is already
// registered. Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrAPIKeyExists is returned when a staff API key is already issued.
// Handlers should translate this into an HTTP 409 response.
var ErrAPIKeyExists = errors.New("api key already exists")
