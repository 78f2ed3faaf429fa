package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/queue"
	"github.com/iliyamo/airline-event-booking/internal/repository"
)

// BookingStore is the persistence surface the booking handlers need.  It
// is implemented by *repository.BookingRepo; tests substitute an
// in-memory fake that honours the same atomic contract (a full event is
// never oversold, the last slot closes the event in the same step).
type BookingStore interface {
	Book(ctx context.Context, eventID uint64, pilotID, slotType string) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID uint64, actingPilot string, staff bool) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Booking, error)
	SlotCounts(ctx context.Context, eventID uint64) (model.SlotCounts, error)
}

// BookingHandler serves slot booking, cancellation and the public slot
// counts.  Publish, when set, is invoked after a committed booking to
// emit a booking.confirmed message; publish failures are logged and
// ignored because the booking is already durable.
type BookingHandler struct {
	Bookings BookingStore
	Events   EventStore
	Publish  func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingHandler constructs a BookingHandler and panics on nil stores.
func NewBookingHandler(bookings BookingStore, events EventStore) *BookingHandler {
	if bookings == nil || events == nil {
		panic("nil store passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Events: events}
}

// CreateBooking handles POST /v1/events/:id/bookings.  The request body
// carries the pilot identifier and slot type.  Outcomes follow the
// allocator contract: 404 unknown event, 409 closed/duplicate/full,
// 201 with the confirmed booking otherwise.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req struct {
		PilotID  string `json:"pilot_id"`
		SlotType string `json:"slot_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	pilot := strings.TrimSpace(req.PilotID)
	slot := strings.ToUpper(strings.TrimSpace(req.SlotType))
	if pilot == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pilot_id is required"})
	}
	if !model.ValidSlotType(slot) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "slot_type must be DEPARTURE, LANDING or DEPARTURE_LANDING",
		})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.Book(ctx, id, pilot, slot)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrEventClosed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "event is not open for booking"})
		case errors.Is(err, repository.ErrDuplicateBooking):
			return c.JSON(http.StatusConflict, echo.Map{"error": "pilot already booked on this event"})
		case errors.Is(err, repository.ErrEventFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": "event is fully booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	h.publishConfirmed(ctx, booking)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"booking": booking,
	})
}

// CancelBooking handles DELETE /v1/bookings/:id (pilot self-service) and
// DELETE /v1/admin/bookings/:id (staff acting on any booking).  The
// acting pilot comes from the pilot_id query parameter; the admin
// middleware marks staff requests in the context.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	staff, _ := c.Get("is_staff").(bool)
	pilot := strings.TrimSpace(c.QueryParam("pilot_id"))
	if !staff && pilot == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pilot_id is required"})
	}

	booking, err := h.Bookings.Cancel(c.Request().Context(), bookingID, pilot, staff)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"booking": booking,
	})
}

// ListEventBookings handles GET /v1/admin/events/:id/bookings.  Staff
// use it to pull the confirmed roster of an event.
func (h *BookingHandler) ListEventBookings(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	bookings, err := h.Bookings.ListByEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id": id,
		"items":    bookings,
	})
}

// SlotCounts handles GET /v1/events/:id/slots.  It returns the confirmed
// bookings of the event partitioned by slot type.
func (h *BookingHandler) SlotCounts(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	counts, err := h.Bookings.SlotCounts(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load slot counts"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id": id,
		"slots":    counts,
		"total":    counts.Total(),
	})
}

// publishConfirmed emits a booking.confirmed message.  The event details
// are loaded best-effort; any failure here must not affect the response.
func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		EventID:     b.EventID,
		PilotID:     b.PilotID,
		SlotType:    b.SlotType,
		ConfirmedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e, err := h.Events.GetByID(ctx, b.EventID); err == nil {
		ev.EventName = e.Name
		ev.Departure = e.Departure
		ev.Arrival = e.Arrival
		ev.EventDate = e.Date
		ev.SlotsRemaining = e.Remaining()
	}
	if err := h.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
