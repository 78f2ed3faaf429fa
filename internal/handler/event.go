package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/repository"
)

// EventStore is the persistence surface the event handlers need.  It is
// implemented by *repository.EventRepo; tests substitute an in-memory
// fake.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	UpdateStatus(ctx context.Context, id uint64, to string) (*model.Event, error)
}

// EventHandler serves event creation, browsing and status changes.  The
// mutating endpoints sit behind the admin middleware; browsing is public.
type EventHandler struct {
	Events EventStore
}

// NewEventHandler constructs an EventHandler and panics on a nil store.
func NewEventHandler(events EventStore) *EventHandler {
	if events == nil {
		panic("nil event store passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

// createEventReq is the payload for POST /v1/admin/events.  MaxPilots is
// a pointer so "field omitted" and "field present" can be told apart,
// although both an omitted and a non-positive value fall back to the
// default of 10.
type createEventReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Picture     string `json:"picture"`
	Route       string `json:"route"`
	Airline     string `json:"airline"`
	MaxPilots   *int   `json:"max_pilots"`
}

// CreateEvent handles POST /v1/admin/events.  It validates that name,
// departure, arrival, date and time are present, applies the max-pilots
// default and persists a new ACTIVE event.  Nothing is written when
// validation fails.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Departure = strings.ToUpper(strings.TrimSpace(req.Departure))
	req.Arrival = strings.ToUpper(strings.TrimSpace(req.Arrival))
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	if req.Name == "" || req.Departure == "" || req.Arrival == "" || req.Date == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name, departure, arrival, date and time are required",
		})
	}

	maxPilots := model.DefaultMaxPilots
	if req.MaxPilots != nil && *req.MaxPilots > 0 {
		maxPilots = *req.MaxPilots
	}

	e := &model.Event{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Departure:   req.Departure,
		Arrival:     req.Arrival,
		Date:        req.Date,
		Time:        req.Time,
		MaxPilots:   maxPilots,
		Status:      model.EventActive,
	}
	if v := strings.TrimSpace(req.Picture); v != "" {
		e.Picture = &v
	}
	if v := strings.TrimSpace(req.Route); v != "" {
		e.Route = &v
	}
	if v := strings.TrimSpace(req.Airline); v != "" {
		e.Airline = &v
	}

	created, err := h.Events.Create(c.Request().Context(), e)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"event":   created,
	})
}

// ListEvents handles GET /v1/events.  It returns all events, newest
// first, for public browsing.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	e, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": e})
}

// UpdateEventStatus handles PATCH /v1/admin/events/:id/status.  The only
// staff-initiated transitions are closing an active event and cancelling
// an active or closed one; everything else is rejected with 409.
func (h *EventHandler) UpdateEventStatus(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	to := strings.ToUpper(strings.TrimSpace(req.Status))
	if to == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	updated, err := h.Events.UpdateStatus(c.Request().Context(), id, to)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"event":   updated,
	})
}

// eventID parses the :id path parameter.
func eventID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
