package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/acars"
)

// TelexSender relays one text message to an aircraft.  It is implemented
// by *acars.Client; tests substitute a stub.
type TelexSender interface {
	SendTelex(ctx context.Context, to, message string) (*acars.Confirmation, error)
}

// DispatchHandler serves the admin-gated outbound ACARS dispatch
// endpoint.
type DispatchHandler struct {
	Relay TelexSender
}

// NewDispatchHandler constructs a DispatchHandler and panics on a nil
// relay.
func NewDispatchHandler(relay TelexSender) *DispatchHandler {
	if relay == nil {
		panic("nil relay passed to NewDispatchHandler")
	}
	return &DispatchHandler{Relay: relay}
}

// SendMessage handles POST /v1/admin/dispatch.  One request is one relay
// round trip; a gateway rejection or transport failure is a 500 and is
// never retried.
func (h *DispatchHandler) SendMessage(c echo.Context) error {
	var req struct {
		AircraftCallsign string `json:"aircraft_callsign"`
		Message          string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	callsign := strings.ToUpper(strings.TrimSpace(req.AircraftCallsign))
	message := strings.TrimSpace(req.Message)
	if callsign == "" || message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "aircraft_callsign and message are required"})
	}

	conf, err := h.Relay.SendTelex(c.Request().Context(), callsign, message)
	if err != nil {
		if errors.Is(err, acars.ErrNotConfigured) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "dispatch relay is not configured"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to relay message"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   "telex sent to " + conf.Recipient,
		"recipient": conf.Recipient,
		"timestamp": conf.SentAt.Format(time.RFC3339),
	})
}
