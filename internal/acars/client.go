// Package acars implements the outbound dispatch relay: a thin client for
// a Hoppie-style ACARS gateway.  The gateway speaks a plain-text protocol
// over HTTP GET; a response body containing "ok" (any case) means the
// message was accepted and anything else is a failure.  One call is one
// round trip; nothing is retried.
package acars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the relay's logon code or sender
// callsign is missing.  Handlers should translate this into an HTTP 500
// response: the request was fine, the server is not set up to relay.
var ErrNotConfigured = errors.New("acars relay is not configured")

// ErrGateway is returned (wrapped with detail) for any upstream failure:
// transport errors, non-2xx statuses and rejection responses.  Handlers
// should translate this into an HTTP 500 response.
var ErrGateway = errors.New("acars gateway error")

// userAgent identifies this service on outbound relay requests.
const userAgent = "airline-event-booking-dispatch/1.0"

// Confirmation reports a successfully relayed message.
type Confirmation struct {
	Recipient string    `json:"recipient"` // aircraft callsign the telex was addressed to
	SentAt    time.Time `json:"sent_at"`   // UTC time the gateway accepted the message
}

// Client sends telex messages through the gateway.  It is stateless and
// safe for concurrent use; each call performs a single blocking round
// trip that inherits the caller's context deadline.
type Client struct {
	baseURL  string
	logon    string
	callsign string
	http     *http.Client
}

// NewClient returns a relay client.  The logon code and sender callsign
// may be empty; SendTelex reports ErrNotConfigured when they are needed.
func NewClient(baseURL, logon, callsign string) *Client {
	return &Client{
		baseURL:  baseURL,
		logon:    logon,
		callsign: callsign,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// SendTelex relays a text message to the aircraft with the given
// callsign.  Arguments must be non-empty and the client must carry a
// logon code and sender callsign.  The message body is percent-encoded
// into the request query; the gateway's reply must be a 2xx whose body
// contains "ok" case-insensitively.
func (c *Client) SendTelex(ctx context.Context, to, message string) (*Confirmation, error) {
	if strings.TrimSpace(to) == "" {
		return nil, errors.New("aircraft callsign is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errors.New("message is required")
	}
	if c.logon == "" || c.callsign == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("logon", c.logon)
	params.Set("from", c.callsign)
	params.Set("to", to)
	params.Set("type", "telex")
	params.Set("packet", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrGateway, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	// Gateway replies are tiny; the limit guards against a misbehaving
	// upstream streaming garbage.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrGateway, resp.StatusCode)
	}
	if !strings.Contains(strings.ToLower(string(body)), "ok") {
		return nil, fmt.Errorf("%w: gateway rejected message: %s", ErrGateway, strings.TrimSpace(string(body)))
	}

	return &Confirmation{Recipient: to, SentAt: time.Now().UTC()}, nil
}
