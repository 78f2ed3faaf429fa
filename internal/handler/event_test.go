package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/airline-event-booking/internal/model"
)

// newJSONContext builds an echo.Context around a JSON request and a
// recorder capturing the response.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestCreateEventDefaultsAndValidation(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantMax    int
	}{
		{
			name:       "all fields",
			body:       `{"name":"Friday Night Ops","departure":"eddf","arrival":"loww","date":"2026-09-04","time":"18:00","max_pilots":25}`,
			wantStatus: http.StatusCreated,
			wantMax:    25,
		},
		{
			name:       "max pilots omitted",
			body:       `{"name":"Shuttle","departure":"EGLL","arrival":"EHAM","date":"2026-09-05","time":"19:00"}`,
			wantStatus: http.StatusCreated,
			wantMax:    model.DefaultMaxPilots,
		},
		{
			name:       "max pilots zero",
			body:       `{"name":"Shuttle","departure":"EGLL","arrival":"EHAM","date":"2026-09-05","time":"19:00","max_pilots":0}`,
			wantStatus: http.StatusCreated,
			wantMax:    model.DefaultMaxPilots,
		},
		{
			name:       "max pilots negative",
			body:       `{"name":"Shuttle","departure":"EGLL","arrival":"EHAM","date":"2026-09-05","time":"19:00","max_pilots":-3}`,
			wantStatus: http.StatusCreated,
			wantMax:    model.DefaultMaxPilots,
		},
		{
			name:       "missing arrival",
			body:       `{"name":"Shuttle","departure":"EGLL","date":"2026-09-05","time":"19:00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank name",
			body:       `{"name":"   ","departure":"EGLL","arrival":"EHAM","date":"2026-09-05","time":"19:00"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			h := NewEventHandler(store)
			c, rec := newJSONContext(http.MethodPost, "/v1/admin/events", tc.body)
			if err := h.CreateEvent(c); err != nil {
				t.Fatalf("CreateEvent returned error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus != http.StatusCreated {
				if len(store.events) != 0 {
					t.Fatalf("rejected request persisted %d events", len(store.events))
				}
				return
			}
			stored, err := store.GetByID(c.Request().Context(), 1)
			if err != nil {
				t.Fatalf("created event not stored: %v", err)
			}
			if stored.MaxPilots != tc.wantMax {
				t.Errorf("max_pilots = %d, want %d", stored.MaxPilots, tc.wantMax)
			}
			if stored.Status != model.EventActive {
				t.Errorf("status = %q, want %q", stored.Status, model.EventActive)
			}
		})
	}
}

func TestCreateEventUppercasesAirports(t *testing.T) {
	store := newFakeStore()
	h := NewEventHandler(store)
	body := `{"name":"Canaries Hop","departure":"gcts","arrival":"gclp","date":"2026-10-01","time":"17:30"}`
	c, rec := newJSONContext(http.MethodPost, "/v1/admin/events", body)
	if err := h.CreateEvent(c); err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	stored, _ := store.GetByID(c.Request().Context(), 1)
	if stored.Departure != "GCTS" || stored.Arrival != "GCLP" {
		t.Errorf("airports = %s-%s, want GCTS-GCLP", stored.Departure, stored.Arrival)
	}
}

func TestGetEventNotFound(t *testing.T) {
	h := NewEventHandler(newFakeStore())
	c, rec := newJSONContext(http.MethodGet, "/v1/events/99", "")
	c.SetPath("/v1/events/:id")
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.GetEvent(c); err != nil {
		t.Fatalf("GetEvent returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateEventStatus(t *testing.T) {
	cases := []struct {
		name       string
		from       string
		to         string
		wantStatus int
	}{
		{"close active", model.EventActive, "CLOSED", http.StatusOK},
		{"cancel active", model.EventActive, "CANCELLED", http.StatusOK},
		{"cancel closed", model.EventClosed, "CANCELLED", http.StatusOK},
		{"reactivate via status endpoint", model.EventClosed, "ACTIVE", http.StatusConflict},
		{"close cancelled", model.EventCancelled, "CLOSED", http.StatusConflict},
		{"cancel twice", model.EventCancelled, "CANCELLED", http.StatusConflict},
		{"unknown target", model.EventActive, "PAUSED", http.StatusConflict},
		{"lowercase accepted", model.EventActive, "closed", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			ev := store.addEvent(model.Event{
				Name: "Ops", Departure: "EDDF", Arrival: "LOWW",
				Date: "2026-09-04", Time: "18:00",
				MaxPilots: 10, Status: tc.from,
			})
			h := NewEventHandler(store)
			c, rec := newJSONContext(http.MethodPatch, "/v1/admin/events/1/status", `{"status":"`+tc.to+`"}`)
			c.SetPath("/v1/admin/events/:id/status")
			c.SetParamNames("id")
			c.SetParamValues("1")
			if err := h.UpdateEventStatus(c); err != nil {
				t.Fatalf("UpdateEventStatus returned error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			stored, _ := store.GetByID(c.Request().Context(), ev.ID)
			if tc.wantStatus == http.StatusOK {
				want := strings.ToUpper(tc.to)
				if stored.Status != want {
					t.Errorf("stored status = %q, want %q", stored.Status, want)
				}
				if want == model.EventClosed {
					if stored.ClosedReason == nil || *stored.ClosedReason != model.ClosedManually {
						t.Errorf("closed_reason = %v, want MANUAL", stored.ClosedReason)
					}
				}
			} else if stored.Status != tc.from {
				t.Errorf("rejected transition changed status to %q", stored.Status)
			}
		})
	}
}

func TestUpdateEventStatusUnknownEvent(t *testing.T) {
	h := NewEventHandler(newFakeStore())
	c, rec := newJSONContext(http.MethodPatch, "/v1/admin/events/7/status", `{"status":"CLOSED"}`)
	c.SetPath("/v1/admin/events/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := h.UpdateEventStatus(c); err != nil {
		t.Fatalf("UpdateEventStatus returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListEvents(t *testing.T) {
	store := newFakeStore()
	store.addEvent(model.Event{Name: "A", Departure: "EDDF", Arrival: "LOWW", Date: "2026-09-04", Time: "18:00", MaxPilots: 10})
	store.addEvent(model.Event{Name: "B", Departure: "EGLL", Arrival: "EHAM", Date: "2026-09-05", Time: "19:00", MaxPilots: 10})
	h := NewEventHandler(store)
	c, rec := newJSONContext(http.MethodGet, "/v1/events", "")
	if err := h.ListEvents(c); err != nil {
		t.Fatalf("ListEvents returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v, want 2 events", body["items"])
	}
}
