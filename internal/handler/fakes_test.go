package handler

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/airline-event-booking/internal/model"
	"github.com/iliyamo/airline-event-booking/internal/repository"
)

// fakeStore is an in-memory implementation of EventStore and
// BookingStore used by the handler tests.  A single mutex guards every
// operation, mirroring the per-event serialization the real repositories
// get from row locks: the check-and-increment of Book is one critical
// section, so the capacity invariant holds under concurrent calls.
type fakeStore struct {
	mu          sync.Mutex
	events      map[uint64]*model.Event
	bookings    map[uint64]*model.Booking
	nextEvent   uint64
	nextBooking uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:   make(map[uint64]*model.Event),
		bookings: make(map[uint64]*model.Booking),
	}
}

// addEvent seeds an event directly, bypassing validation.
func (f *fakeStore) addEvent(e model.Event) *model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextEvent++
	e.ID = f.nextEvent
	if e.Status == "" {
		e.Status = model.EventActive
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	f.events[e.ID] = &e
	return &e
}

func (f *fakeStore) Create(_ context.Context, e *model.Event) (*model.Event, error) {
	stored := f.addEvent(*e)
	cp := *stored
	return &cp, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) List(_ context.Context) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uint64, to string) (*model.Event, error) {
	if to != model.EventClosed && to != model.EventCancelled {
		return nil, repository.ErrInvalidTransition
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	if e.Status == to || !model.CanTransition(e.Status, to) {
		return nil, repository.ErrInvalidTransition
	}
	e.Status = to
	e.ClosedReason = nil
	if to == model.EventClosed {
		reason := model.ClosedManually
		e.ClosedReason = &reason
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) SetPicture(_ context.Context, id uint64, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	e.Picture = &url
	return nil
}

func (f *fakeStore) Book(_ context.Context, eventID uint64, pilotID, slotType string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	if e.Status != model.EventActive {
		return nil, repository.ErrEventClosed
	}
	for _, b := range f.bookings {
		if b.EventID == eventID && b.PilotID == pilotID && b.Status == model.BookingConfirmed {
			return nil, repository.ErrDuplicateBooking
		}
	}
	if e.CurrentBookings >= e.MaxPilots {
		return nil, repository.ErrEventFull
	}
	f.nextBooking++
	now := time.Now().UTC()
	b := &model.Booking{
		ID:        f.nextBooking,
		EventID:   eventID,
		PilotID:   pilotID,
		SlotType:  slotType,
		Status:    model.BookingConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.bookings[b.ID] = b
	e.CurrentBookings++
	if e.CurrentBookings >= e.MaxPilots {
		reason := model.ClosedByCapacity
		e.Status = model.EventClosed
		e.ClosedReason = &reason
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) Cancel(_ context.Context, bookingID uint64, actingPilot string, staff bool) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != model.BookingConfirmed {
		return nil, repository.ErrBookingNotFound
	}
	if !staff && b.PilotID != actingPilot {
		return nil, repository.ErrForbidden
	}
	e := f.events[b.EventID]
	if e.Status == model.EventCancelled {
		return nil, repository.ErrBookingNotFound
	}
	b.Status = model.BookingCancelled
	if e.CurrentBookings > 0 {
		e.CurrentBookings--
	}
	if e.Status == model.EventClosed && e.ClosedReason != nil && *e.ClosedReason == model.ClosedByCapacity {
		e.Status = model.EventActive
		e.ClosedReason = nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListByEvent(_ context.Context, eventID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return nil, repository.ErrEventNotFound
	}
	out := make([]model.Booking, 0)
	for _, b := range f.bookings {
		if b.EventID == eventID && b.Status == model.BookingConfirmed {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) SlotCounts(_ context.Context, eventID uint64) (model.SlotCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var counts model.SlotCounts
	if _, ok := f.events[eventID]; !ok {
		return counts, repository.ErrEventNotFound
	}
	for _, b := range f.bookings {
		if b.EventID != eventID || b.Status != model.BookingConfirmed {
			continue
		}
		switch b.SlotType {
		case model.SlotDeparture:
			counts.Departure++
		case model.SlotLanding:
			counts.Landing++
		case model.SlotDepartureLanding:
			counts.DepartureLanding++
		}
	}
	return counts, nil
}
