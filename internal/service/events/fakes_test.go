package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	eventRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/event"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
	calendarClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
)

// fakeCalendar календарь провайдера в памяти
type fakeCalendar struct {
	mu     sync.Mutex
	seq    int
	events map[string]*domain.CalendarEvent
	calls  map[string]int
	err    error
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: map[string]*domain.CalendarEvent{}, calls: map[string]int{}}
}

func (f *fakeCalendar) CreateEvent(_ context.Context, d domain.EventDraft) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	ev := &domain.CalendarEvent{
		ExternalEventID: fmt.Sprintf("evt-%d", f.seq),
		Title:           d.Title,
		Description:     d.Description,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Attendees:       append([]string(nil), d.Attendees...),
	}
	if d.RequestMeetingLink {
		ev.MeetingLink = "https://meet.google.com/" + ev.ExternalEventID
	}
	f.events[ev.ExternalEventID] = ev
	cp := *ev
	return &cp, nil
}

func (f *fakeCalendar) GetEvent(_ context.Context, id string) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get"]++
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, calendarClient.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, id string, c domain.EventChanges) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, calendarClient.ErrEventNotFound
	}
	if c.Title != nil {
		ev.Title = *c.Title
	}
	if c.Description != nil {
		ev.Description = *c.Description
	}
	if c.StartTime != nil {
		ev.StartTime = *c.StartTime
	}
	if c.EndTime != nil {
		ev.EndTime = *c.EndTime
	}
	if c.Attendees != nil {
		ev.Attendees = append([]string(nil), c.Attendees...)
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[id]; !ok {
		return calendarClient.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeCalendar) ListEvents(_ context.Context, from, to time.Time) ([]*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.CalendarEvent, 0)
	for _, ev := range f.events {
		if ev.StartTime.Before(to) && ev.EndTime.After(from) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// fakeMirror локальное зеркало в памяти
type fakeMirror struct {
	mu       sync.Mutex
	seq      int64
	events   map[string]*domain.CalendarEvent
	err      error
	writeErr error // отказ только на запись, чтение работает
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{events: map[string]*domain.CalendarEvent{}}
}

func (f *fakeMirror) Upsert(_ context.Context, ev *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	if existing, ok := f.events[ev.ExternalEventID]; ok {
		ev.ID = existing.ID
	} else {
		f.seq++
		ev.ID = f.seq
	}
	cp := *ev
	f.events[ev.ExternalEventID] = &cp
	return ev, nil
}

func (f *fakeMirror) GetByExternalID(_ context.Context, id string) (*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeMirror) GetByExternalIDs(_ context.Context, ids []string) (map[string]*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]*domain.CalendarEvent{}
	for _, id := range ids {
		if ev, ok := f.events[id]; ok {
			cp := *ev
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *fakeMirror) GetByDateRange(_ context.Context, from, to time.Time) ([]*domain.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.CalendarEvent, 0)
	for _, ev := range f.events {
		if ev.StartTime.Before(to) && ev.EndTime.After(from) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeMirror) DeleteByExternalID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.events[id]; !ok {
		return eventRepo.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeMirror) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeMirror) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

// fakeOutbox журнал outbox в памяти
type fakeOutbox struct {
	mu  sync.Mutex
	seq int64
	ops []*domain.SyncOperation
}

func (f *fakeOutbox) Enqueue(_ context.Context, op *domain.SyncOperation) (*domain.SyncOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	op.ID = f.seq
	op.Status = domain.SyncStatusPending
	cp := *op
	f.ops = append(f.ops, &cp)
	return op, nil
}

func (f *fakeOutbox) FetchPending(_ context.Context, limit int) ([]*domain.SyncOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.SyncOperation, 0)
	for _, op := range f.ops {
		if op.Status == domain.SyncStatusPending && len(out) < limit {
			cp := *op
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOutbox) LockPending(_ context.Context, id int64) (*domain.SyncOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range f.ops {
		if op.ID == id && op.Status == domain.SyncStatusPending {
			cp := *op
			return &cp, nil
		}
	}
	return nil, outboxRepo.ErrOperationNotFound
}

func (f *fakeOutbox) MarkDone(_ context.Context, id int64) error {
	return f.set(id, func(op *domain.SyncOperation) { op.Status = domain.SyncStatusDone })
}

func (f *fakeOutbox) MarkAttemptFailed(_ context.Context, id int64, lastError string, maxAttempts int) error {
	return f.set(id, func(op *domain.SyncOperation) {
		op.Attempts++
		op.LastError = &lastError
		if op.Attempts >= maxAttempts {
			op.Status = domain.SyncStatusFailed
		}
	})
}

func (f *fakeOutbox) SupersedePending(_ context.Context, externalID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, op := range f.ops {
		if op.ExternalEventID == externalID && op.Status == domain.SyncStatusPending {
			op.Status = domain.SyncStatusDone
			n++
		}
	}
	return n, nil
}

func (f *fakeOutbox) CountPending(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range f.ops {
		if op.Status == domain.SyncStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeOutbox) set(id int64, fn func(*domain.SyncOperation)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range f.ops {
		if op.ID == id {
			fn(op)
			return nil
		}
	}
	return outboxRepo.ErrOperationNotFound
}

func (f *fakeOutbox) byEvent(externalID string) *domain.SyncOperation {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range f.ops {
		if op.ExternalEventID == externalID {
			cp := *op
			return &cp
		}
	}
	return nil
}

// passthroughTx выполняет функцию без транзакции
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recorder struct {
	pending int
	results map[string]int
}

func (r *recorder) SetOutboxPending(n int) { r.pending = n }

func (r *recorder) ObserveOutboxResult(result string) {
	if r.results == nil {
		r.results = map[string]int{}
	}
	r.results[result]++
}
