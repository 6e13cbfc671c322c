package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"campusevents/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

// fakeStore is an in-memory backing store shared by the fake repositories below.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	events   map[string]*domain.Event
	feedback map[string]*domain.Feedback // key: userID|eventID
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*domain.User),
		events:   make(map[string]*domain.Event),
		feedback: make(map[string]*domain.Feedback),
		nextID:   1,
	}
}

func (s *fakeStore) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, s.nextID)
	s.nextID++
	return id
}

func (s *fakeStore) addUser(name string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.NewUser(fmt.Sprintf("%s@campus.edu", name), name, role, time.Now(), time.Now())
	u.ID = s.id("user")
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addEvent(name string) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := domain.NewEvent(name, "desc", "Hall A", "CS Club", time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC), time.Now(), time.Now())
	e.ID = s.id("ev")
	s.events[e.ID] = e
	return e
}

// snapshot returns a deep-enough copy so callers never share slices with the store.
func snapshot(e *domain.Event) *domain.Event {
	c := *e
	c.RSVPs = slices.Clone(e.RSVPs)
	c.PendingRSVPs = slices.Clone(e.PendingRSVPs)
	c.Attendees = slices.Clone(e.Attendees)
	c.ChangeHistory = slices.Clone(e.ChangeHistory)
	return &c
}

// fakeUserRepo implements domain.UserRepository.
type fakeUserRepo struct {
	*fakeStore
	createErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.id("user")
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	f.users[u.ID] = &c
	return nil
}

func (f *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b *domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// fakeEventRepo implements domain.EventRepository.
type fakeEventRepo struct {
	*fakeStore
	createErr error
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event, change domain.ChangeRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.id("ev")
	e.ChangeHistory = append(e.ChangeHistory, change)
	f.events[e.ID] = snapshot(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok {
		return snapshot(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, search string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, snapshot(e))
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch, change domain.ChangeRecord) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(e)
	e.Version++
	e.ChangeHistory = append(e.ChangeHistory, change)
	return snapshot(e), nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeRSVPRepo implements domain.RSVPRepository; the store mutex serialises transitions.
type fakeRSVPRepo struct {
	*fakeStore
}

func (f *fakeRSVPRepo) Transition(ctx context.Context, eventID, userID string, fn domain.RSVPTransitionFunc) (*domain.Event, domain.RSVPStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.RSVPNone, domain.ErrNotFound
	}
	cur := e.RSVPStatusOf(userID)
	next, err := fn(cur)
	if err != nil {
		return nil, cur, err
	}
	if next != cur {
		e.RSVPs = slices.DeleteFunc(e.RSVPs, func(id string) bool { return id == userID })
		e.PendingRSVPs = slices.DeleteFunc(e.PendingRSVPs, func(id string) bool { return id == userID })
		switch next {
		case domain.RSVPConfirmed:
			e.RSVPs = append(e.RSVPs, userID)
		case domain.RSVPPending:
			e.PendingRSVPs = append(e.PendingRSVPs, userID)
		}
		e.Version++
	}
	return snapshot(e), cur, nil
}

func (f *fakeRSVPRepo) ListUsersByStatus(ctx context.Context, eventID string, status domain.RSVPStatus) ([]*domain.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ids := e.PendingRSVPs
	if status == domain.RSVPConfirmed {
		ids = e.RSVPs
	}
	out := make([]*domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		u := f.users[id]
		out = append(out, &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

// fakeAttendeeRepo implements domain.AttendeeRepository.
type fakeAttendeeRepo struct {
	*fakeStore
}

func (f *fakeAttendeeRepo) Add(ctx context.Context, eventID string, a domain.Attendee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.HasAttendee(a.UserID) {
		return domain.ErrAlreadyCheckedIn
	}
	e.Attendees = append(e.Attendees, a)
	return nil
}

// fakeFeedbackRepo implements domain.FeedbackRepository.
type fakeFeedbackRepo struct {
	*fakeStore
}

func (f *fakeFeedbackRepo) Upsert(ctx context.Context, fb *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fb.UserID + "|" + fb.EventID
	if existing, ok := f.feedback[key]; ok {
		fb.ID = existing.ID
		fb.CreatedAt = existing.CreatedAt
	} else {
		fb.ID = f.id("fb")
	}
	c := *fb
	f.feedback[key] = &c
	return nil
}

func (f *fakeFeedbackRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Feedback
	for _, fb := range f.feedback {
		if fb.EventID == eventID {
			c := *fb
			if u, ok := f.users[fb.UserID]; ok {
				c.UserName = u.Name
			}
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Feedback) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f *fakeFeedbackRepo) RefreshEventAverage(ctx context.Context, eventID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	sum, n := 0, 0
	for _, fb := range f.feedback {
		if fb.EventID == eventID {
			sum += fb.Rating
			n++
		}
	}
	e.AverageRating = 0
	if n > 0 {
		e.AverageRating = float64(sum) / float64(n)
	}
	return e.AverageRating, nil
}

// fakeNotifier implements domain.NotificationService and records every notification.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []*domain.Notification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, n *domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) List(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeNotifier) byType(t domain.NotificationType) []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotifier) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}
