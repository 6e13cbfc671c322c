package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

const (
	testEventID = "0b8f7c1e-2a3d-4c5b-9e8f-1a2b3c4d5e6f"
	testUserID  = "7d6c5b4a-3e2f-4a1b-8c9d-0e1f2a3b4c5d"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// newRequest builds a request with path values set and, when userID is not
// empty, an authenticated context.
func newRequest(method, target, body, userID string, pathValues map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if userID != "" {
		req = req.WithContext(middleware.SetClaims(req.Context(), &domain.AuthClaims{UserID: userID, Role: domain.RoleStudent}))
	}
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	apiErr := decodeEnvelope(t, rr, nil)
	require.NotNil(t, apiErr)
	return apiErr.Code
}

type fakeAuthService struct {
	user      *domain.User
	token     string
	err       error
	gotName   string
	gotEmail  string
	gotPasswd string
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	f.gotName, f.gotEmail, f.gotPasswd = name, email, password
	return f.user, f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	f.gotEmail, f.gotPasswd = email, password
	return f.token, f.user, f.err
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error) {
	return f.user, false, f.err
}

type fakeUserService struct {
	user     *domain.User
	err      error
	gotName  *string
	gotEmail *string
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, userID string, name, email *string) (*domain.User, error) {
	f.gotName, f.gotEmail = name, email
	return f.user, f.err
}

type fakeEventService struct {
	events    []*domain.Event
	event     *domain.Event
	err       error
	gotSearch string
	gotActor  string
	gotPatch  domain.EventPatch
	deleted   string
}

func (f *fakeEventService) ListEvents(ctx context.Context, search string) ([]*domain.Event, error) {
	f.gotSearch = search
	return f.events, f.err
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return f.event, f.err
}

func (f *fakeEventService) CreateEvent(ctx context.Context, actorID string, event *domain.Event) error {
	f.gotActor = actorID
	if f.err != nil {
		return f.err
	}
	event.ID = testEventID
	f.event = event
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, actorID string, patch domain.EventPatch) (*domain.Event, error) {
	f.gotActor, f.gotPatch = actorID, patch
	return f.event, f.err
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, eventID string) error {
	f.deleted = eventID
	return f.err
}

type fakeRSVPService struct {
	event     *domain.Event
	pending   []*domain.UserSummary
	err       error
	gotUser   string
	gotAction domain.RSVPAction
}

func (f *fakeRSVPService) ToggleRSVP(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	f.gotUser = userID
	return f.event, f.err
}

func (f *fakeRSVPService) ApproveOrReject(ctx context.Context, eventID, userID string, action domain.RSVPAction) (*domain.Event, error) {
	f.gotUser, f.gotAction = userID, action
	return f.event, f.err
}

func (f *fakeRSVPService) ListPending(ctx context.Context, eventID string) ([]*domain.UserSummary, error) {
	return f.pending, f.err
}

type fakeCheckinService struct {
	pass     *domain.CheckinPass
	attendee *domain.Attendee
	err      error
	gotToken string
}

func (f *fakeCheckinService) IssueCheckinToken(ctx context.Context, eventID, userID string) (*domain.CheckinPass, error) {
	return f.pass, f.err
}

func (f *fakeCheckinService) Checkin(ctx context.Context, eventID, token string) (*domain.Attendee, error) {
	f.gotToken = token
	return f.attendee, f.err
}

type fakeFeedbackService struct {
	list []*domain.Feedback
	got  *domain.Feedback
	err  error
}

func (f *fakeFeedbackService) SubmitFeedback(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	f.got = fb
	if f.err != nil {
		return nil, f.err
	}
	fb.ID = "fb-1"
	return fb, nil
}

func (f *fakeFeedbackService) ListFeedback(ctx context.Context, eventID string) ([]*domain.Feedback, error) {
	return f.list, f.err
}

type fakeCalendarService struct {
	filename string
	data     []byte
	result   *domain.ImportResult
	err      error
	gotData  []byte
	gotURL   string
}

func (f *fakeCalendarService) ExportEvent(ctx context.Context, eventID string) (string, []byte, error) {
	return f.filename, f.data, f.err
}

func (f *fakeCalendarService) Import(ctx context.Context, actorID string, data []byte) (*domain.ImportResult, error) {
	f.gotData = data
	return f.result, f.err
}

func (f *fakeCalendarService) ImportFromURL(ctx context.Context, actorID, url string) (*domain.ImportResult, error) {
	f.gotURL = url
	return f.result, f.err
}

type fakeNotificationService struct {
	items     []*domain.Notification
	total     int
	err       error
	gotParams domain.PaginationParams
	gotID     string
}

func (f *fakeNotificationService) Notify(ctx context.Context, n *domain.Notification) error {
	return f.err
}

func (f *fakeNotificationService) List(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	f.gotParams = params
	return f.items, f.total, f.err
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Notification{ID: id, UserID: userID, Read: true}, nil
}
