package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

func TestRSVPController_ToggleRSVP(t *testing.T) {
	event := &domain.Event{ID: testEventID, PendingRSVPs: []string{testUserID}, RSVPs: []string{}}
	svc := &fakeRSVPService{event: event}
	rr := httptest.NewRecorder()

	NewRSVPController(testLogger, svc).ToggleRSVP(rr, newRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", "", testUserID, map[string]string{"eventID": testEventID}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testUserID, svc.gotUser)
	var got domain.Event
	require.Nil(t, decodeEnvelope(t, rr, &got))
	assert.Equal(t, []string{testUserID}, got.PendingRSVPs)
}

func TestRSVPController_ApproveOrReject(t *testing.T) {
	paths := map[string]string{"eventID": testEventID, "userID": testUserID}

	tests := []struct {
		name       string
		body       string
		paths      map[string]string
		svcErr     error
		wantStatus int
		wantCode   string
		wantAction domain.RSVPAction
	}{
		{name: "approve", body: `{"action":"approve"}`, paths: paths, wantStatus: http.StatusOK, wantAction: domain.RSVPApprove},
		{name: "reject", body: `{"action":"reject"}`, paths: paths, wantStatus: http.StatusOK, wantAction: domain.RSVPReject},
		{name: "unknown action", body: `{"action":"maybe"}`, paths: paths, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{
			name:       "not pending",
			body:       `{"action":"approve"}`,
			paths:      paths,
			svcErr:     fmt.Errorf("%w: user has no pending RSVP for this event", domain.ErrInvalidState),
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeInvalidState,
		},
		{
			name:       "invalid user id",
			body:       `{"action":"approve"}`,
			paths:      map[string]string{"eventID": testEventID, "userID": "bob"},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRSVPService{event: &domain.Event{ID: testEventID}, err: tt.svcErr}
			rr := httptest.NewRecorder()

			NewRSVPController(testLogger, svc).ApproveOrReject(rr, newRequest(http.MethodPost, "/events/x/rsvp/y/approve", tt.body, "admin", tt.paths))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rr))
				return
			}
			assert.Equal(t, tt.wantAction, svc.gotAction)
			assert.Equal(t, testUserID, svc.gotUser)
		})
	}
}

func TestRSVPController_ListPending(t *testing.T) {
	svc := &fakeRSVPService{pending: []*domain.UserSummary{{ID: testUserID, Name: "Ada", Email: "ada@campus.edu"}}}
	rr := httptest.NewRecorder()

	NewRSVPController(testLogger, svc).ListPending(rr, newRequest(http.MethodGet, "/events/x/pending-rsvps", "", "admin", map[string]string{"eventID": testEventID}))

	require.Equal(t, http.StatusOK, rr.Code)
	var users []*domain.UserSummary
	require.Nil(t, decodeEnvelope(t, rr, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "ada@campus.edu", users[0].Email)
}
