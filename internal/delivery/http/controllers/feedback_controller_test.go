package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func TestFeedbackController_SubmitFeedback(t *testing.T) {
	paths := map[string]string{"eventID": testEventID}

	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "success", body: `{"rating":5,"comment":" great ","is_anonymous":true}`, wantStatus: http.StatusCreated},
		{name: "rating too high", body: `{"rating":6}`, wantStatus: http.StatusBadRequest},
		{name: "rating missing", body: `{"comment":"meh"}`, wantStatus: http.StatusBadRequest},
		{name: "comment too long", body: `{"rating":3,"comment":"` + strings.Repeat("a", 501) + `"}`, wantStatus: http.StatusBadRequest},
		{name: "event missing", body: `{"rating":3}`, svcErr: domain.ErrNotFound, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeFeedbackService{err: tt.svcErr}
			rr := httptest.NewRecorder()

			NewFeedbackController(testLogger, svc).SubmitFeedback(rr, newRequest(http.MethodPost, "/events/x/feedback", tt.body, testUserID, paths))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusCreated {
				return
			}
			require.NotNil(t, svc.got)
			assert.Equal(t, testUserID, svc.got.UserID)
			assert.Equal(t, testEventID, svc.got.EventID)
			assert.Equal(t, 5, svc.got.Rating)
			assert.Equal(t, "great", svc.got.Comment)
			assert.True(t, svc.got.IsAnonymous)
		})
	}
}

func TestFeedbackController_ListFeedback(t *testing.T) {
	svc := &fakeFeedbackService{list: []*domain.Feedback{{ID: "fb-1", EventID: testEventID, Rating: 4, IsAnonymous: true}}}
	rr := httptest.NewRecorder()

	NewFeedbackController(testLogger, svc).ListFeedback(rr, newRequest(http.MethodGet, "/events/x/feedback", "", "", map[string]string{"eventID": testEventID}))

	require.Equal(t, http.StatusOK, rr.Code)
	var list []*domain.Feedback
	require.Nil(t, decodeEnvelope(t, rr, &list))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].UserID)
}
