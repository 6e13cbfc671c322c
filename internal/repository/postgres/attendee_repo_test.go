package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func TestAttendeeRepository_Add(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 18, 5, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "first check-in",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_attendees .* ON CONFLICT \(event_id, user_id\) DO NOTHING`).
					WithArgs("ev-1", "u1", at).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "second check-in",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_attendees`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			errIs: domain.ErrAlreadyCheckedIn,
		},
		{
			name: "event deleted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO event_attendees`).WillReturnError(&pq.Error{Code: "23503"})
			},
			errIs: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewAttendeeRepository(db).Add(ctx, "ev-1", domain.Attendee{UserID: "u1", CheckinTime: at})
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
