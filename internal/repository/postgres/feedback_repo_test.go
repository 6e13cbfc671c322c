package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func TestFeedbackRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	created := now.Add(-time.Hour)

	mock.ExpectQuery(`INSERT INTO feedback .* ON CONFLICT \(user_id, event_id\) DO UPDATE SET`).
		WithArgs("u1", "ev-1", 4, "great", true, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("fb-1", created))

	f := &domain.Feedback{UserID: "u1", EventID: "ev-1", Rating: 4, Comment: "great", IsAnonymous: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewFeedbackRepository(db).Upsert(context.Background(), f))
	require.Equal(t, "fb-1", f.ID)
	require.Equal(t, created, f.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_ListByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`FROM feedback f JOIN users u ON u.id = f.user_id WHERE f.event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "name", "rating", "comment", "is_anonymous", "created_at", "updated_at"}).
			AddRow("fb-1", "u1", "ev-1", "Ada", 5, "", false, now, now))

	list, err := NewFeedbackRepository(db).ListByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Ada", list[0].UserName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepository_RefreshEventAverage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		want  float64
		errIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET average_rating = \(SELECT COALESCE\(AVG\(rating\), 0\) FROM feedback WHERE event_id = \$1\)`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"average_rating"}).AddRow(3.5))
			},
			want: 3.5,
		},
		{
			name: "event gone",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET average_rating`).WillReturnError(sql.ErrNoRows)
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
			avg, err := NewFeedbackRepository(db).RefreshEventAverage(ctx, "ev-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.want, avg, 1e-9)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
