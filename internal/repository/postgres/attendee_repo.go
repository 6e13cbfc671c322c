package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{DB: db}
}

// Add inserts the check-in. The (event_id, user_id) key makes a second
// check-in a no-op, reported as ErrAlreadyCheckedIn.
func (r *attendeeRepository) Add(ctx context.Context, eventID string, a domain.Attendee) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, checkin_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, a.UserID, a.CheckinTime)
	if err != nil {
		return notFoundOnBadRef(err, domain.ErrNotFound)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyCheckedIn
	}
	return nil
}
