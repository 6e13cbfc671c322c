package postgres

import (
	"context"
	"database/sql"
	"errors"

	"campusevents/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

// Transition locks the event row so concurrent transitions on one event are
// applied one after another, then writes the user's new status and bumps the
// event version.
func (r *rsvpRepository) Transition(ctx context.Context, eventID, userID string, fn domain.RSVPTransitionFunc) (*domain.Event, domain.RSVPStatus, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.RSVPNone, err
	}
	defer tx.Rollback()

	var locked string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&locked); err != nil {
		return nil, domain.RSVPNone, notFoundOnBadRef(err, domain.ErrNotFound)
	}

	current := domain.RSVPNone
	err = tx.QueryRowContext(ctx, `SELECT status FROM event_rsvps WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.RSVPNone, notFoundOnBadRef(err, domain.ErrUserNotFound)
	}

	next, err := fn(current)
	if err != nil {
		return nil, current, err
	}

	if next != current {
		switch {
		case next == domain.RSVPNone:
			_, err = tx.ExecContext(ctx, `DELETE FROM event_rsvps WHERE event_id = $1 AND user_id = $2`, eventID, userID)
		case current == domain.RSVPNone:
			_, err = tx.ExecContext(ctx, `
				INSERT INTO event_rsvps (event_id, user_id, status)
				VALUES ($1, $2, $3)
			`, eventID, userID, next)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE event_rsvps SET status = $1, updated_at = NOW()
				WHERE event_id = $2 AND user_id = $3
			`, next, eventID, userID)
		}
		if err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return nil, current, domain.ErrUserNotFound
			}
			return nil, current, err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE events SET version = version + 1, updated_at = NOW() WHERE id = $1`, eventID); err != nil {
			return nil, current, err
		}
	}

	e, err := loadEvent(ctx, tx, eventID)
	if err != nil {
		return nil, current, err
	}
	if err := tx.Commit(); err != nil {
		return nil, current, err
	}
	return e, current, nil
}

func (r *rsvpRepository) ListUsersByStatus(ctx context.Context, eventID string, status domain.RSVPStatus) ([]*domain.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM event_rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status = $2
		ORDER BY r.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, status)
	if err != nil {
		return nil, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	defer rows.Close()
	users := make([]*domain.UserSummary, 0)
	for rows.Next() {
		u := &domain.UserSummary{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
