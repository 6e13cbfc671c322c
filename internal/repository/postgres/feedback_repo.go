package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

type feedbackRepository struct {
	DB *sql.DB
}

func NewFeedbackRepository(db *sql.DB) domain.FeedbackRepository {
	return &feedbackRepository{DB: db}
}

func (r *feedbackRepository) Upsert(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (user_id, event_id, rating, comment, is_anonymous, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, event_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			is_anonymous = EXCLUDED.is_anonymous,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query, f.UserID, f.EventID, f.Rating, f.Comment, f.IsAnonymous, f.CreatedAt, f.UpdatedAt).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return notFoundOnBadRef(err, domain.ErrNotFound)
	}
	return nil
}

func (r *feedbackRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Feedback, error) {
	query := `
		SELECT f.id, f.user_id, f.event_id, u.name, f.rating, f.comment, f.is_anonymous, f.created_at, f.updated_at
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.event_id = $1
		ORDER BY f.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	defer rows.Close()
	list := make([]*domain.Feedback, 0)
	for rows.Next() {
		f := &domain.Feedback{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.EventID, &f.UserName, &f.Rating, &f.Comment, &f.IsAnonymous, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// RefreshEventAverage stores the mean of all ratings for the event, or 0 when there are none.
func (r *feedbackRepository) RefreshEventAverage(ctx context.Context, eventID string) (float64, error) {
	query := `
		UPDATE events
		SET average_rating = (SELECT COALESCE(AVG(rating), 0) FROM feedback WHERE event_id = $1)
		WHERE id = $1
		RETURNING average_rating
	`
	var avg float64
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&avg); err != nil {
		return 0, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	return avg, nil
}
