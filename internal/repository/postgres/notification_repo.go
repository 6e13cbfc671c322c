package postgres

import (
	"context"
	"database/sql"

	"campusevents/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

const notificationColumns = `id, user_id, COALESCE(event_id::text, ''), message, type, read, created_at`

func scanNotification(row interface{ Scan(dest ...any) error }) (*domain.Notification, error) {
	n := &domain.Notification{}
	if err := row.Scan(&n.ID, &n.UserID, &n.EventID, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, event_id, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	eventID := sql.NullString{String: n.EventID, Valid: n.EventID != ""}
	err := r.DB.QueryRowContext(ctx, query, n.UserID, eventID, n.Message, n.Type, n.Read, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return notFoundOnBadRef(err, domain.ErrUserNotFound)
	}
	return nil
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
		RETURNING ` + notificationColumns
	n, err := scanNotification(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	return n, nil
}
