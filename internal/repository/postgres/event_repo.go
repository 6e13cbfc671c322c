package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, name, description, date, venue, organizer, average_rating, version, created_at, updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (*domain.Event, error) {
	e := domain.NewEvent("", "", "", "", time.Time{}, time.Time{}, time.Time{})
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Venue, &e.Organizer,
		&e.AverageRating, &e.Version, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event, change domain.ChangeRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (name, description, date, venue, organizer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, version
	`
	if err := tx.QueryRowContext(ctx, query, e.Name, e.Description, e.Date, e.Venue, e.Organizer, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID, &e.Version); err != nil {
		return err
	}
	if err := insertChange(ctx, tx, e.ID, change); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.ChangeHistory = append(e.ChangeHistory, change)
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return loadEvent(ctx, r.DB, id)
}

func (r *eventRepository) List(ctx context.Context, search string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		query += ` WHERE name ILIKE $1 OR organizer ILIKE $1 OR venue ILIKE $1`
		args = append(args, "%"+escapeLike(s)+"%")
	}
	query += ` ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachRelations(ctx, r.DB, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch, change domain.ChangeRecord) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()", "version = version + 1"}
	args := []any{}
	n := 1
	add := func(column string, v any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, v)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Venue != nil {
		add("venue", *patch.Venue)
	}
	if patch.Organizer != nil {
		add("organizer", *patch.Organizer)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING id`, strings.Join(setClauses, ", "), n)
	var updatedID string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&updatedID); err != nil {
		return nil, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	if err := insertChange(ctx, tx, id, change); err != nil {
		return nil, err
	}
	e, err := loadEvent(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return notFoundOnBadRef(err, domain.ErrNotFound)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insertChange(ctx context.Context, q queryer, eventID string, change domain.ChangeRecord) error {
	details := change.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal change details: %w", err)
	}
	changedBy := sql.NullString{String: change.ChangedBy, Valid: change.ChangedBy != ""}
	_, err = q.ExecContext(ctx, `
		INSERT INTO event_changes (event_id, change_type, changed_by, timestamp, details)
		VALUES ($1, $2, $3, $4, $5)
	`, eventID, change.ChangeType, changedBy, change.Timestamp, raw)
	return err
}

// loadEvent reads one event and its relations through q, which may be a transaction.
func loadEvent(ctx context.Context, q queryer, id string) (*domain.Event, error) {
	e, err := scanEvent(q.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOnBadRef(err, domain.ErrNotFound)
	}
	if err := attachRelations(ctx, q, []*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// attachRelations fills RSVPs, PendingRSVPs, Attendees and ChangeHistory for
// all events with one query per relation.
func attachRelations(ctx context.Context, q queryer, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Event, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT event_id, user_id, status FROM event_rsvps
		WHERE event_id = ANY($1)
		ORDER BY created_at ASC
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	for rows.Next() {
		var eventID, userID string
		var status domain.RSVPStatus
		if err := rows.Scan(&eventID, &userID, &status); err != nil {
			rows.Close()
			return err
		}
		e := byID[eventID]
		switch status {
		case domain.RSVPConfirmed:
			e.RSVPs = append(e.RSVPs, userID)
		case domain.RSVPPending:
			e.PendingRSVPs = append(e.PendingRSVPs, userID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT event_id, user_id, checkin_time FROM event_attendees
		WHERE event_id = ANY($1)
		ORDER BY checkin_time ASC
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	for rows.Next() {
		var eventID string
		var a domain.Attendee
		if err := rows.Scan(&eventID, &a.UserID, &a.CheckinTime); err != nil {
			rows.Close()
			return err
		}
		byID[eventID].Attendees = append(byID[eventID].Attendees, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, `
		SELECT event_id, change_type, changed_by, timestamp, details FROM event_changes
		WHERE event_id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		var c domain.ChangeRecord
		var changedBy sql.NullString
		var raw []byte
		if err := rows.Scan(&eventID, &c.ChangeType, &changedBy, &c.Timestamp, &raw); err != nil {
			return err
		}
		c.ChangedBy = changedBy.String
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &c.Details); err != nil {
				return fmt.Errorf("decode change details: %w", err)
			}
		}
		byID[eventID].ChangeHistory = append(byID[eventID].ChangeHistory, c)
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
