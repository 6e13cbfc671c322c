package domain

import (
	"context"
	"strings"
	"time"
)

// Event represents a campus event together with its RSVP, attendance and
// change-history state. RSVPs and PendingRSVPs are projections of one status
// per (event, user) pair, so a user never appears in both.
// swagger:model Event
type Event struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Date          time.Time      `json:"date"`
	Venue         string         `json:"venue"`
	Organizer     string         `json:"organizer"`
	RSVPs         []string       `json:"rsvps"`
	PendingRSVPs  []string       `json:"pending_rsvps"`
	Attendees     []Attendee     `json:"attendees"`
	AverageRating float64        `json:"average_rating"`
	ChangeHistory []ChangeRecord `json:"change_history"`
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name, description, venue, organizer string, date, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:          name,
		Description:   description,
		Date:          date,
		Venue:         venue,
		Organizer:     organizer,
		RSVPs:         []string{},
		PendingRSVPs:  []string{},
		Attendees:     []Attendee{},
		ChangeHistory: []ChangeRecord{},
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}

// RSVPStatusOf derives the user's RSVP status from the event's projections.
func (e *Event) RSVPStatusOf(userID string) RSVPStatus {
	for _, id := range e.RSVPs {
		if id == userID {
			return RSVPConfirmed
		}
	}
	for _, id := range e.PendingRSVPs {
		if id == userID {
			return RSVPPending
		}
	}
	return RSVPNone
}

// HasAttendee reports whether the user already checked in.
func (e *Event) HasAttendee(userID string) bool {
	for _, a := range e.Attendees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// MissingFields lists the required fields that are empty.
func (e *Event) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(e.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(e.Description) == "" {
		missing = append(missing, "description")
	}
	if e.Date.IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(e.Venue) == "" {
		missing = append(missing, "venue")
	}
	if strings.TrimSpace(e.Organizer) == "" {
		missing = append(missing, "organizer")
	}
	return missing
}

// ChangeType classifies an entry in an event's change history.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// ChangeRecord is one entry of an event's change history.
// swagger:model ChangeRecord
type ChangeRecord struct {
	ChangeType ChangeType     `json:"change_type"`
	ChangedBy  string         `json:"changed_by,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Details    map[string]any `json:"details,omitempty"`
}

// EventPatch holds the optional fields of an event update. Nil fields are unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Date        *time.Time
	Venue       *string
	Organizer   *string
}

// Details returns the patched fields keyed by their JSON name, for the change history.
func (p EventPatch) Details() map[string]any {
	d := make(map[string]any)
	if p.Name != nil {
		d["name"] = *p.Name
	}
	if p.Description != nil {
		d["description"] = *p.Description
	}
	if p.Date != nil {
		d["date"] = p.Date.UTC().Format(time.RFC3339)
	}
	if p.Venue != nil {
		d["venue"] = *p.Venue
	}
	if p.Organizer != nil {
		d["organizer"] = *p.Organizer
	}
	return d
}

// Apply copies the patched fields onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Organizer != nil {
		e.Organizer = *p.Organizer
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	// Create inserts the event and its "created" change record.
	Create(ctx context.Context, event *Event, change ChangeRecord) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// List returns events whose name, organizer or venue contains search
	// (case-insensitive), ordered by date ascending. Empty search lists all.
	List(ctx context.Context, search string) ([]*Event, error)
	// Update applies the patch and appends the change record in one write.
	Update(ctx context.Context, id string, patch EventPatch, change ChangeRecord) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the event management operations.
type EventService interface {
	ListEvents(ctx context.Context, search string) ([]*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	CreateEvent(ctx context.Context, actorID string, event *Event) error
	// UpdateEvent applies the patch and notifies every confirmed attendee of a schedule change.
	UpdateEvent(ctx context.Context, eventID, actorID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
