package domain

import (
	"context"
	"time"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationRSVPUpdate     NotificationType = "rsvp_update"
	NotificationRSVPRequest    NotificationType = "rsvp_request"
	NotificationRSVPApproved   NotificationType = "rsvp_approved"
	NotificationRSVPRejected   NotificationType = "rsvp_rejected"
	NotificationScheduleChange NotificationType = "schedule_change"
)

// Notification is a message addressed to a single user.
// swagger:model Notification
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    string           `json:"user_id" bson:"user_id"`
	EventID   string           `json:"event_id,omitempty" bson:"event_id,omitempty"`
	Message   string           `json:"message" bson:"message"`
	Type      NotificationType `json:"type" bson:"type"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

// NewNotification returns an unread notification. ID is set by the repository on create.
func NewNotification(userID, eventID string, typ NotificationType, message string, createdAt time.Time) *Notification {
	return &Notification{
		UserID:    userID,
		EventID:   eventID,
		Message:   message,
		Type:      typ,
		CreatedAt: createdAt,
	}
}

// NotificationRepository stores notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUserID returns one page of the user's notifications, newest first, and the total count.
	ListByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	// MarkRead marks the user's notification read. It returns ErrNotFound if the
	// notification does not exist or belongs to another user.
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
}

// NotificationDispatcher delivers a stored notification to live channels (websocket, email).
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *Notification) error
}

// NotificationService stores and delivers notifications.
type NotificationService interface {
	// Notify persists n and then dispatches it. Dispatch failures are logged, not returned.
	Notify(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
}
