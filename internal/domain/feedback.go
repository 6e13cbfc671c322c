package domain

import (
	"context"
	"time"
)

// Feedback bounds.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Feedback is a user's rating of an event. There is at most one per (user, event).
// swagger:model Feedback
type Feedback struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	EventID     string    `json:"event_id"`
	UserName    string    `json:"user_name,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the rating range and comment length.
func (f *Feedback) Validate() error {
	if f.Rating < MinRating || f.Rating > MaxRating {
		return InvalidInputf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if len([]rune(f.Comment)) > MaxCommentLength {
		return InvalidInputf("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}

// Redact hides the author of anonymous feedback.
func (f *Feedback) Redact() {
	if f.IsAnonymous {
		f.UserID = ""
		f.UserName = ""
	}
}

// FeedbackRepository stores feedback.
type FeedbackRepository interface {
	// Upsert inserts the feedback or replaces the user's existing entry for the event.
	Upsert(ctx context.Context, feedback *Feedback) error
	// ListByEventID returns the event's feedback with UserName populated, newest first.
	ListByEventID(ctx context.Context, eventID string) ([]*Feedback, error)
	// RefreshEventAverage recomputes and stores the event's average rating.
	RefreshEventAverage(ctx context.Context, eventID string) (float64, error)
}

// FeedbackService is the feedback workflow.
type FeedbackService interface {
	SubmitFeedback(ctx context.Context, feedback *Feedback) (*Feedback, error)
	ListFeedback(ctx context.Context, eventID string) ([]*Feedback, error)
}
