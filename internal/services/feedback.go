package services

import (
	"context"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type feedbackService struct {
	eventRepo      domain.EventRepository
	feedbackRepo   domain.FeedbackRepository
	contextTimeout time.Duration
}

func NewFeedbackService(eventRepo domain.EventRepository, feedbackRepo domain.FeedbackRepository, timeout time.Duration) domain.FeedbackService {
	return &feedbackService{
		eventRepo:      eventRepo,
		feedbackRepo:   feedbackRepo,
		contextTimeout: timeout,
	}
}

// SubmitFeedback upserts the user's feedback and recomputes the event's
// average rating from the full feedback set.
func (s *feedbackService) SubmitFeedback(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := f.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, f.EventID); err != nil {
		return nil, err
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.feedbackRepo.Upsert(ctx, f); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}
	if _, err := s.feedbackRepo.RefreshEventAverage(ctx, f.EventID); err != nil {
		return nil, fmt.Errorf("refresh average rating: %w", err)
	}
	return f, nil
}

// ListFeedback returns the event's feedback with anonymous authors redacted.
func (s *feedbackService) ListFeedback(ctx context.Context, eventID string) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	list, err := s.feedbackRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, f := range list {
		f.Redact()
	}
	return list, nil
}
