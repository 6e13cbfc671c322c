package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	notifier       domain.NotificationService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, notifier domain.NotificationService, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context, search string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.List(ctx, search)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, eventID)
}

func (s *eventService) CreateEvent(ctx context.Context, actorID string, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return createEvent(ctx, s.eventRepo, actorID, event)
}

// createEvent validates and stores a new event with its "created" change record.
func createEvent(ctx context.Context, repo domain.EventRepository, actorID string, event *domain.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	event.Venue = strings.TrimSpace(event.Venue)
	event.Organizer = strings.TrimSpace(event.Organizer)
	if missing := event.MissingFields(); len(missing) > 0 {
		return domain.InvalidInputf("missing required fields: %s", strings.Join(missing, ", "))
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	change := domain.ChangeRecord{
		ChangeType: domain.ChangeCreated,
		ChangedBy:  actorID,
		Timestamp:  now,
		Details: map[string]any{
			"name":      event.Name,
			"date":      event.Date.UTC().Format(time.RFC3339),
			"venue":     event.Venue,
			"organizer": event.Organizer,
		},
	}
	if err := repo.Create(ctx, event, change); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent treats every update as a potential schedule change: all confirmed
// attendees are notified whichever fields changed.
func (s *eventService) UpdateEvent(ctx context.Context, eventID, actorID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	details := patch.Details()
	if len(details) == 0 {
		return nil, domain.InvalidInputf("no fields to update")
	}
	for _, field := range []struct {
		name string
		v    *string
	}{{"name", patch.Name}, {"description", patch.Description}, {"venue", patch.Venue}, {"organizer", patch.Organizer}} {
		if field.v != nil && strings.TrimSpace(*field.v) == "" {
			return nil, domain.InvalidInputf("%s must not be empty", field.name)
		}
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return nil, domain.InvalidInputf("date must not be empty")
	}

	change := domain.ChangeRecord{
		ChangeType: domain.ChangeUpdated,
		ChangedBy:  actorID,
		Timestamp:  time.Now(),
		Details:    details,
	}
	updated, err := s.eventRepo.Update(ctx, eventID, patch, change)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, s.logger, updated.ID, domain.NotificationScheduleChange,
		fmt.Sprintf("Schedule changed for event: %s", updated.Name), updated.RSVPs...)
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.Delete(ctx, eventID)
}
