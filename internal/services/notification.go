package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type notificationService struct {
	repo           domain.NotificationRepository
	dispatcher     domain.NotificationDispatcher
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewNotificationService persists notifications in repo and pushes them through dispatcher.
func NewNotificationService(repo domain.NotificationRepository, dispatcher domain.NotificationDispatcher, logger *slog.Logger, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		repo:           repo,
		dispatcher:     dispatcher,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return nil
	}
	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "notification dispatch failed",
			"notification_id", n.ID, "user_id", n.UserID, "type", n.Type, "err", err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.repo.ListByUserID(ctx, userID, params.Normalize())
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.repo.MarkRead(ctx, id, userID)
}

// notify creates one notification per recipient. Failures are logged and never
// fail the calling workflow: the state change it reports has already committed.
func notify(ctx context.Context, notifier domain.NotificationService, logger *slog.Logger, eventID string, typ domain.NotificationType, message string, recipients ...string) {
	now := time.Now()
	for _, userID := range recipients {
		n := domain.NewNotification(userID, eventID, typ, message, now)
		if err := notifier.Notify(ctx, n); err != nil {
			logger.ErrorContext(ctx, "create notification failed",
				"user_id", userID, "event_id", eventID, "type", typ, "err", err)
		}
	}
}

// fanoutDispatcher hands each notification to every dispatcher in turn.
type fanoutDispatcher []domain.NotificationDispatcher

// NewFanoutDispatcher combines dispatchers. Nil entries are skipped and every
// dispatcher runs even when an earlier one fails.
func NewFanoutDispatcher(dispatchers ...domain.NotificationDispatcher) domain.NotificationDispatcher {
	var f fanoutDispatcher
	for _, d := range dispatchers {
		if d != nil {
			f = append(f, d)
		}
	}
	return f
}

func (f fanoutDispatcher) Dispatch(ctx context.Context, n *domain.Notification) error {
	var errs []error
	for _, d := range f {
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
