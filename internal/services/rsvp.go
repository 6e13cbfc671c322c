package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"campusevents/internal/domain"
)

type rsvpService struct {
	eventRepo      domain.EventRepository
	rsvpRepo       domain.RSVPRepository
	userRepo       domain.UserRepository
	notifier       domain.NotificationService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewRSVPService(eventRepo domain.EventRepository, rsvpRepo domain.RSVPRepository, userRepo domain.UserRepository, notifier domain.NotificationService, logger *slog.Logger, timeout time.Duration) domain.RSVPService {
	return &rsvpService{
		eventRepo:      eventRepo,
		rsvpRepo:       rsvpRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// ToggleRSVP cancels a confirmed RSVP, withdraws a pending one, or otherwise
// files a new pending request. The acting user is always notified of which
// branch fired; a new request also notifies every admin.
func (s *rsvpService) ToggleRSVP(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, prev, err := s.rsvpRepo.Transition(ctx, eventID, userID, func(cur domain.RSVPStatus) (domain.RSVPStatus, error) {
		return domain.NextToggleStatus(cur), nil
	})
	if err != nil {
		return nil, err
	}

	switch prev {
	case domain.RSVPConfirmed:
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPUpdate,
			fmt.Sprintf("You canceled RSVP for event: %s", event.Name), userID)
	case domain.RSVPPending:
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPUpdate,
			fmt.Sprintf("You canceled your RSVP request for event: %s", event.Name), userID)
	default:
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPUpdate,
			fmt.Sprintf("Your RSVP request for event: %s is pending admin approval", event.Name), userID)
		admins, err := s.userRepo.ListByRole(ctx, domain.RoleAdmin)
		if err != nil {
			s.logger.ErrorContext(ctx, "list admins failed", "event_id", event.ID, "err", err)
			break
		}
		ids := make([]string, 0, len(admins))
		for _, a := range admins {
			ids = append(ids, a.ID)
		}
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPRequest,
			fmt.Sprintf("New RSVP request for event: %s from %s", event.Name, actor.Name), ids...)
	}
	return event, nil
}

// ApproveOrReject decides a pending RSVP. Callers must already have checked that the actor is an admin.
func (s *rsvpService) ApproveOrReject(ctx context.Context, eventID, userID string, action domain.RSVPAction) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !action.Valid() {
		return nil, domain.InvalidInputf("action must be %q or %q", domain.RSVPApprove, domain.RSVPReject)
	}
	event, _, err := s.rsvpRepo.Transition(ctx, eventID, userID, func(cur domain.RSVPStatus) (domain.RSVPStatus, error) {
		return domain.ApplyDecision(cur, action)
	})
	if err != nil {
		return nil, err
	}

	if action == domain.RSVPApprove {
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPApproved,
			fmt.Sprintf("Your RSVP for event: %s has been approved!", event.Name), userID)
	} else {
		notify(ctx, s.notifier, s.logger, event.ID, domain.NotificationRSVPRejected,
			fmt.Sprintf("Your RSVP for event: %s has been rejected.", event.Name), userID)
	}
	return event, nil
}

func (s *rsvpService) ListPending(ctx context.Context, eventID string) ([]*domain.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.rsvpRepo.ListUsersByStatus(ctx, eventID, domain.RSVPPending)
}
