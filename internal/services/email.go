package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campusevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	log.Printf("[EMAIL] Welcome email sent to %s", data.Email)
	return nil
}

// SendRSVPDecision tells a student that an admin approved or rejected their RSVP request.
func (s *emailService) SendRSVPDecision(ctx context.Context, data *domain.RSVPDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp decision data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("rsvp_decision", data)
	if err != nil {
		return fmt.Errorf("failed to render rsvp_decision template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send rsvp decision email: %w", err)
	}
	log.Printf("[EMAIL] RSVP decision sent to %s", data.Email)
	return nil
}

type emailDispatcher struct {
	emailService domain.EmailService
	userRepo     domain.UserRepository
}

// NewEmailDispatcher returns a NotificationDispatcher that emails RSVP approvals
// and rejections. Other notification types are ignored.
func NewEmailDispatcher(emailService domain.EmailService, userRepo domain.UserRepository) domain.NotificationDispatcher {
	return &emailDispatcher{emailService: emailService, userRepo: userRepo}
}

func (d *emailDispatcher) Dispatch(ctx context.Context, n *domain.Notification) error {
	if n.Type != domain.NotificationRSVPApproved && n.Type != domain.NotificationRSVPRejected {
		return nil
	}
	user, err := d.userRepo.GetByID(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return d.emailService.SendRSVPDecision(ctx, &domain.RSVPDecisionEmailData{
		Email:    user.Email,
		Name:     user.Name,
		Message:  n.Message,
		Approved: n.Type == domain.NotificationRSVPApproved,
	})
}
