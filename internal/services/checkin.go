package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

const qrCodeSize = 256

type checkinService struct {
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	codec          domain.CheckinTokenCodec
	qr             domain.QRRenderer
	contextTimeout time.Duration
}

func NewCheckinService(eventRepo domain.EventRepository, attendeeRepo domain.AttendeeRepository, codec domain.CheckinTokenCodec, qr domain.QRRenderer, timeout time.Duration) domain.CheckinService {
	return &checkinService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		codec:          codec,
		qr:             qr,
		contextTimeout: timeout,
	}
}

// IssueCheckinToken returns a signed pass for a confirmed attendee, rendered as a QR code.
func (s *checkinService) IssueCheckinToken(ctx context.Context, eventID, userID string) (*domain.CheckinPass, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.RSVPStatusOf(userID) != domain.RSVPConfirmed {
		return nil, fmt.Errorf("%w: you must be RSVPd to generate QR code", domain.ErrForbidden)
	}
	token, err := s.codec.Encode(domain.CheckinToken{EventID: event.ID, UserID: userID, Purpose: domain.CheckinPurpose})
	if err != nil {
		return nil, fmt.Errorf("encode checkin token: %w", err)
	}
	png, err := s.qr.PNG(token, qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return &domain.CheckinPass{
		EventID: event.ID,
		UserID:  userID,
		Token:   token,
		QRCode:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		PNG:     png,
	}, nil
}

// Checkin redeems a token against eventID. Token validity comes entirely from
// the event's current state: the user must still hold a confirmed RSVP and
// must not already be checked in.
func (s *checkinService) Checkin(ctx context.Context, eventID, raw string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	token, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if token.Purpose != domain.CheckinPurpose || token.EventID != eventID {
		return nil, fmt.Errorf("%w: token was not issued for this event", domain.ErrInvalidToken)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasAttendee(token.UserID) {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if event.RSVPStatusOf(token.UserID) != domain.RSVPConfirmed {
		return nil, fmt.Errorf("%w: user is not RSVPd to this event", domain.ErrForbidden)
	}
	attendee := domain.Attendee{UserID: token.UserID, CheckinTime: time.Now().UTC()}
	if err := s.attendeeRepo.Add(ctx, event.ID, attendee); err != nil {
		return nil, err
	}
	return &attendee, nil
}
