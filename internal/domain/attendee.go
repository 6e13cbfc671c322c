package domain

import (
	"context"
	"time"
)

// Attendee records a verified check-in at an event.
// swagger:model Attendee
type Attendee struct {
	UserID      string    `json:"user_id"`
	CheckinTime time.Time `json:"checkin_time"`
}

// AttendeeRepository stores check-ins. Add returns ErrAlreadyCheckedIn when the
// user is already recorded for the event and ErrNotFound when the event is gone.
type AttendeeRepository interface {
	Add(ctx context.Context, eventID string, attendee Attendee) error
}

// CheckinPurpose is the only purpose a check-in token may carry.
const CheckinPurpose = "checkin"

// CheckinToken is the payload bound into a check-in QR code. It has no expiry:
// whether it is usable is decided from the event's state at check-in time.
type CheckinToken struct {
	EventID string
	UserID  string
	Purpose string
}

// CheckinTokenCodec signs and verifies check-in tokens. Decode returns an
// error wrapping ErrInvalidToken for anything it cannot verify.
type CheckinTokenCodec interface {
	Encode(token CheckinToken) (string, error)
	Decode(raw string) (CheckinToken, error)
}

// QRRenderer renders content as a PNG QR code.
type QRRenderer interface {
	PNG(content string, size int) ([]byte, error)
}

// CheckinPass is what a confirmed attendee shows at the door.
// swagger:model CheckinPass
type CheckinPass struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	Token   string `json:"token"`
	// QRCode is a data URL of the PNG image.
	QRCode string `json:"qr_code"`
	PNG    []byte `json:"-"`
}

// CheckinService is the check-in workflow.
type CheckinService interface {
	IssueCheckinToken(ctx context.Context, eventID, userID string) (*CheckinPass, error)
	Checkin(ctx context.Context, eventID, token string) (*Attendee, error)
}
