package domain

import (
	"context"
	"fmt"
)

// RSVPStatus is the single RSVP state of a (event, user) pair.
type RSVPStatus string

const (
	RSVPNone      RSVPStatus = "none"
	RSVPPending   RSVPStatus = "pending"
	RSVPConfirmed RSVPStatus = "confirmed"
)

// NextToggleStatus is the state a user-initiated toggle moves to:
// confirmed and pending both cancel, anything else submits a pending request.
func NextToggleStatus(current RSVPStatus) RSVPStatus {
	switch current {
	case RSVPConfirmed, RSVPPending:
		return RSVPNone
	default:
		return RSVPPending
	}
}

// RSVPAction is an admin decision on a pending RSVP.
type RSVPAction string

const (
	RSVPApprove RSVPAction = "approve"
	RSVPReject  RSVPAction = "reject"
)

// Valid reports whether a is approve or reject.
func (a RSVPAction) Valid() bool {
	return a == RSVPApprove || a == RSVPReject
}

// ApplyDecision returns the state after an admin decision. Only pending RSVPs
// can be decided.
func ApplyDecision(current RSVPStatus, action RSVPAction) (RSVPStatus, error) {
	if !action.Valid() {
		return current, InvalidInputf("action must be %q or %q", RSVPApprove, RSVPReject)
	}
	if current != RSVPPending {
		return current, fmt.Errorf("%w: user has no pending RSVP for this event", ErrInvalidState)
	}
	if action == RSVPApprove {
		return RSVPConfirmed, nil
	}
	return RSVPNone, nil
}

// RSVPTransitionFunc computes the next status from the current one. Returning
// an error aborts the transition without writing anything.
type RSVPTransitionFunc func(current RSVPStatus) (RSVPStatus, error)

// RSVPRepository stores RSVP state. Transition must serialise concurrent
// transitions on the same event so none is lost.
type RSVPRepository interface {
	// Transition reads the user's current status under the event's lock, applies
	// fn and persists the result. It returns the updated event and the status
	// before the transition.
	Transition(ctx context.Context, eventID, userID string, fn RSVPTransitionFunc) (*Event, RSVPStatus, error)
	ListUsersByStatus(ctx context.Context, eventID string, status RSVPStatus) ([]*UserSummary, error)
}

// RSVPService is the RSVP workflow.
type RSVPService interface {
	ToggleRSVP(ctx context.Context, eventID, userID string) (*Event, error)
	ApproveOrReject(ctx context.Context, eventID, userID string, action RSVPAction) (*Event, error)
	ListPending(ctx context.Context, eventID string) ([]*UserSummary, error)
}
