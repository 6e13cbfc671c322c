package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToggleStatus(t *testing.T) {
	tests := []struct {
		current RSVPStatus
		want    RSVPStatus
	}{
		{RSVPNone, RSVPPending},
		{"", RSVPPending},
		{RSVPPending, RSVPNone},
		{RSVPConfirmed, RSVPNone},
	}
	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			assert.Equal(t, tt.want, NextToggleStatus(tt.current))
		})
	}
}

func TestApplyDecision(t *testing.T) {
	tests := []struct {
		name    string
		current RSVPStatus
		action  RSVPAction
		want    RSVPStatus
		errIs   error
	}{
		{name: "approve pending", current: RSVPPending, action: RSVPApprove, want: RSVPConfirmed},
		{name: "reject pending", current: RSVPPending, action: RSVPReject, want: RSVPNone},
		{name: "approve without request", current: RSVPNone, action: RSVPApprove, errIs: ErrInvalidState},
		{name: "approve confirmed", current: RSVPConfirmed, action: RSVPApprove, errIs: ErrInvalidState},
		{name: "reject confirmed", current: RSVPConfirmed, action: RSVPReject, errIs: ErrInvalidState},
		{name: "unknown action", current: RSVPPending, action: "maybe", errIs: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyDecision(tt.current, tt.action)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, tt.current, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
