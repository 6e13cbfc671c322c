package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedback_Validate(t *testing.T) {
	tests := []struct {
		name    string
		f       Feedback
		wantErr bool
	}{
		{name: "min rating", f: Feedback{Rating: 1}},
		{name: "max rating with comment", f: Feedback{Rating: 5, Comment: strings.Repeat("a", MaxCommentLength)}},
		{name: "rating zero", f: Feedback{Rating: 0}, wantErr: true},
		{name: "rating six", f: Feedback{Rating: 6}, wantErr: true},
		{name: "comment too long", f: Feedback{Rating: 3, Comment: strings.Repeat("a", MaxCommentLength+1)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFeedback_Redact(t *testing.T) {
	anon := &Feedback{UserID: "u1", UserName: "Ada", IsAnonymous: true}
	anon.Redact()
	assert.Empty(t, anon.UserID)
	assert.Empty(t, anon.UserName)

	named := &Feedback{UserID: "u1", UserName: "Ada"}
	named.Redact()
	assert.Equal(t, "u1", named.UserID)
	assert.Equal(t, "Ada", named.UserName)
}
