package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		newName   *string
		newEmail  *string
		errIs     error
		wantName  string
		wantEmail string
	}{
		{name: "name only", newName: strPtr(" Ada L "), wantName: "Ada L", wantEmail: "ada@campus.edu"},
		{name: "email only", newEmail: strPtr("ADA.L@campus.edu"), wantName: "ada", wantEmail: "ada.l@campus.edu"},
		{name: "same email", newEmail: strPtr("ada@campus.edu"), wantName: "ada", wantEmail: "ada@campus.edu"},
		{name: "nothing to update", errIs: domain.ErrInvalidInput},
		{name: "blank name", newName: strPtr("  "), errIs: domain.ErrInvalidInput},
		{name: "bad email", newEmail: strPtr("nope"), errIs: domain.ErrInvalidInput},
		{name: "email taken", newEmail: strPtr("grace@campus.edu"), errIs: domain.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			ada := store.addUser("ada", domain.RoleStudent)
			store.addUser("grace", domain.RoleStudent)
			svc := NewUserService(&fakeUserRepo{fakeStore: store}, testTimeout)

			got, err := svc.UpdateProfile(ctx, ada.ID, tt.newName, tt.newEmail)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantEmail, got.Email)
			assert.Equal(t, domain.RoleStudent, got.Role)

			stored, err := svc.GetByID(ctx, ada.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, stored.Email)
		})
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{fakeStore: newFakeStore()}, testTimeout)
	_, err := svc.GetByID(context.Background(), "user-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
