package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

var userCols = []string{"id", "email", "name", "role", "password_hash", "salt", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users \(email, name, role, password_hash, salt, created_at, updated_at\)`).
					WithArgs("ada@campus.edu", "Ada", domain.RoleStudent, "hash", "salt", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
			wantID: "user-1",
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewUser("ada@campus.edu", "Ada", domain.RoleStudent, now, now)
			u.PasswordHash, u.Salt = "hash", "salt"
			err = NewUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, name, role, password_hash, salt, created_at, updated_at FROM users WHERE email = \$1`).
			WithArgs("ada@campus.edu").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow("user-1", "ada@campus.edu", "Ada", "admin", "h", "s", now, now))

		u, err := NewUserRepository(db).GetByEmail(ctx, "ada@campus.edu")
		require.NoError(t, err)
		require.Equal(t, "user-1", u.ID)
		require.Equal(t, domain.RoleAdmin, u.Role)
		require.True(t, u.IsAdmin())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM users WHERE email`).WillReturnError(sql.ErrNoRows)

		_, err = NewUserRepository(db).GetByEmail(ctx, "nobody@campus.edu")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_GetByID_MalformedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE id`).WillReturnError(&pq.Error{Code: "22P02"})

	_, err = NewUserRepository(db).GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	updatedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET name = \$1, email = \$2, updated_at = \$3`).
					WithArgs("Ada L", "ada@campus.edu", updatedAt, "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found zero rows affected",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrUserNotFound,
		},
		{
			name: "unique violation returns ErrDuplicateEmail",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := &domain.User{ID: "user-1", Name: "Ada L", Email: "ada@campus.edu", UpdatedAt: updatedAt}
			err = NewUserRepository(db).Update(ctx, u)
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_ListByRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE role = \$1`).
		WithArgs(domain.RoleAdmin).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("a1", "a1@campus.edu", "Admin One", "admin", "h", "s", now, now).
			AddRow("a2", "a2@campus.edu", "Admin Two", "admin", "h", "s", now, now))

	users, err := NewUserRepository(db).ListByRole(context.Background(), domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "a2", users[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
