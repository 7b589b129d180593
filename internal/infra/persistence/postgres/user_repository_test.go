package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"letsshare/internal/domain/entity"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/repository"
	"letsshare/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userColumns = []string{"id", "email", "full_name", "password_hash", "created_at", "updated_at"}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "alice@example.com", "Alice", "hash", createdAt, createdAt))

	user, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &entity.User{
		ID:           7,
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hash",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByID(context.Background(), 99)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrUserNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WithArgs("alice@example.com", "Alice", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	user := &entity.User{Email: "alice@example.com", FullName: "Alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(11), user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "driver error", err: &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}},
		{name: "translated error", err: gorm.ErrDuplicatedKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).WillReturnError(tt.err)

			err := repo.Create(context.Background(), &entity.User{
				Email:        "alice@example.com",
				FullName:     "Alice",
				PasswordHash: "hash",
			})
			assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
		})
	}
}

func TestUserRepository_Create_OtherDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), &entity.User{Email: "a@example.com", FullName: "Al", PasswordHash: "hash"})
	dbErr, ok := errors.AsType[*domainerrors.DatabaseExecuteError](err)
	require.True(t, ok)
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", dbErr.ErrorCode())
}

func TestUserRepository_Create_RejectsEmptyHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &entity.User{Email: "a@example.com", FullName: "Al"})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}
