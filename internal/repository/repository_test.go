package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/manojtanwar99/stayvira/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var userColumns = []string{"id", "user_name", "first_name", "last_name", "email", "password_hash", "role", "profile_image", "created_at", "updated_at"}

// =============================================================================
// UserRepository
// =============================================================================

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "admin", "Admin", "User", "admin@veera.com", "$2a$10$hash", "admin", "", now, now))

	user, err := repo.FindByEmail(context.Background(), "admin@veera.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "ghost@veera.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_StoreError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), "5b0c5e0e-3f5c-4a4f-9d1e-0f4f3f7c2a11")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, boom)
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-2", "jane", "", "", "jane@veera.com", "h", "user", "", now, now).
			AddRow("u-1", "admin", "", "", "admin@veera.com", "h", "admin", "", now, now))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-2", users[0].ID)
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.User{UserName: "admin", Email: "admin@veera.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{UserName: "jane", Email: "jane@veera.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs("5b0c5e0e-3f5c-4a4f-9d1e-0f4f3f7c2a11").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "5b0c5e0e-3f5c-4a4f-9d1e-0f4f3f7c2a11"))

	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs("9e7d1c2a-6b3f-4e8a-8c5d-2a1b0c9d8e7f").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "9e7d1c2a-6b3f-4e8a-8c5d-2a1b0c9d8e7f"), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// ListingRepository
// =============================================================================

var listingColumns = []string{"id", "title", "price", "status", "property_type", "created_at", "updated_at"}

func TestListingRepository_ListWithFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "listings" WHERE status = \$1 AND property_type = \$2 ORDER BY created_at DESC`).
		WithArgs("for-sale", "villa").
		WillReturnRows(sqlmock.NewRows(listingColumns).
			AddRow("l-1", "Sea view villa", 950000.0, "for-sale", "villa", now, now))

	listings, err := repo.List(context.Background(), models.ListingFilter{Status: "for-sale", PropertyType: "villa"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Sea view villa", listings[0].Title)
	require.NotNil(t, listings[0].Price)
	assert.InDelta(t, 950000.0, *listings[0].Price, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "listings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(listingColumns))

	_, err := repo.FindByID(context.Background(), "9e7d1c2a-6b3f-4e8a-8c5d-2a1b0c9d8e7f")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositories_MalformedIDIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	listings := NewListingRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	for _, id := range []string{"abc", "", "l-1", "5b0c5e0e-3f5c-4a4f-9d1e"} {
		_, err := listings.FindByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "listing find %q", id)
		assert.ErrorIs(t, listings.Delete(ctx, id), ErrNotFound, "listing delete %q", id)

		_, err = users.FindByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "user find %q", id)
		assert.ErrorIs(t, users.Delete(ctx, id), ErrNotFound, "user delete %q", id)
	}

	// Malformed ids never reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectExec(`DELETE FROM "listings" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "9e7d1c2a-6b3f-4e8a-8c5d-2a1b0c9d8e7f"), ErrNotFound)
}

func TestListingRepository_Counts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "listings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT status AS group_key, COUNT\(\*\) AS group_count FROM "listings" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"group_key", "group_count"}).
			AddRow("for-sale", 2).
			AddRow("sold", 1))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	rows, err := repo.CountBy(context.Background(), "status")
	require.NoError(t, err)
	assert.Equal(t, []models.GroupCount{{Key: "for-sale", Count: 2}, {Key: "sold", Count: 1}}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_CountByRejectsUnknownColumn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewListingRepository(db)

	_, err := repo.CountBy(context.Background(), "title; DROP TABLE listings")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
