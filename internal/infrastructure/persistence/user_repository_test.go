package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/obaptiste/dashboard-api/internal/domain/report"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	t.Run("finds user by lowercased email", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(userID, "Admin", "admin@example.com", "$2a$10$hash")

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
			WithArgs("admin@example.com", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), "Admin@Example.com")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown email", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormRevenueRepository_FindAll(t *testing.T) {
	t.Run("returns all monthly rows", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormRevenueRepository(gormDB)

		rows := sqlmock.NewRows([]string{"month", "revenue"}).
			AddRow("Jan", int64(2000)).
			AddRow("Feb", int64(1800))

		mock.ExpectQuery(`SELECT \* FROM "revenue"`).WillReturnRows(rows)

		result, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, report.Revenue{Month: "Jan", Revenue: 2000}, result[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when table is empty", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormRevenueRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "revenue"`).
			WillReturnRows(sqlmock.NewRows([]string{"month", "revenue"}))

		result, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}
