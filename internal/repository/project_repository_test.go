package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, mock
}

func TestGormProjectRepository_FindByIDAndOwner_ScopesByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "status", "owner_id", "created_at", "updated_at"}).
		AddRow(1, "P1", "Planning", 42, time.Now(), time.Now())

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(uint64(1), uint64(42), 1).
		WillReturnRows(rows)

	project, err := repo.FindByIDAndOwner(1, 42)
	require.NoError(t, err)
	require.Equal(t, uint64(1), project.ID)
	require.Equal(t, uint64(42), project.OwnerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProjectRepository_FindByIDAndOwner_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(uint64(1), uint64(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDAndOwner(1, 7)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProjectRepository_ListByOwner_OrdersNewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "owner_id"}).
		AddRow(2, "Newer", 42).
		AddRow(1, "Older", 42)

	mock.ExpectQuery(`SELECT \* FROM "projects" WHERE owner_id = \$1 ORDER BY created_at DESC`).
		WithArgs(uint64(42)).
		WillReturnRows(rows)

	projects, err := repo.ListByOwner(42)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "Newer", projects[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Deleting a project removes its tasks in the same transaction.
func TestGormProjectRepository_Delete_CascadesTasks(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE project_id = \$1`).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "projects"`).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(1))
	require.NoError(t, mock.ExpectationsWereMet())
}
