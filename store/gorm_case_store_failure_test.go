package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Persistence failures must come back to the caller as errors, never be
// swallowed, and must be distinguishable from NotFound.
func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *GormCaseStore) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	// Constructed directly to skip AutoMigrate, which sqlmock cannot serve.
	return mock, &GormCaseStore{db: gormDB, logger: zap.NewNop()}
}

func TestGormCaseStore_FindPendingByName_QueryError(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err := s.FindPendingByName(context.Background(), "Asha")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGormCaseStore_SetStatus_UpdateError(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectExec("UPDATE").WillReturnError(assert.AnError)

	err := s.SetStatus(context.Background(), 1, StatusConfirmedSafe, "note")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCaseResolved)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGormCaseStore_SetStatus_ZeroRowsResolved(t *testing.T) {
	mock, s := setupMockStore(t)

	// Conditioned UPDATE touches nothing, follow-up read finds the case:
	// it was already resolved.
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "customer_name", "status"}).
		AddRow(1, "Asha", string(StatusConfirmedFraud))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	err := s.SetStatus(context.Background(), 1, StatusConfirmedSafe, "note")
	assert.ErrorIs(t, err, ErrCaseResolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
