package services

import (
	"context"
	"errors"
	"testing"

	"housemanagement/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockTransactionService(t *testing.T) (*TransactionService, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	require.NoError(t, err)

	return NewTransactionService(database.DB{SQL: gormDB}), mock
}

func TestTransactionService_Execute(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		service, mock := newMockTransactionService(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		called := false
		err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns the callback error", func(t *testing.T) {
		service, mock := newMockTransactionService(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		linkErr := errors.New("quote is not approved")
		err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
			return linkErr
		})

		assert.ErrorIs(t, err, linkErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("converts a panic into an error", func(t *testing.T) {
		service, mock := newMockTransactionService(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
			panic("progress out of range")
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic during transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports commit failure", func(t *testing.T) {
		service, mock := newMockTransactionService(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		err := service.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
			return nil
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
