package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUnitOfWork_WithinTx(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		uow := NewGormUnitOfWork(gormDB)
		repo := NewGormCustomerRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM .customers. WHERE id = \?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
			return repo.Delete(ctx, uuid.New())
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		uow := NewGormUnitOfWork(gormDB)
		repo := NewGormCustomerRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM .customers. WHERE id = \?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
			if err := repo.Delete(ctx, uuid.New()); err != nil {
				return err
			}
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call joins the enclosing transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()

		uow := NewGormUnitOfWork(gormDB)
		repo := NewGormCustomerRepository(gormDB)

		// One begin, one commit: the inner WithinTx must not open its own
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM .customers. WHERE id = \?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := uow.WithinTx(context.Background(), func(ctx context.Context) error {
			return uow.WithinTx(ctx, func(innerCtx context.Context) error {
				return repo.Delete(innerCtx, uuid.New())
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
