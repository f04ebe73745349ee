package repository_test

import (
	"context"
	"errors"
	"testing"
	"vcardops/infras/database"
	"vcardops/infras/otel/mocks"
	"vcardops/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactor(t *testing.T) (repository.Transactor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.NewTransactor(&database.Connection{Read: conn, Write: conn, Driver: database.DriverPostgres}, mocks.NewOtel()), mock
}

func TestTransactor_WithinTx(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		transactor, mock := newTransactor(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE reservations SET status`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := transactor.WithinTx(context.Background(), func(ctx context.Context, sqltx *sqlx.Tx) error {
			_, err := sqltx.ExecContext(ctx, "UPDATE reservations SET status = 'Do Not Charge' WHERE id = 5")

			return err
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed lookup rolls back before any insert", func(t *testing.T) {
		transactor, mock := newTransactor(t)
		notFound := errors.New("reservation not found")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT hotel_id FROM reservations`).WillReturnRows(sqlmock.NewRows([]string{"hotel_id"}))
		mock.ExpectRollback()

		err := transactor.WithinTx(context.Background(), func(ctx context.Context, sqltx *sqlx.Tx) error {
			var hotelID int64
			if err := sqltx.GetContext(ctx, &hotelID, "SELECT hotel_id FROM reservations WHERE id = 404"); err != nil {
				return notFound
			}

			_, err := sqltx.ExecContext(ctx, "INSERT INTO card_transactions (reservation_id) VALUES (404)")

			return err
		})

		require.ErrorIs(t, err, notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		transactor, mock := newTransactor(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = transactor.WithinTx(context.Background(), func(context.Context, *sqlx.Tx) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is returned", func(t *testing.T) {
		transactor, mock := newTransactor(t)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := transactor.WithinTx(context.Background(), func(context.Context, *sqlx.Tx) error {
			t.Fatal("fn must not run without a transaction")

			return nil
		})

		require.ErrorContains(t, err, "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
