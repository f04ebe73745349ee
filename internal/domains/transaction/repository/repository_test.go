package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcardops/infras/database"
	"vcardops/infras/otel/mocks"
	"vcardops/internal/domains/transaction/model"
	"vcardops/internal/domains/transaction/repository"
	"vcardops/shared/constant"
	gDto "vcardops/shared/dto"
)

const insertColumns = `INSERT INTO card_transactions \(reservation_id, hotel_id, expedia_reservation_id, amount_usd, currency, payment_channel, payment_method, reference_number, notes, type_of_transaction, created_at\)`

func newRepository(t *testing.T, driver string) (repository.Transaction, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, driver)

	return repository.New(&database.Connection{Read: conn, Write: conn, Driver: driver}, mocks.NewOtel()), mock, conn
}

func doNotCharge() model.Transaction {
	return model.Transaction{
		ReservationID:        1,
		HotelID:              sql.NullInt64{Int64: 9, Valid: true},
		ExpediaReservationID: sql.NullInt64{Int64: 555, Valid: true},
		AmountUSD:            decimal.RequireFromString("120.50"),
		Currency:             constant.DefaultCurrency,
		PaymentChannel:       constant.PaymentChannelDoNotCharge,
		TypeOfTransaction:    constant.TransactionTypeDoNotCharge,
		CreatedAt:            time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRepository_InsertTxReturningID(t *testing.T) {
	t.Run("postgres reads the id back with RETURNING", func(t *testing.T) {
		repo, mock, conn := newRepository(t, database.DriverPostgres)

		mock.ExpectBegin()
		mock.ExpectQuery(insertColumns + ` VALUES \(\$1, .*\$11\) RETURNING id`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
		mock.ExpectCommit()

		sqltx, err := conn.Beginx()
		require.NoError(t, err)

		id, err := repo.InsertTxReturningID(context.Background(), sqltx, doNotCharge())
		require.NoError(t, err)
		require.NoError(t, sqltx.Commit())

		assert.Equal(t, int64(77), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mysql reads LastInsertId", func(t *testing.T) {
		repo, mock, conn := newRepository(t, database.DriverMySQL)

		mock.ExpectBegin()
		mock.ExpectExec(insertColumns + ` VALUES \(\?, .*\?\)$`).
			WillReturnResult(sqlmock.NewResult(78, 1))
		mock.ExpectCommit()

		sqltx, err := conn.Beginx()
		require.NoError(t, err)

		id, err := repo.InsertTxReturningID(context.Background(), sqltx, doNotCharge())
		require.NoError(t, err)
		require.NoError(t, sqltx.Commit())

		assert.Equal(t, int64(78), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error", func(t *testing.T) {
		repo, mock, conn := newRepository(t, database.DriverPostgres)

		mock.ExpectBegin()
		mock.ExpectQuery(insertColumns).WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		sqltx, err := conn.Beginx()
		require.NoError(t, err)

		_, err = repo.InsertTxReturningID(context.Background(), sqltx, doNotCharge())
		require.Error(t, err)
		require.NoError(t, sqltx.Rollback())

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetAllByReservation(t *testing.T) {
	repo, mock, _ := newRepository(t, database.DriverPostgres)

	mock.ExpectPrepare(`SELECT .* FROM card_transactions +WHERE \(card_transactions\.reservation_id = \$1\) +ORDER BY created_at DESC`).
		ExpectQuery().
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "amount_usd", "payment_channel", "reference_number"}).
			AddRow(int64(3), int64(1), "10.00", "manual", "REF-1").
			AddRow(int64(2), int64(1), "120.50", "Do Not Charge", nil))

	filter := gDto.FilterGroup{Filters: []any{gDto.Filter{
		Field:    model.FieldReservationID,
		Value:    int64(1),
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	}}}

	got, err := repo.GetAll(context.Background(), gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, filter)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "REF-1", got[0].ReferenceNumber.String)
	assert.True(t, decimal.RequireFromString("120.5").Equal(got[1].AmountUSD))
	assert.False(t, got[1].ReferenceNumber.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}
