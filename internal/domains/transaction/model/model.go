package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "card_transactions"
	EntityName = "transaction"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldCreatedAt     = "created_at"
)

// Transaction is an append-only ledger row written as a side effect of a
// charge, manual payment or do-not-charge action.
type Transaction struct {
	ID                   int64           `db:"id" readonly:"true"`
	ReservationID        int64           `db:"reservation_id"`
	HotelID              sql.NullInt64   `db:"hotel_id"`
	ExpediaReservationID sql.NullInt64   `db:"expedia_reservation_id"`
	AmountUSD            decimal.Decimal `db:"amount_usd"`
	Currency             string          `db:"currency"`
	PaymentChannel       string          `db:"payment_channel"`
	PaymentMethod        sql.NullString  `db:"payment_method"`
	ReferenceNumber      sql.NullString  `db:"reference_number"`
	Notes                sql.NullString  `db:"notes"`
	TypeOfTransaction    string          `db:"type_of_transaction"`
	CreatedAt            time.Time       `db:"created_at"`
}
