package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                   = "id"
	FieldHotelID              = "hotel_id"
	FieldCheckInDate          = "check_in_date"
	FieldRemainingBalance     = "remaining_balance"
	FieldStatus               = "status"
	FieldNotes                = "notes"
	FieldExpediaReservationID = "expedia_reservation_id"
	FieldCreatedAt            = "created_at"
	FieldUpdatedAt            = "updated_at"
)

// Reservation is a row of reservations joined with its hotel name. Rows are
// created by the ingestion process; only status and notes are written here.
type Reservation struct {
	ID                   int64               `db:"id"`
	GuestName            sql.NullString      `db:"guest_name"`
	GuestFullName        sql.NullString      `db:"guest_full_name"`
	HotelID              sql.NullInt64       `db:"hotel_id"`
	HotelName            sql.NullString      `column:"name" db:"hotel_name" table:"hotels"`
	CheckInDate          sql.NullTime        `db:"check_in_date"`
	CheckOutDate         sql.NullTime        `db:"check_out_date"`
	BookingAmount        decimal.NullDecimal `db:"booking_amount"`
	RemainingBalance     decimal.NullDecimal `db:"remaining_balance"`
	Currency             sql.NullString      `db:"currency"`
	Status               sql.NullString      `db:"status"`
	CardNumber           sql.NullString      `db:"card_number"`
	ExpirationDate       sql.NullString      `db:"expiration_date"`
	CVV                  sql.NullString      `db:"cvv"`
	CardStatus           sql.NullString      `db:"card_status"`
	BookingSource        sql.NullString      `db:"booking_source"`
	BookedOn             sql.NullTime        `db:"booked_on"`
	Notes                sql.NullString      `db:"notes"`
	FullSidePanelText    sql.NullString      `db:"full_side_panel_text"`
	ExpediaReservationID sql.NullInt64       `db:"expedia_reservation_id"`
	CreatedAt            time.Time           `db:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at"`
}

func (Reservation) GetJoinQuery() string {
	return "LEFT JOIN hotels ON hotels.id = reservations.hotel_id"
}
