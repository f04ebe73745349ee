package dto

import (
	"database/sql"
	"strings"
	"time"
	"vcardops/internal/domains/transaction/model"
	"vcardops/shared/constant"
	"vcardops/shared/timezone"

	"github.com/shopspring/decimal"
)

const (
	MessageMissingRequiredFields = "Missing required fields"
	MessageDoNotChargeProcessed  = "Do Not Charge processed successfully"
	MessageManualPaymentRecorded = "Manual payment recorded successfully"
)

// DoNotChargeRequest marks a reservation as never to be charged and records
// the matching ledger entry.
type DoNotChargeRequest struct {
	ReservationID        int64            `json:"reservation_id"         validate:"required"`
	AmountUSD            *decimal.Decimal `json:"amount_usd"             validate:"required,money"`
	PaymentChannel       string           `json:"payment_channel"`
	ExpediaReservationID *int64           `json:"expedia_reservation_id" validate:"required"`
	CreatedAt            string           `json:"created_at"`
	TypeOfTransaction    string           `json:"type_of_transaction"`
	PaymentMethod        string           `json:"payment_method"`
	ReferenceNumber      string           `json:"reference_number"`
	Notes                string           `json:"notes"`
}

// ToModel builds the ledger row. created_at falls back to now when absent or
// not RFC 3339.
func (r *DoNotChargeRequest) ToModel(hotelID sql.NullInt64) model.Transaction {
	channel := r.PaymentChannel
	if channel == "" {
		channel = constant.PaymentChannelDoNotCharge
	}

	txType := r.TypeOfTransaction
	if txType == "" {
		txType = constant.TransactionTypeDoNotCharge
	}

	return model.Transaction{
		ReservationID:        r.ReservationID,
		HotelID:              hotelID,
		ExpediaReservationID: sql.NullInt64{Int64: *r.ExpediaReservationID, Valid: true},
		AmountUSD:            *r.AmountUSD,
		Currency:             constant.DefaultCurrency,
		PaymentChannel:       channel,
		PaymentMethod:        optional(r.PaymentMethod),
		ReferenceNumber:      optional(r.ReferenceNumber),
		Notes:                optional(r.Notes),
		TypeOfTransaction:    txType,
		CreatedAt:            parseCreatedAt(r.CreatedAt),
	}
}

// ManualPaymentRequest records a payment taken outside the gateways. The
// reference number is what finance reconciles against.
type ManualPaymentRequest struct {
	ReservationID   int64            `json:"reservation_id"   validate:"required"`
	AmountUSD       *decimal.Decimal `json:"amount_usd"       validate:"required,money"`
	Currency        string           `json:"currency"         validate:"omitempty,iso4217"`
	ReferenceNumber string           `json:"reference_number" validate:"required"`
	PaymentMethod   string           `json:"payment_method"`
	Notes           string           `json:"notes"`
}

func (r *ManualPaymentRequest) ToModel(hotelID, expediaID sql.NullInt64) model.Transaction {
	currency := r.Currency
	if currency == "" {
		currency = constant.DefaultCurrency
	}

	return model.Transaction{
		ReservationID:        r.ReservationID,
		HotelID:              hotelID,
		ExpediaReservationID: expediaID,
		AmountUSD:            *r.AmountUSD,
		Currency:             currency,
		PaymentChannel:       constant.PaymentChannelManual,
		PaymentMethod:        optional(r.PaymentMethod),
		ReferenceNumber:      optional(strings.TrimSpace(r.ReferenceNumber)),
		Notes:                optional(r.Notes),
		TypeOfTransaction:    constant.TransactionTypeManual,
		CreatedAt:            timezone.Now(),
	}
}

type CreateTransactionResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
}

type Transaction struct {
	ID                   int64           `json:"id"`
	ReservationID        int64           `json:"reservation_id"`
	HotelID              *int64          `json:"hotel_id"`
	ExpediaReservationID *int64          `json:"expedia_reservation_id"`
	AmountUSD            decimal.Decimal `json:"amount_usd"`
	Currency             string          `json:"currency"`
	PaymentChannel       string          `json:"payment_channel"`
	PaymentMethod        string          `json:"payment_method"`
	ReferenceNumber      string          `json:"reference_number"`
	Notes                string          `json:"notes"`
	TypeOfTransaction    string          `json:"type_of_transaction"`
	CreatedAt            string          `json:"created_at"`
}

func (t *Transaction) FromModel(m model.Transaction) {
	t.ID = m.ID
	t.ReservationID = m.ReservationID
	t.AmountUSD = m.AmountUSD.Round(2)
	t.Currency = m.Currency
	t.PaymentChannel = m.PaymentChannel
	t.PaymentMethod = m.PaymentMethod.String
	t.ReferenceNumber = m.ReferenceNumber.String
	t.Notes = m.Notes.String
	t.TypeOfTransaction = m.TypeOfTransaction
	t.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)

	if m.HotelID.Valid {
		t.HotelID = &m.HotelID.Int64
	}

	if m.ExpediaReservationID.Valid {
		t.ExpediaReservationID = &m.ExpediaReservationID.Int64
	}
}

func FromModels(models []model.Transaction) []Transaction {
	res := make([]Transaction, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

func optional(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func parseCreatedAt(value string) time.Time {
	if value == "" {
		return timezone.Now()
	}

	createdAt, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return timezone.Now()
	}

	return createdAt
}
