package dto

import (
	"database/sql"
	"strings"
	"time"
	"vcardops/internal/domains/reservation/model"
	"vcardops/shared/constant"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Reservation is the wire form of a reservation row. Nullable columns stay
// nullable so that clients can tell a missing value from an empty one.
type Reservation struct {
	ID                   int64            `json:"id"`
	GuestName            *string          `json:"guestName"`
	GuestFullName        *string          `json:"guestFullName"`
	Hotel                *string          `json:"Hotel"`
	HotelID              *int64           `json:"hotelId"`
	CheckInDate          *string          `json:"checkInDate"`
	CheckOutDate         *string          `json:"checkOutDate"`
	BookingAmount        *decimal.Decimal `json:"bookingAmount"`
	RemainingBalance     *decimal.Decimal `json:"remainingBalance"`
	Currency             string           `json:"currency"`
	Status               *string          `json:"status"`
	CardNumber           *string          `json:"cardNumber"`
	ExpirationDate       *string          `json:"expirationDate"`
	CVV                  *string          `json:"cvv"`
	CardStatus           *string          `json:"card_status"`
	BookingSource        *string          `json:"bookingSource"`
	BookingDate          *string          `json:"bookingDate"`
	Notes                *string          `json:"notes"`
	FullSidePanelText    *string          `json:"fullSidePanelText"`
	ExpediaReservationID *int64           `json:"expedia_reservation_id"`
	CreatedAt            string           `json:"created_at"`
	UpdatedAt            string           `json:"updated_at"`
}

func (r *Reservation) FromModel(m model.Reservation) {
	r.ID = m.ID
	r.GuestName = nullString(m.GuestName.String, m.GuestName.Valid)
	r.GuestFullName = nullString(m.GuestFullName.String, m.GuestFullName.Valid)
	r.Hotel = nullString(m.HotelName.String, m.HotelName.Valid)
	r.CheckInDate = nullDate(m.CheckInDate.Time, m.CheckInDate.Valid)
	r.CheckOutDate = nullDate(m.CheckOutDate.Time, m.CheckOutDate.Valid)
	r.BookingAmount = nullAmount(m.BookingAmount)
	r.RemainingBalance = nullAmount(m.RemainingBalance)
	r.CardNumber = nullString(m.CardNumber.String, m.CardNumber.Valid)
	r.ExpirationDate = nullString(m.ExpirationDate.String, m.ExpirationDate.Valid)
	r.CVV = nullString(m.CVV.String, m.CVV.Valid)
	r.CardStatus = nullString(m.CardStatus.String, m.CardStatus.Valid)
	r.BookingSource = BookingSource(m.BookingSource, m.BookedOn)
	r.BookingDate = nullDate(m.BookedOn.Time, m.BookedOn.Valid)
	r.Notes = nullString(m.Notes.String, m.Notes.Valid)
	r.FullSidePanelText = nullString(m.FullSidePanelText.String, m.FullSidePanelText.Valid)
	r.CreatedAt = formatTimestamp(m.CreatedAt)
	r.UpdatedAt = formatTimestamp(m.UpdatedAt)

	if m.HotelID.Valid {
		r.HotelID = &m.HotelID.Int64
	}

	if m.ExpediaReservationID.Valid {
		r.ExpediaReservationID = &m.ExpediaReservationID.Int64
	}

	r.Currency = constant.DefaultCurrency
	if m.Currency.Valid && strings.TrimSpace(m.Currency.String) != "" {
		r.Currency = strings.TrimSpace(m.Currency.String)
	}

	status := constant.StatusUnknown
	if m.Status.Valid && m.Status.String != "" {
		status = m.Status.String
	}

	r.Status = &status
}

func FromModels(models []model.Reservation) []Reservation {
	res := make([]Reservation, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

// BookingSource renders the channel with the booked-on date, for example
// "Expedia (booked 3/1/24)". A missing channel reads "Unknown".
func BookingSource(source sql.NullString, bookedOn sql.NullTime) *string {
	res := constant.StatusUnknown
	if source.Valid && source.String != "" {
		res = source.String
	}

	if bookedOn.Valid {
		res += " (booked " + bookedOn.Time.Format(constant.BookedOnFormat) + ")"
	}

	return &res
}

func nullString(value string, valid bool) *string {
	if !valid {
		return nil
	}

	return &value
}

func nullDate(value time.Time, valid bool) *string {
	if !valid {
		return nil
	}

	date := value.Format(constant.DateOnlyFormat)

	return &date
}

func nullAmount(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}

	amount := value.Decimal.Round(2)

	return &amount
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(constant.DateFormat)
}

type UpdateNotesRequest struct {
	CardID int64  `json:"cardId"`
	Notes  string `json:"notes"`
}

type UpdateNotesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Notes   string `json:"notes"`
}

// Summary backs the dashboard tiles.
type Summary struct {
	CardsToCharge       int             `json:"cardsToCharge"`
	TotalAmountToCharge decimal.Decimal `json:"totalAmountToCharge"`
	ExpiredCards        int             `json:"expiredCards"`
	TotalReservations   int             `json:"totalReservations"`
}
