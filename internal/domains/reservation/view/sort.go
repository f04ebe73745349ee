package view

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/shared/constant"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Key names a sortable column by its wire field name.
type Key string

const (
	KeyID               Key = "id"
	KeyGuestName        Key = "guestName"
	KeyHotel            Key = "Hotel"
	KeyCheckInDate      Key = "checkInDate"
	KeyCheckOutDate     Key = "checkOutDate"
	KeyBookingAmount    Key = "bookingAmount"
	KeyRemainingBalance Key = "remainingBalance"
	KeyCurrency         Key = "currency"
	KeyStatus           Key = "status"
	KeyCardStatus       Key = "card_status"
	KeyBookingSource    Key = "bookingSource"
	KeyBookingDate      Key = "bookingDate"
)

const bookedSuffix = " (booked "

type Sort struct {
	Key       Key
	Direction Direction
}

// Toggle is the column-header click: the same key flips direction, a new
// key starts ascending.
func (s Sort) Toggle(key Key) Sort {
	if s.Key != key {
		return Sort{Key: key, Direction: Asc}
	}

	if s.Direction == Asc {
		return Sort{Key: key, Direction: Desc}
	}

	return Sort{Key: key, Direction: Asc}
}

type valueKind int

const (
	kindMissing valueKind = iota
	kindString
	kindNumber
	kindDate
)

type sortValue struct {
	kind valueKind
	text string
	num  decimal.Decimal
	date time.Time
}

type keyed struct {
	row   dto.Reservation
	value sortValue
}

// Ordered returns a stably sorted copy of rows. Missing values (null, empty
// or "Unknown") go last in both directions. An empty key keeps input order.
func Ordered(rows []dto.Reservation, sort Sort) []dto.Reservation {
	res := slices.Clone(rows)
	if sort.Key == "" || len(res) < 2 {
		return res
	}

	items := make([]keyed, len(res))
	for i, row := range res {
		items[i] = keyed{row: row, value: extract(row, sort.Key)}
	}

	// collators keep internal buffers and are not safe to share
	coll := collate.New(language.English)

	slices.SortStableFunc(items, func(a, b keyed) int {
		return compare(coll, a.value, b.value, sort.Direction)
	})

	for i, item := range items {
		res[i] = item.row
	}

	return res
}

func compare(coll *collate.Collator, a, b sortValue, direction Direction) int {
	switch {
	case a.kind == kindMissing && b.kind == kindMissing:
		return 0
	case a.kind == kindMissing:
		return 1
	case b.kind == kindMissing:
		return -1
	}

	var cmp int

	switch {
	case a.kind == kindNumber && b.kind == kindNumber:
		cmp = a.num.Cmp(b.num)
	case a.kind == kindDate && b.kind == kindDate:
		cmp = a.date.Compare(b.date)
	default:
		cmp = coll.CompareString(a.text, b.text)
	}

	if direction == Desc {
		return -cmp
	}

	return cmp
}

func extract(row dto.Reservation, key Key) sortValue {
	switch key {
	case KeyID:
		return sortValue{kind: kindNumber, num: decimal.NewFromInt(row.ID), text: strconv.FormatInt(row.ID, 10)}
	case KeyGuestName:
		return stringValue(row.GuestName)
	case KeyHotel:
		return stringValue(row.Hotel)
	case KeyCheckInDate:
		return dateValue(row.CheckInDate)
	case KeyCheckOutDate:
		return dateValue(row.CheckOutDate)
	case KeyBookingDate:
		return dateValue(row.BookingDate)
	case KeyBookingAmount:
		return numberValue(row.BookingAmount)
	case KeyRemainingBalance:
		return numberValue(row.RemainingBalance)
	case KeyCurrency:
		return stringValue(&row.Currency)
	case KeyStatus:
		return stringValue(row.Status)
	case KeyCardStatus:
		return stringValue(row.CardStatus)
	case KeyBookingSource:
		if row.BookingSource == nil {
			return sortValue{}
		}

		source := StripBookedSuffix(*row.BookingSource)

		return stringValue(&source)
	default:
		return sortValue{}
	}
}

// StripBookedSuffix drops a trailing " (booked M/D/YY)" annotation.
func StripBookedSuffix(source string) string {
	if idx := strings.LastIndex(source, bookedSuffix); idx >= 0 && strings.HasSuffix(source, ")") {
		return source[:idx]
	}

	return source
}

func stringValue(value *string) sortValue {
	if value == nil || *value == "" || *value == constant.StatusUnknown {
		return sortValue{}
	}

	return sortValue{kind: kindString, text: *value}
}

func numberValue(value *decimal.Decimal) sortValue {
	if value == nil {
		return sortValue{}
	}

	return sortValue{kind: kindNumber, num: *value, text: value.String()}
}

func dateValue(value *string) sortValue {
	if value == nil || *value == "" {
		return sortValue{}
	}

	if date, ok := ParseDate(value); ok {
		return sortValue{kind: kindDate, date: date, text: *value}
	}

	return stringValue(value)
}
