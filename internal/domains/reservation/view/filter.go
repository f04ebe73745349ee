package view

import (
	"strconv"
	"strings"
	"time"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/shared/constant"

	"github.com/shopspring/decimal"
)

var chargeableThreshold = decimal.RequireFromString(constant.ChargeableThreshold)

// Filter narrows the list. Zero values disable each criterion; Status ""
// behaves like "All Status".
type Filter struct {
	ChargeableOnly bool
	From           *time.Time
	To             *time.Time
	Search         string
	Status         string
}

// Filtered keeps rows matching every criterion, in input order.
func Filtered(rows []dto.Reservation, filter Filter) []dto.Reservation {
	search := strings.ToLower(filter.Search)

	var from, to time.Time
	if filter.From != nil {
		from = calendarDate(*filter.From)
	}

	if filter.To != nil {
		to = calendarDate(*filter.To)
	}

	res := make([]dto.Reservation, 0, len(rows))

	for _, row := range rows {
		checkIn, ok := ParseDate(row.CheckInDate)
		if !ok {
			continue
		}

		if filter.ChargeableOnly && !IsChargeable(row) {
			continue
		}

		if filter.From != nil && checkIn.Before(from) {
			continue
		}

		if filter.To != nil && checkIn.After(to) {
			continue
		}

		if search != "" && !matchesSearch(row, search) {
			continue
		}

		if !matchesStatus(row.Status, filter.Status) {
			continue
		}

		res = append(res, row)
	}

	return res
}

// IsChargeable reports whether the remaining balance is strictly above the
// threshold. 0.49 is not chargeable, 0.50 is.
func IsChargeable(row dto.Reservation) bool {
	return row.RemainingBalance != nil && row.RemainingBalance.GreaterThan(chargeableThreshold)
}

// IsUnknownStatus treats null, empty and the literal "Unknown" alike.
func IsUnknownStatus(status *string) bool {
	return status == nil || *status == "" || *status == constant.StatusUnknown
}

// ParseDate reads a YYYY-MM-DD (or RFC 3339) value as a calendar date.
func ParseDate(value *string) (time.Time, bool) {
	if value == nil || *value == "" {
		return time.Time{}, false
	}

	if date, err := time.Parse(constant.DateOnlyFormat, *value); err == nil {
		return date, true
	}

	if instant, err := time.Parse(time.RFC3339, *value); err == nil {
		return calendarDate(instant), true
	}

	return time.Time{}, false
}

func calendarDate(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func matchesSearch(row dto.Reservation, search string) bool {
	if row.GuestName != nil && strings.Contains(strings.ToLower(*row.GuestName), search) {
		return true
	}

	if row.Hotel != nil && strings.Contains(strings.ToLower(*row.Hotel), search) {
		return true
	}

	return strings.Contains(strconv.FormatInt(row.ID, 10), search)
}

func matchesStatus(status *string, want string) bool {
	switch want {
	case "", constant.StatusAll:
		return true
	case constant.StatusUnknown:
		return IsUnknownStatus(status)
	default:
		return status != nil && *status == want
	}
}
