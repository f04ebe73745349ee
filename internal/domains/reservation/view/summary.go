package view

import (
	"strings"
	"time"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/shared/constant"

	"github.com/shopspring/decimal"
)

// Summarize computes the dashboard tiles. A card is to be charged when it is
// chargeable and Active; a card is expired when check-in is more than
// expiredAfterDays before now.
func Summarize(rows []dto.Reservation, now time.Time, expiredAfterDays int) dto.Summary {
	res := dto.Summary{
		TotalAmountToCharge: decimal.Zero,
		TotalReservations:   len(rows),
	}

	expiredBefore := calendarDate(now).AddDate(0, 0, -expiredAfterDays)

	for _, row := range rows {
		if IsChargeable(row) && row.Status != nil && strings.EqualFold(*row.Status, constant.StatusActive) {
			res.CardsToCharge++
			res.TotalAmountToCharge = res.TotalAmountToCharge.Add(*row.RemainingBalance)
		}

		if checkIn, ok := ParseDate(row.CheckInDate); ok && checkIn.Before(expiredBefore) {
			res.ExpiredCards++
		}
	}

	res.TotalAmountToCharge = res.TotalAmountToCharge.Round(2)

	return res
}
