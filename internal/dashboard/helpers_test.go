package dashboard_test

import (
	"time"
	"vcardops/internal/domains/reservation/model/dto"

	"github.com/shopspring/decimal"
)

func ptr[T any](value T) *T {
	return &value
}

func reservation(id int64, balance string) dto.Reservation {
	amount := decimal.RequireFromString(balance)

	return dto.Reservation{
		ID:                   id,
		GuestName:            ptr("Ada Lovelace"),
		Hotel:                ptr("Harbor Inn"),
		CheckInDate:          ptr("2025-03-04"),
		RemainingBalance:     &amount,
		Currency:             "USD",
		Status:               ptr("Active"),
		CardNumber:           ptr("4111111111111111"),
		ExpirationDate:       ptr("08/27"),
		CVV:                  ptr("123"),
		Notes:                ptr("call guest"),
		ExpediaReservationID: ptr(id + 9000),
	}
}

// manualTimer collects scheduled callbacks so tests decide when they fire.
type manualTimer struct {
	durations []time.Duration
	callbacks []func()
	stopped   []bool
}

func (m *manualTimer) AfterFunc(d time.Duration, f func()) func() bool {
	index := len(m.callbacks)

	m.durations = append(m.durations, d)
	m.callbacks = append(m.callbacks, f)
	m.stopped = append(m.stopped, false)

	return func() bool {
		m.stopped[index] = true

		return true
	}
}

func (m *manualTimer) fire(index int) {
	if !m.stopped[index] {
		m.callbacks[index]()
	}
}
