// Package dashboard is the client half of the finance-operations dashboard:
// it loads reservations over the REST API, derives the visible table through
// the view engine, and walks staff through payment actions with Session.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"
	hotelDto "vcardops/internal/domains/hotel/model/dto"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/view"
	"vcardops/shared/constant"
	"vcardops/shared/timezone"

	"github.com/rs/zerolog/log"
)

const defaultExpiredAfterDays = 182

type Dashboard struct {
	api              API
	session          *Session
	now              func() time.Time
	expiredAfterDays int

	mu            sync.Mutex
	table         *Table
	authenticated bool
	loadGen       int
}

type Option func(*Dashboard)

func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		d.now = now
	}
}

func WithExpiredAfterDays(days int) Option {
	return func(d *Dashboard) {
		d.expiredAfterDays = days
	}
}

// WithSession replaces the action session, e.g. to inject its timer.
func WithSession(session *Session) Option {
	return func(d *Dashboard) {
		d.session = session
	}
}

// Authenticated skips the login gate for clients that already carry a
// token or an API key.
func Authenticated() Option {
	return func(d *Dashboard) {
		d.authenticated = true
	}
}

func New(api API, opts ...Option) *Dashboard {
	dashboard := &Dashboard{
		api:              api,
		now:              timezone.Now,
		expiredAfterDays: defaultExpiredAfterDays,
		table:            NewTable(),
	}

	for _, opt := range opts {
		opt(dashboard)
	}

	if dashboard.session == nil {
		dashboard.session = NewSession(api)
	}

	return dashboard
}

func (d *Dashboard) Login(ctx context.Context, email, password string) error {
	if err := d.api.Login(ctx, email, password); err != nil {
		return err
	}

	d.mu.Lock()
	d.authenticated = true
	d.mu.Unlock()

	return nil
}

// Load fetches the full list. A cancelled load, or one overtaken by a newer
// load, leaves the table untouched and returns context.Canceled.
func (d *Dashboard) Load(ctx context.Context) error {
	d.mu.Lock()
	if !d.authenticated {
		d.mu.Unlock()

		return ErrNotAuthenticated
	}

	d.loadGen++
	gen := d.loadGen
	d.mu.Unlock()

	rows, err := d.api.Reservations(ctx, false)
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return context.Canceled
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.loadGen {
		return context.Canceled
	}

	d.table.SetRows(rows)

	return nil
}

func (d *Dashboard) Hotels(ctx context.Context) ([]hotelDto.Hotel, error) {
	return d.api.Hotels(ctx)
}

func (d *Dashboard) View() view.Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.table.View()
}

// Summary computes the tiles over the whole loaded list, ignoring filters.
func (d *Dashboard) Summary() dto.Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	return view.Summarize(d.table.Rows(), d.now(), d.expiredAfterDays)
}

func (d *Dashboard) SetFilter(filter view.Filter) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.table.SetFilter(filter)
}

func (d *Dashboard) SetPageSize(size int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.table.SetPageSize(size)
}

func (d *Dashboard) SetPage(page int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.table.SetPage(page)
}

func (d *Dashboard) ToggleSort(key view.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.table.ToggleSort(key)
}

func (d *Dashboard) Select(id int64, on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.table.Select(id, on)
}

func (d *Dashboard) Session() *Session {
	return d.session
}

// Open starts the action modal on a loaded reservation.
func (d *Dashboard) Open(id int64) error {
	d.mu.Lock()
	res, ok := d.table.Find(id)
	d.mu.Unlock()

	if !ok {
		return ErrUnknownReservation
	}

	return d.session.Open(res)
}

// Submit runs the session action and folds its result into the table:
// patched locally, or refetched after a gateway charge.
func (d *Dashboard) Submit(ctx context.Context) (Outcome, error) {
	outcome, err := d.session.Submit(ctx)
	if err != nil {
		return outcome, err
	}

	if outcome.Reload {
		if loadErr := d.Load(ctx); loadErr != nil && !errors.Is(loadErr, context.Canceled) {
			log.Error().Err(loadErr).Msg("failed to reload reservations after charge")
		}

		return outcome, nil
	}

	d.mu.Lock()
	d.table.Patch(outcome.Reservation)
	d.mu.Unlock()

	return outcome, nil
}

func (d *Dashboard) SaveNotes(ctx context.Context) error {
	if err := d.session.SaveNotes(ctx); err != nil {
		return err
	}

	res := d.session.Snapshot().Reservation

	d.mu.Lock()
	d.table.Patch(res)
	d.mu.Unlock()

	return nil
}

// MassDoNotCharge runs over the selected rows in display order. Rows that
// succeeded get the sentinel status locally and leave the selection.
func (d *Dashboard) MassDoNotCharge(ctx context.Context, opts ...MassOption) []ItemResult {
	d.mu.Lock()
	rows := d.table.Selected()
	d.mu.Unlock()

	results := MassDoNotCharge(ctx, d.api, rows, opts...)

	d.mu.Lock()
	defer d.mu.Unlock()

	status := constant.StatusDoNotCharge

	for _, id := range SucceededIDs(results) {
		if row, ok := d.table.Find(id); ok {
			row.Status = &status
			d.table.Patch(row)
		}

		d.table.Select(id, false)
	}

	return results
}
