package dashboard

import (
	"context"
	"errors"
	"vcardops/internal/domains/reservation/model/dto"
	txDto "vcardops/internal/domains/transaction/model/dto"

	"github.com/rs/zerolog/log"
)

type ItemStatus string

const (
	ItemNotAttempted ItemStatus = "not_attempted"
	ItemSucceeded    ItemStatus = "succeeded"
	ItemFailed       ItemStatus = "failed"
)

type ItemResult struct {
	ReservationID int64
	Status        ItemStatus
	TransactionID int64
	Err           error
}

type massOptions struct {
	continueOnFailure bool
	notes             string
}

type MassOption func(*massOptions)

// ContinueOnFailure keeps going past a failed item instead of stopping.
func ContinueOnFailure() MassOption {
	return func(o *massOptions) {
		o.continueOnFailure = true
	}
}

func WithMassNotes(notes string) MassOption {
	return func(o *massOptions) {
		o.notes = notes
	}
}

// MassDoNotCharge marks rows one at a time, in order; each call finishes
// before the next starts. By default it stops at the first failure, so the
// succeeded items always form a prefix and the rest are NotAttempted.
func MassDoNotCharge(ctx context.Context, api API, rows []dto.Reservation, opts ...MassOption) []ItemResult {
	options := massOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	results := make([]ItemResult, len(rows))
	for i, row := range rows {
		results[i] = ItemResult{ReservationID: row.ID, Status: ItemNotAttempted}
	}

	for i, row := range rows {
		if ctx.Err() != nil {
			break
		}

		reply, err := submitDoNotCharge(ctx, api, row, options.notes)
		if err == nil {
			results[i].Status = ItemSucceeded
			results[i].TransactionID = reply.TransactionID

			continue
		}

		results[i].Status = ItemFailed
		results[i].Err = err

		log.Warn().Err(err).Int64("reservation_id", row.ID).Msg("mass do not charge item failed")

		if !options.continueOnFailure || errors.Is(err, context.Canceled) {
			break
		}
	}

	return results
}

// SucceededIDs lists the reservations a mass run actually changed.
func SucceededIDs(results []ItemResult) []int64 {
	ids := make([]int64, 0, len(results))

	for _, result := range results {
		if result.Status == ItemSucceeded {
			ids = append(ids, result.ReservationID)
		}
	}

	return ids
}

func submitDoNotCharge(ctx context.Context, api API, row dto.Reservation, notes string) (txDto.CreateTransactionResponse, error) {
	if err := validate(DoNotCharge, row, Form{}); err != nil {
		return txDto.CreateTransactionResponse{}, err
	}

	return api.DoNotCharge(ctx, doNotChargeRequest(row, notes))
}
