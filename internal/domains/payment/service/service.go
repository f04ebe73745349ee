package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Payment=MockPaymentService

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vcardops/infras/gateway"
	"vcardops/infras/metrics"
	"vcardops/infras/otel"
	"vcardops/internal/domains/payment/model/dto"
	resModel "vcardops/internal/domains/reservation/model"
	resRepo "vcardops/internal/domains/reservation/repository"
	resService "vcardops/internal/domains/reservation/service"
	txModel "vcardops/internal/domains/transaction/model"
	txDto "vcardops/internal/domains/transaction/model/dto"
	txRepo "vcardops/internal/domains/transaction/repository"
	"vcardops/shared"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	gRepo "vcardops/shared/repository"
	"vcardops/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	MessageUnknownGateway = "Unknown payment gateway"
	MessageGatewayFailed  = "Payment gateway request failed"
)

type Payment interface {
	DoNotCharge(ctx context.Context, req txDto.DoNotChargeRequest) (txDto.CreateTransactionResponse, error)
	ManualPayment(ctx context.Context, req txDto.ManualPaymentRequest) (txDto.CreateTransactionResponse, error)
	Charge(ctx context.Context, gatewayName string, req dto.ChargeRequest) (dto.ChargeResponse, error)
	PaymentLink(ctx context.Context, gatewayName string, req dto.LinkRequest) (dto.LinkResponse, error)
}

type serviceImpl struct {
	reservationRepo resRepo.Reservation
	transactionRepo txRepo.Transaction
	transactor      gRepo.Transactor
	reservationSvc  resService.Reservation
	gateways        *gateway.Registry
	metrics         *metrics.Metrics
	otel            otel.Otel
}

func New(
	reservationRepo resRepo.Reservation,
	transactionRepo txRepo.Transaction,
	transactor gRepo.Transactor,
	reservationSvc resService.Reservation,
	gateways *gateway.Registry,
	metrics *metrics.Metrics,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		reservationRepo: reservationRepo,
		transactionRepo: transactionRepo,
		transactor:      transactor,
		reservationSvc:  reservationSvc,
		gateways:        gateways,
		metrics:         metrics,
		otel:            otel,
	}
}

// DoNotCharge looks up the reservation, appends the ledger row and flips the
// reservation status, all in one transaction. A missing reservation aborts
// before anything is written.
func (s *serviceImpl) DoNotCharge(ctx context.Context, req txDto.DoNotChargeRequest) (res txDto.CreateTransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DoNotCharge")
	defer scope.End()
	defer scope.TraceIfError(err)

	var transactionID int64

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		reservation, err := s.lookupReservation(ctx, sqltx, req.ReservationID)
		if err != nil {
			return err
		}

		transactionID, err = s.transactionRepo.InsertTxReturningID(ctx, sqltx, req.ToModel(reservation.HotelID))
		if err != nil {
			log.Error().Err(err).Int64("reservation_id", req.ReservationID).Msg("failed to insert do not charge transaction")

			return fmt.Errorf("failed to insert do not charge transaction: %w", err)
		}

		affected, err := s.reservationRepo.UpdateTx(ctx, sqltx,
			map[string]any{resModel.FieldStatus: constant.StatusDoNotCharge},
			shared.FilterByID(req.ReservationID, resModel.FieldID, resModel.TableName),
		)
		if err != nil {
			log.Error().Err(err).Int64("reservation_id", req.ReservationID).Msg("failed to update reservation status")

			return fmt.Errorf("failed to update reservation status: %w", err)
		}

		if affected == 0 {
			return failure.NotFound(resService.MessageReservationMissing) // nolint:wrapcheck
		}

		return nil
	})
	if err != nil {
		s.metrics.PaymentAction(metrics.ActionDoNotCharge, "", metrics.OutcomeError)

		return res, err //nolint:wrapcheck
	}

	s.metrics.PaymentAction(metrics.ActionDoNotCharge, "", metrics.OutcomeSuccess)

	s.reservationSvc.InvalidateCaches(context.WithoutCancel(ctx))

	return txDto.CreateTransactionResponse{
		Status:        constant.ResponseStatusSuccess,
		Message:       txDto.MessageDoNotChargeProcessed,
		TransactionID: transactionID,
	}, nil
}

// ManualPayment records a payment taken outside the gateways. The
// reservation status is left as is.
func (s *serviceImpl) ManualPayment(ctx context.Context, req txDto.ManualPaymentRequest) (res txDto.CreateTransactionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ManualPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	var transactionID int64

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		reservation, err := s.lookupReservation(ctx, sqltx, req.ReservationID)
		if err != nil {
			return err
		}

		transactionID, err = s.transactionRepo.InsertTxReturningID(ctx, sqltx, req.ToModel(reservation.HotelID, reservation.ExpediaReservationID))
		if err != nil {
			log.Error().Err(err).Int64("reservation_id", req.ReservationID).Msg("failed to insert manual payment")

			return fmt.Errorf("failed to insert manual payment: %w", err)
		}

		return nil
	})
	if err != nil {
		s.metrics.PaymentAction(metrics.ActionManual, "", metrics.OutcomeError)

		return res, err //nolint:wrapcheck
	}

	s.metrics.PaymentAction(metrics.ActionManual, "", metrics.OutcomeSuccess)

	s.reservationSvc.InvalidateCaches(context.WithoutCancel(ctx))

	return txDto.CreateTransactionResponse{
		Status:        constant.ResponseStatusSuccess,
		Message:       txDto.MessageManualPaymentRecorded,
		TransactionID: transactionID,
	}, nil
}

// Charge sends the card to the named gateway. Completed charges against a
// reservation are appended to its ledger; a ledger failure is logged but does
// not undo the charge.
func (s *serviceImpl) Charge(ctx context.Context, gatewayName string, req dto.ChargeRequest) (res dto.ChargeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	gw, ok := s.gateways.Get(gatewayName)
	if !ok {
		return res, failure.NotFound(MessageUnknownGateway + ": " + gatewayName) // nolint:wrapcheck
	}

	result, err := gw.Charge(ctx, req.ToGateway())
	if err != nil {
		s.metrics.PaymentAction(metrics.ActionCharge, gatewayName, outcomeOf(err))

		return res, gatewayFailure(gatewayName, err)
	}

	res.FromResult(result)

	if result.RequiresVerification {
		s.metrics.PaymentAction(metrics.ActionCharge, gatewayName, metrics.OutcomeVerification)

		return res, nil
	}

	s.metrics.PaymentAction(metrics.ActionCharge, gatewayName, metrics.OutcomeSuccess)

	if req.ReservationID != nil {
		s.recordCharge(ctx, gatewayName, *req.ReservationID, req, result)
	}

	return res, nil
}

func (s *serviceImpl) PaymentLink(ctx context.Context, gatewayName string, req dto.LinkRequest) (res dto.LinkResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PaymentLink")
	defer scope.End()
	defer scope.TraceIfError(err)

	gw, ok := s.gateways.Get(gatewayName)
	if !ok {
		return res, failure.NotFound(MessageUnknownGateway + ": " + gatewayName) // nolint:wrapcheck
	}

	link, err := gw.PaymentLink(ctx, req.ToGateway())
	if err != nil {
		s.metrics.PaymentAction(metrics.ActionLink, gatewayName, outcomeOf(err))

		return res, gatewayFailure(gatewayName, err)
	}

	s.metrics.PaymentAction(metrics.ActionLink, gatewayName, metrics.OutcomeSuccess)

	return dto.LinkResponse{
		Success: true,
		Status:  constant.ResponseStatusSuccess,
		Message: dto.MessageLinkCreated,
		Data: dto.LinkData{
			URL:       link.URL,
			Reference: link.Reference,
		},
	}, nil
}

func (s *serviceImpl) lookupReservation(ctx context.Context, sqltx *sqlx.Tx, id int64) (resModel.Reservation, error) {
	reservation, err := s.reservationRepo.GetTx(ctx, sqltx,
		shared.FilterByID(id, resModel.FieldID, resModel.TableName),
		resModel.FieldID, resModel.FieldHotelID, resModel.FieldExpediaReservationID,
	)
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", id).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == 0 {
		return reservation, failure.NotFound(resService.MessageReservationMissing) // nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) recordCharge(ctx context.Context, gatewayName string, reservationID int64, req dto.ChargeRequest, result gateway.ChargeResult) {
	err := s.transactor.WithinTx(ctx, func(ctx context.Context, sqltx *sqlx.Tx) error {
		reservation, err := s.lookupReservation(ctx, sqltx, reservationID)
		if err != nil {
			return err
		}

		_, err = s.transactionRepo.InsertTxReturningID(ctx, sqltx, txModel.Transaction{
			ReservationID:        reservationID,
			HotelID:              reservation.HotelID,
			ExpediaReservationID: reservation.ExpediaReservationID,
			AmountUSD:            *req.Amount,
			Currency:             req.Currency,
			PaymentChannel:       gatewayName,
			PaymentMethod:        sql.NullString{String: "card", Valid: true},
			ReferenceNumber:      sql.NullString{String: result.TransactionID, Valid: result.TransactionID != ""},
			TypeOfTransaction:    constant.TransactionTypeCharge,
			CreatedAt:            timezone.Now(),
		})

		return err //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).
			Int64("reservation_id", reservationID).
			Str("gateway", gatewayName).
			Str("transaction_id", result.TransactionID).
			Msg("failed to record gateway charge")
	}
}

func outcomeOf(err error) string {
	var rejected *gateway.RejectedError
	if errors.As(err, &rejected) {
		return metrics.OutcomeRejected
	}

	return metrics.OutcomeError
}

// gatewayFailure relays gateway refusals verbatim as 502 and reports an open
// circuit as 503.
func gatewayFailure(gatewayName string, err error) error {
	var rejected *gateway.RejectedError

	switch {
	case errors.As(err, &rejected):
		log.Warn().Str("gateway", gatewayName).Str("code", rejected.Code).Msg(rejected.Message)

		return failure.BadGateway(rejected.Message) // nolint:wrapcheck
	case errors.Is(err, gateway.ErrUnavailable):
		return failure.ServiceUnavailable(gateway.ErrUnavailable.Error()) // nolint:wrapcheck
	default:
		log.Error().Err(err).Str("gateway", gatewayName).Msg("failed to call payment gateway")

		return failure.BadGateway(MessageGatewayFailed) // nolint:wrapcheck
	}
}
