package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vcardops/config"
	"vcardops/infras/gateway"
	gatewayMocks "vcardops/infras/gateway/mocks"
	"vcardops/infras/metrics"
	"vcardops/infras/otel/mocks"
	"vcardops/internal/domains/payment/model/dto"
	"vcardops/internal/domains/payment/service"
	reservationMocks "vcardops/internal/domains/reservation/mocks"
	resModel "vcardops/internal/domains/reservation/model"
	transactionMocks "vcardops/internal/domains/transaction/mocks"
	txModel "vcardops/internal/domains/transaction/model"
	txDto "vcardops/internal/domains/transaction/model/dto"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	gRepo "vcardops/shared/repository"
	repoMocks "vcardops/shared/repository/mocks"
)

type fixture struct {
	reservationRepo *reservationMocks.MockReservation
	reservationSvc  *reservationMocks.MockReservationService
	transactionRepo *transactionMocks.MockTransaction
	transactor      *repoMocks.MockTransactor
	stripe          *gatewayMocks.MockGateway
	metrics         *metrics.Metrics
	svc             service.Payment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		reservationRepo: reservationMocks.NewMockReservation(ctrl),
		reservationSvc:  reservationMocks.NewMockReservationService(ctrl),
		transactionRepo: transactionMocks.NewMockTransaction(ctrl),
		transactor:      repoMocks.NewMockTransactor(ctrl),
		stripe:          gatewayMocks.NewMockGateway(ctrl),
		metrics:         metrics.New(&config.Config{}),
	}

	f.stripe.EXPECT().Name().Return(gateway.NameStripe).AnyTimes()
	f.transactor.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn gRepo.TxFunc) error {
			return fn(ctx, nil)
		}).AnyTimes()

	f.svc = service.New(
		f.reservationRepo,
		f.transactionRepo,
		f.transactor,
		f.reservationSvc,
		gateway.NewRegistry(f.stripe),
		f.metrics,
		mocks.NewOtel(),
	)

	return f
}

func storedReservation(id int64) resModel.Reservation {
	return resModel.Reservation{
		ID:                   id,
		HotelID:              sql.NullInt64{Int64: 9, Valid: true},
		ExpediaReservationID: sql.NullInt64{Int64: 4401, Valid: true},
	}
}

func doNotChargeRequest() txDto.DoNotChargeRequest {
	amount := decimal.RequireFromString("212.40")
	expediaID := int64(4401)

	return txDto.DoNotChargeRequest{
		ReservationID:        5,
		AmountUSD:            &amount,
		ExpediaReservationID: &expediaID,
		CreatedAt:            "2024-05-01T10:00:00Z",
	}
}

func assertFailure(t *testing.T, err error, code int, message string) {
	t.Helper()

	var fail *failure.Failure
	require.ErrorAs(t, err, &fail)
	assert.Equal(t, code, fail.Code)

	if message != "" {
		assert.Equal(t, message, fail.Message)
	}
}

func TestPaymentService_DoNotCharge(t *testing.T) {
	t.Run("looks up, inserts then flips the status", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
				Return(storedReservation(5), nil),
			f.transactionRepo.EXPECT().InsertTxReturningID(gomock.Any(), gomock.Nil(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, tx txModel.Transaction) (int64, error) {
					assert.Equal(t, int64(5), tx.ReservationID)
					assert.Equal(t, int64(9), tx.HotelID.Int64)
					assert.Equal(t, int64(4401), tx.ExpediaReservationID.Int64)
					assert.Equal(t, constant.PaymentChannelDoNotCharge, tx.PaymentChannel)
					assert.Equal(t, constant.TransactionTypeDoNotCharge, tx.TypeOfTransaction)
					assert.True(t, tx.AmountUSD.Equal(decimal.RequireFromString("212.4")))

					return 77, nil
				}),
			f.reservationRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Nil(),
				map[string]any{resModel.FieldStatus: constant.StatusDoNotCharge}, gomock.Any()).
				Return(int64(1), nil),
			f.reservationSvc.EXPECT().InvalidateCaches(gomock.Any()),
		)

		res, err := f.svc.DoNotCharge(context.Background(), doNotChargeRequest())
		require.NoError(t, err)
		assert.Equal(t, txDto.CreateTransactionResponse{
			Status:        constant.ResponseStatusSuccess,
			Message:       txDto.MessageDoNotChargeProcessed,
			TransactionID: 77,
		}, res)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PaymentActionCount(metrics.ActionDoNotCharge, "", metrics.OutcomeSuccess)), 0)
	})

	t.Run("missing reservation writes nothing", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(resModel.Reservation{}, nil)

		_, err := f.svc.DoNotCharge(context.Background(), doNotChargeRequest())
		assertFailure(t, err, http.StatusNotFound, "Reservation not found")
	})

	t.Run("status update touching no row is not found", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(storedReservation(5), nil)
		f.transactionRepo.EXPECT().InsertTxReturningID(gomock.Any(), gomock.Nil(), gomock.Any()).Return(int64(78), nil)
		f.reservationRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		_, err := f.svc.DoNotCharge(context.Background(), doNotChargeRequest())
		assertFailure(t, err, http.StatusNotFound, "Reservation not found")
	})

	t.Run("insert failure is an internal error", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(storedReservation(5), nil)
		f.transactionRepo.EXPECT().InsertTxReturningID(gomock.Any(), gomock.Nil(), gomock.Any()).
			Return(int64(0), errors.New("deadlock detected"))

		_, err := f.svc.DoNotCharge(context.Background(), doNotChargeRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PaymentActionCount(metrics.ActionDoNotCharge, "", metrics.OutcomeError)), 0)
	})
}

func TestPaymentService_ManualPayment(t *testing.T) {
	amount := decimal.RequireFromString("50")
	req := txDto.ManualPaymentRequest{
		ReservationID:   5,
		AmountUSD:       &amount,
		ReferenceNumber: " WIRE-0091 ",
		PaymentMethod:   "bank_transfer",
	}

	t.Run("records the ledger row", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(storedReservation(5), nil)
		f.transactionRepo.EXPECT().InsertTxReturningID(gomock.Any(), gomock.Nil(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, tx txModel.Transaction) (int64, error) {
				assert.Equal(t, "WIRE-0091", tx.ReferenceNumber.String)
				assert.Equal(t, constant.TransactionTypeManual, tx.TypeOfTransaction)
				assert.Equal(t, constant.DefaultCurrency, tx.Currency)
				assert.Equal(t, int64(4401), tx.ExpediaReservationID.Int64)

				return 12, nil
			})
		f.reservationSvc.EXPECT().InvalidateCaches(gomock.Any())

		res, err := f.svc.ManualPayment(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(12), res.TransactionID)
		assert.Equal(t, txDto.MessageManualPaymentRecorded, res.Message)
	})

	t.Run("missing reservation", func(t *testing.T) {
		f := newFixture(t)

		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(resModel.Reservation{}, nil)

		_, err := f.svc.ManualPayment(context.Background(), req)
		assertFailure(t, err, http.StatusNotFound, "Reservation not found")
	})
}

func chargeRequest(reservationID *int64) dto.ChargeRequest {
	amount := decimal.RequireFromString("99.99")

	return dto.ChargeRequest{
		Amount:   &amount,
		Currency: "USD",
		Email:    "guest@example.com",
		Card: dto.Card{
			CardNumber:  "4242424242424242",
			CVV:         "123",
			ExpiryMonth: "09",
			ExpiryYear:  "2032",
		},
		ReservationID: reservationID,
	}
}

func TestPaymentService_Charge(t *testing.T) {
	reservationID := int64(5)

	t.Run("unknown gateway", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Charge(context.Background(), "paypal", chargeRequest(nil))
		assertFailure(t, err, http.StatusNotFound, "Unknown payment gateway: paypal")
	})

	t.Run("rejection is relayed verbatim", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			Return(gateway.ChargeResult{}, &gateway.RejectedError{Gateway: gateway.NameStripe, Code: "card_declined", Message: "Your card was declined."})

		_, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(&reservationID))
		assertFailure(t, err, http.StatusBadGateway, "Your card was declined.")
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.PaymentActionCount(metrics.ActionCharge, gateway.NameStripe, metrics.OutcomeRejected)), 0)
	})

	t.Run("open circuit is unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			Return(gateway.ChargeResult{}, gateway.ErrUnavailable)

		_, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(nil))
		assertFailure(t, err, http.StatusServiceUnavailable, "")
	})

	t.Run("transport failure is a bad gateway", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			Return(gateway.ChargeResult{}, errors.New("i/o timeout"))

		_, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(nil))
		assertFailure(t, err, http.StatusBadGateway, service.MessageGatewayFailed)
	})

	t.Run("verification is pending and not recorded", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			Return(gateway.ChargeResult{TransactionID: "pi_3", Status: "requires_action", RequiresVerification: true, RedirectURL: "https://hooks.example/3ds"}, nil)

		res, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(&reservationID))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, gateway.CodeRequiresVerification, res.Code)
		assert.Equal(t, "https://hooks.example/3ds", res.Data.RedirectURL)
	})

	t.Run("success against a reservation is recorded", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req gateway.ChargeRequest) (gateway.ChargeResult, error) {
				assert.Equal(t, "4242424242424242", req.Card.Number)
				assert.Equal(t, "2032", req.Card.ExpiryYear)

				return gateway.ChargeResult{TransactionID: "pi_4", Reference: "pi_4", Status: "succeeded"}, nil
			})
		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(storedReservation(5), nil)
		f.transactionRepo.EXPECT().InsertTxReturningID(gomock.Any(), gomock.Nil(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, tx txModel.Transaction) (int64, error) {
				assert.Equal(t, constant.TransactionTypeCharge, tx.TypeOfTransaction)
				assert.Equal(t, gateway.NameStripe, tx.PaymentChannel)
				assert.Equal(t, "pi_4", tx.ReferenceNumber.String)

				return 31, nil
			})

		res, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(&reservationID))
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "pi_4", res.Data.TransactionID)
	})

	t.Run("ledger failure does not fail the charge", func(t *testing.T) {
		f := newFixture(t)

		f.stripe.EXPECT().Charge(gomock.Any(), gomock.Any()).
			Return(gateway.ChargeResult{TransactionID: "pi_5", Status: "succeeded"}, nil)
		f.reservationRepo.EXPECT().GetTx(gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			Return(resModel.Reservation{}, errors.New("connection refused"))

		res, err := f.svc.Charge(context.Background(), gateway.NameStripe, chargeRequest(&reservationID))
		require.NoError(t, err)
		assert.True(t, res.Success)
	})
}

func TestPaymentService_PaymentLink(t *testing.T) {
	f := newFixture(t)
	amount := decimal.NewFromInt(120)

	f.stripe.EXPECT().PaymentLink(gomock.Any(), gateway.LinkRequest{Amount: amount, Currency: "EUR", Email: "guest@example.com"}).
		Return(gateway.LinkResult{URL: "https://checkout.stripe.test/c/pay/cs_1", Reference: "cs_1"}, nil)

	res, err := f.svc.PaymentLink(context.Background(), gateway.NameStripe, dto.LinkRequest{
		Amount:   &amount,
		Currency: "EUR",
		Email:    "guest@example.com",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "https://checkout.stripe.test/c/pay/cs_1", res.Data.URL)

	_, err = f.svc.PaymentLink(context.Background(), gateway.NameFlutterwave, dto.LinkRequest{Amount: &amount, Currency: "EUR"})
	assertFailure(t, err, http.StatusNotFound, "")
}
