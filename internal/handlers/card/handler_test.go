package card_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"vcardops/infras/otel/mocks"
	paymentMocks "vcardops/internal/domains/payment/mocks"
	reservationMocks "vcardops/internal/domains/reservation/mocks"
	"vcardops/internal/domains/reservation/model/dto"
	txDto "vcardops/internal/domains/transaction/model/dto"
	"vcardops/internal/handlers/card"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
)

type fixture struct {
	router       chi.Router
	reservations *reservationMocks.MockReservationService
	payments     *paymentMocks.MockPaymentService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		router:       chi.NewRouter(),
		reservations: reservationMocks.NewMockReservationService(ctrl),
		payments:     paymentMocks.NewMockPaymentService(ctrl),
	}

	handler := card.New(f.reservations, f.payments, mocks.NewOtel())
	handler.Router(f.router)

	return f
}

func (f fixture) post(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_UpdateNotes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(f fixture)
		wantCode int
		wantBody string
	}{
		{
			name: "notes round-trip",
			body: `{"cardId":12,"notes":"call guest"}`,
			setup: func(f fixture) {
				f.reservations.EXPECT().UpdateNotes(gomock.Any(), dto.UpdateNotesRequest{CardID: 12, Notes: "call guest"}).
					Return(dto.UpdateNotesResponse{Status: "success", Message: "Notes updated successfully", Notes: "call guest"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"status":"success","message":"Notes updated successfully","notes":"call guest"}`,
		},
		{
			name: "missing card",
			body: `{"cardId":99,"notes":""}`,
			setup: func(f fixture) {
				f.reservations.EXPECT().UpdateNotes(gomock.Any(), gomock.Any()).
					Return(dto.UpdateNotesResponse{}, failure.NotFound("Card not found or no changes made"))
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"status":"error","message":"Card not found or no changes made"}`,
		},
		{
			name:     "malformed body",
			body:     `{"cardId":`,
			setup:    func(fixture) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			rec := f.post("/cards/update-notes", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_DoNotCharge(t *testing.T) {
	const valid = `{"reservation_id":5,"amount_usd":120.5,"expedia_reservation_id":777,"payment_channel":"Do Not Charge"}`

	t.Run("processed", func(t *testing.T) {
		f := newFixture(t)
		f.payments.EXPECT().DoNotCharge(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req txDto.DoNotChargeRequest) (txDto.CreateTransactionResponse, error) {
				assert.Equal(t, int64(5), req.ReservationID)
				assert.Equal(t, "120.5", req.AmountUSD.String())

				return txDto.CreateTransactionResponse{Status: "success", Message: txDto.MessageDoNotChargeProcessed, TransactionID: 31}, nil
			})

		rec := f.post("/cards/do-not-charge", valid)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"success","message":"Do Not Charge processed successfully","transaction_id":31}`, rec.Body.String())
	})

	for name, body := range map[string]string{
		"missing reservation id": `{"amount_usd":120.5,"expedia_reservation_id":777}`,
		"missing amount":         `{"reservation_id":5,"expedia_reservation_id":777}`,
		"missing expedia id":     `{"reservation_id":5,"amount_usd":120.5}`,
		"malformed":              `not json`,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.post("/cards/do-not-charge", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"status":"error","message":"Missing required fields"}`, rec.Body.String())
		})
	}

	t.Run("reservation not found", func(t *testing.T) {
		f := newFixture(t)
		f.payments.EXPECT().DoNotCharge(gomock.Any(), gomock.Any()).
			Return(txDto.CreateTransactionResponse{}, failure.NotFound("Reservation not found"))

		rec := f.post("/cards/do-not-charge", valid)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"status":"error","message":"Reservation not found"}`, rec.Body.String())
	})
}

func TestHandler_ManualPayment(t *testing.T) {
	t.Run("recorded", func(t *testing.T) {
		f := newFixture(t)
		f.payments.EXPECT().ManualPayment(gomock.Any(), gomock.Any()).
			Return(txDto.CreateTransactionResponse{Status: "success", Message: txDto.MessageManualPaymentRecorded, TransactionID: 8}, nil)

		rec := f.post("/cards/manual-payment", `{"reservation_id":5,"amount_usd":40,"reference_number":"BANK-9"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"transaction_id":8`)
	})

	t.Run("reference is required", func(t *testing.T) {
		f := newFixture(t)

		rec := f.post("/cards/manual-payment", `{"reservation_id":5,"amount_usd":40}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"error"`)
	})
}
