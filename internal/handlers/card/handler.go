package card

import (
	"net/http"
	"vcardops/infras/otel"
	paymentService "vcardops/internal/domains/payment/service"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/service"
	txDto "vcardops/internal/domains/transaction/model/dto"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	"vcardops/shared/validator"
	"vcardops/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	reservationSvc service.Reservation
	paymentSvc     paymentService.Payment
	otel           otel.Otel
}

func New(reservationSvc service.Reservation, paymentSvc paymentService.Payment, otel otel.Otel) Handler {
	return Handler{
		reservationSvc: reservationSvc,
		paymentSvc:     paymentSvc,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/cards", func(routerGroup chi.Router) {
		routerGroup.Post("/update-notes", handler.UpdateNotes)
		routerGroup.Post("/do-not-charge", handler.DoNotCharge)
		routerGroup.Post("/manual-payment", handler.ManualPayment)
	})
}

// UpdateNotes overwrites the notes of a card.
// @Summary Update card notes
// @Tags Card
// @Accept json
// @Produce json
// @Param request body dto.UpdateNotesRequest true "Notes"
// @Success 200 {object} dto.UpdateNotesResponse
// @Failure 400 {object} response.Status
// @Failure 404 {object} response.Status
// @Router /api/cards/update-notes [post]
// @Security BearerAuth
func (handler *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateNotes")
	defer scope.End()

	var req dto.UpdateNotesRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.reservationSvc.UpdateNotes(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("card_id", req.CardID).Msg("failed to update notes")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("notes updated")

	response.WithPayload(w, http.StatusOK, res)
}

// DoNotCharge flags a reservation and records the ledger entry atomically.
// @Summary Mark reservation as do not charge
// @Tags Card
// @Accept json
// @Produce json
// @Param request body txDto.DoNotChargeRequest true "Do not charge"
// @Success 200 {object} txDto.CreateTransactionResponse
// @Failure 400 {object} response.Status
// @Failure 404 {object} response.Status
// @Router /api/cards/do-not-charge [post]
// @Security BearerAuth
func (handler *Handler) DoNotCharge(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DoNotCharge")
	defer scope.End()

	var req txDto.DoNotChargeRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		log.Warn().Err(err).Msg("invalid do not charge request")

		response.WithError(w, failure.BadRequestFromString(txDto.MessageMissingRequiredFields))

		return
	}

	res, err := handler.paymentSvc.DoNotCharge(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("reservation_id", req.ReservationID).Msg("failed to process do not charge")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("do not charge processed")

	response.WithPayload(w, http.StatusOK, res)
}

// ManualPayment records a payment taken outside the gateways.
// @Summary Record manual payment
// @Tags Card
// @Accept json
// @Produce json
// @Param request body txDto.ManualPaymentRequest true "Manual payment"
// @Success 200 {object} txDto.CreateTransactionResponse
// @Failure 400 {object} response.Status
// @Failure 404 {object} response.Status
// @Router /api/cards/manual-payment [post]
// @Security BearerAuth
func (handler *Handler) ManualPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ManualPayment")
	defer scope.End()

	var req txDto.ManualPaymentRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.paymentSvc.ManualPayment(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("reservation_id", req.ReservationID).Msg("failed to record manual payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("manual payment recorded")

	response.WithPayload(w, http.StatusOK, res)
}
