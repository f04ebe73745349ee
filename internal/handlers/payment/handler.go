package payment

import (
	"net/http"
	"vcardops/infras/otel"
	"vcardops/internal/domains/payment/model/dto"
	"vcardops/internal/domains/payment/service"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	"vcardops/shared/validator"
	"vcardops/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// errorBody keeps the success flag so clients can treat every gateway reply
// the same way.
type errorBody struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/process-payment/{gateway}", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Charge)
		routerGroup.Post("/link", handler.PaymentLink)
	})
}

// Charge runs a card payment through the named gateway.
// @Summary Process card payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param gateway path string true "flutterwave or stripe"
// @Param request body dto.ChargeRequest true "Charge"
// @Success 200 {object} dto.ChargeResponse
// @Failure 400 {object} errorBody
// @Failure 404 {object} errorBody
// @Failure 502 {object} errorBody
// @Failure 503 {object} errorBody
// @Router /api/process-payment/{gateway} [post]
// @Security BearerAuth
func (handler *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Charge")
	defer scope.End()

	var req dto.ChargeRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		withError(w, err)

		return
	}

	gateway := chi.URLParam(r, constant.RequestParamGateway)

	res, err := handler.service.Charge(ctx, gateway, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("gateway", gateway).Msg("failed to process payment")

		withError(w, err)

		return
	}

	scope.AddEvent("payment processed")

	response.WithPayload(w, http.StatusOK, res)
}

// PaymentLink creates a hosted payment page for the guest.
// @Summary Create payment link
// @Tags Payment
// @Accept json
// @Produce json
// @Param gateway path string true "flutterwave or stripe"
// @Param request body dto.LinkRequest true "Link"
// @Success 200 {object} dto.LinkResponse
// @Failure 400 {object} errorBody
// @Failure 502 {object} errorBody
// @Router /api/process-payment/{gateway}/link [post]
// @Security BearerAuth
func (handler *Handler) PaymentLink(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PaymentLink")
	defer scope.End()

	var req dto.LinkRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		withError(w, err)

		return
	}

	gateway := chi.URLParam(r, constant.RequestParamGateway)

	res, err := handler.service.PaymentLink(ctx, gateway, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("gateway", gateway).Msg("failed to create payment link")

		withError(w, err)

		return
	}

	scope.AddEvent("payment link created")

	response.WithPayload(w, http.StatusOK, res)
}

func withError(w http.ResponseWriter, err error) {
	response.WithPayload(w, failure.GetCode(err), errorBody{
		Status:  constant.ResponseStatusError,
		Message: err.Error(),
	})
}
