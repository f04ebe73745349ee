package hotel

import (
	"net/http"
	"vcardops/infras/otel"
	"vcardops/internal/domains/hotel/service"
	"vcardops/shared/constant"
	"vcardops/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Hotel
	otel    otel.Otel
}

func New(service service.Hotel, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/hotels", handler.GetHotels)
}

// GetHotels lists hotels for the dashboard dropdown.
// @Summary List hotels
// @Tags Hotel
// @Produce json
// @Success 200 {array} dto.Hotel
// @Router /api/hotels [get]
// @Security BearerAuth
func (handler *Handler) GetHotels(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHotels")
	defer scope.End()

	hotels, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get hotels")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, hotels)
}
