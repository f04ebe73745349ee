package reservation

import (
	"net/http"
	"strconv"
	"vcardops/infras/otel"
	exportService "vcardops/internal/domains/export/service"
	"vcardops/internal/domains/reservation/service"
	"vcardops/internal/domains/reservation/view"
	txService "vcardops/internal/domains/transaction/service"
	"vcardops/shared"
	"vcardops/shared/constant"
	"vcardops/shared/failure"
	"vcardops/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const messageInvalidID = "invalid reservation id"

type Handler struct {
	service        service.Reservation
	transactionSvc txService.Transaction
	exportSvc      exportService.Export
	otel           otel.Otel
}

func New(service service.Reservation, transactionSvc txService.Transaction, exportSvc exportService.Export, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		transactionSvc: transactionSvc,
		exportSvc:      exportSvc,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/view", handler.GetView)
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Get("/export", handler.DownloadExport)
		routerGroup.Post("/export", handler.UploadExport)
		routerGroup.Get("/{id}", handler.GetReservation)
		routerGroup.Get("/{id}/transactions", handler.GetTransactions)
	})
}

// GetReservations lists every reservation with its hotel.
// @Summary List reservations
// @Tags Reservation
// @Produce json
// @Param chargeable query boolean false "Only chargeable reservations from the recent window"
// @Success 200 {array} dto.Reservation
// @Failure 500 {object} response.Status
// @Router /api/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	chargeable := shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamChargeable))

	reservations, err := handler.service.GetAll(ctx, chargeable != nil && *chargeable)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, reservations)
}

// GetView returns one page of the filtered and sorted table.
// @Summary Reservation table view
// @Tags Reservation
// @Produce json
// @Param search query string false "Guest, hotel or id"
// @Param status query string false "Status or All Status"
// @Param from query string false "Check-in from (YYYY-MM-DD)"
// @Param to query string false "Check-in to (YYYY-MM-DD)"
// @Param sort_by query string false "Sort key"
// @Param sort_dir query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "10, 25, 50 or 100"
// @Success 200 {object} view.Result
// @Failure 400 {object} response.Status
// @Router /api/reservations/view [get]
// @Security BearerAuth
func (handler *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetView")
	defer scope.End()

	query, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	result, err := handler.service.View(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute reservation view")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, result)
}

// GetSummary returns the dashboard tiles.
// @Summary Reservation summary
// @Tags Reservation
// @Produce json
// @Success 200 {object} dto.Summary
// @Router /api/reservations/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation summary")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, summary)
}

// GetReservation returns a single reservation.
// @Summary Get reservation
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} dto.Reservation
// @Failure 404 {object} response.Status
// @Router /api/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservation")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	reservation, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to get reservation")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, reservation)
}

// GetTransactions returns the ledger of a reservation, newest first.
// @Summary Reservation transactions
// @Tags Reservation
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {array} dto.Transaction
// @Router /api/reservations/{id}/transactions [get]
// @Security BearerAuth
func (handler *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransactions")
	defer scope.End()

	id, err := pathID(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	transactions, err := handler.transactionSvc.ListByReservation(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to get transactions")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, transactions)
}

// DownloadExport streams the filtered table as XLSX.
// @Summary Export reservations
// @Tags Reservation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/reservations/export [get]
// @Security BearerAuth
func (handler *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DownloadExport")
	defer scope.End()

	query, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		response.WithError(w, err)

		return
	}

	file, err := handler.exportSvc.Build(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build export")

		response.WithError(w, err)

		return
	}

	response.WithAttachment(w, constant.ContentTypeXLSX, file.Name, file.Content)
}

// UploadExport stores the export in object storage and returns its URL.
// @Summary Upload reservations export
// @Tags Reservation
// @Produce json
// @Success 201 {object} dto.UploadResponse
// @Router /api/reservations/export [post]
// @Security BearerAuth
func (handler *Handler) UploadExport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadExport")
	defer scope.End()

	query, err := view.ParseQuery(r.URL.Query())
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.exportSvc.Upload(ctx, query)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload export")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusCreated, res)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, constant.RequestParamID), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString(messageInvalidID) // nolint:wrapcheck
	}

	return id, nil
}
