// Package event consumes reservation ingestion events and drops the cached
// reservation reads they make stale.
package event

import (
	"context"
	"vcardops/config"
	"vcardops/infras/kafka"
	"vcardops/infras/metrics"
	"vcardops/infras/otel"
	"vcardops/internal/domains/reservation/service"
	"vcardops/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const sourceIngestion = "ingestion"

// IngestionEvent is published by the ingestion process after it writes
// reservations.
type IngestionEvent struct {
	ReservationIDs []int64 `json:"reservation_ids"`
	HotelID        *int64  `json:"hotel_id"`
	Source         string  `json:"source"`
}

type Handler struct {
	consumer       kafka.Consumer
	reservationSvc service.Reservation
	metrics        *metrics.Metrics
	cfg            *config.Config
	otel           otel.Otel
}

func New(consumer kafka.Consumer, reservationSvc service.Reservation, metrics *metrics.Metrics, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		consumer:       consumer,
		reservationSvc: reservationSvc,
		metrics:        metrics,
		cfg:            cfg,
		otel:           otel,
	}
}

// Run consumes the ingestion topic until ctx is done. It returns immediately
// when Kafka is disabled.
func (handler *Handler) Run(ctx context.Context) error {
	if !handler.cfg.Kafka.Enable {
		log.Info().Msg("kafka disabled, ingestion events are not consumed")

		return nil
	}

	return handler.consumer.Consume(ctx, handler.cfg.Kafka.Topics.Ingestion, handler.Handle) //nolint:wrapcheck
}

func (handler *Handler) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := handler.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".IngestionEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	event, err := kafka.Decode[IngestionEvent](msg)
	if err != nil {
		return err
	}

	handler.reservationSvc.InvalidateCaches(ctx)
	handler.metrics.CacheInvalidated(sourceIngestion)

	log.Info().
		Int("reservations", len(event.ReservationIDs)).
		Str("source", event.Source).
		Msg("reservation caches invalidated after ingestion")

	return nil
}
