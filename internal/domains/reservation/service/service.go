package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Reservation=MockReservationService

import (
	"context"
	"fmt"
	"strconv"
	"vcardops/config"
	"vcardops/infras/otel"
	"vcardops/internal/domains/reservation/model"
	"vcardops/internal/domains/reservation/model/dto"
	"vcardops/internal/domains/reservation/repository"
	"vcardops/internal/domains/reservation/view"
	"vcardops/shared"
	"vcardops/shared/cache"
	"vcardops/shared/constant"
	gDto "vcardops/shared/dto"
	"vcardops/shared/failure"
	"vcardops/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheGeneration        = "reservation:generation"
	initialGeneration      = "0"
)

const (
	MessageCardIDRequired     = "Card ID is required"
	MessageCardNotFound       = "Card not found or no changes made"
	MessageNotesUpdated       = "Notes updated successfully"
	MessageReservationMissing = "Reservation not found"
)

type Reservation interface {
	GetAll(ctx context.Context, chargeable bool) ([]dto.Reservation, error)
	Get(ctx context.Context, id int64) (dto.Reservation, error)
	View(ctx context.Context, q view.Query) (view.Result, error)
	Summary(ctx context.Context) (dto.Summary, error)
	UpdateNotes(ctx context.Context, req dto.UpdateNotesRequest) (dto.UpdateNotesResponse, error)
	InvalidateCaches(ctx context.Context)
}

type serviceImpl struct {
	repo  repository.Reservation
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// GetAll lists reservations joined with their hotel, newest rows first. With
// chargeable set, only rows above the chargeable threshold whose check-in is
// within the recent window are returned.
func (s *serviceImpl) GetAll(ctx context.Context, chargeable bool) (res []dto.Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}

	filter := gDto.FilterGroup{}
	if chargeable {
		filter = chargeableFilter(s.cfg.Reservation.RecentWindowDays)
	}

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllReservation, s.generation(ctx)), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	res = dto.FromModels(models)

	if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save reservations to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.Reservation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, s.generation(ctx), strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == 0 {
		return res, failure.NotFound(MessageReservationMissing) // nolint:wrapcheck
	}

	res.FromModel(reservation)

	if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save reservation to cache")
	}

	return res, nil
}

// View runs the table engine over the full list, so server and dashboard
// agree on filtering, ordering and paging.
func (s *serviceImpl) View(ctx context.Context, q view.Query) (res view.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".View")
	defer scope.End()
	defer scope.TraceIfError(err)

	rows, err := s.GetAll(ctx, false)
	if err != nil {
		return res, err
	}

	return view.Compute(rows, q), nil
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.Summary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	rows, err := s.GetAll(ctx, false)
	if err != nil {
		return res, err
	}

	return view.Summarize(rows, timezone.Now(), s.cfg.Reservation.ExpiredAfterDays), nil
}

// UpdateNotes overwrites the notes of one reservation. Zero affected rows is
// reported as not found; no existence check is made first.
func (s *serviceImpl) UpdateNotes(ctx context.Context, req dto.UpdateNotesRequest) (res dto.UpdateNotesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateNotes")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.CardID <= 0 {
		return res, failure.BadRequestFromString(MessageCardIDRequired) // nolint:wrapcheck
	}

	affected, err := s.repo.Update(ctx, map[string]any{model.FieldNotes: req.Notes}, shared.FilterByID(req.CardID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", req.CardID).Msg("failed to update notes")

		return res, fmt.Errorf("failed to update notes: %w", err)
	}

	if affected == 0 {
		return res, failure.NotFound(MessageCardNotFound) // nolint:wrapcheck
	}

	s.InvalidateCaches(context.WithoutCancel(ctx))

	return dto.UpdateNotesResponse{
		Status:  constant.ResponseStatusSuccess,
		Message: MessageNotesUpdated,
		Notes:   req.Notes,
	}, nil
}

// InvalidateCaches drops every cached reservation read before returning, so
// the next read goes to the store. Writers outside this service call it after
// changing reservation rows.
//
// Reads cache under the generation they started in. Moving to a new generation
// first means a read that loaded rows before the write can only refill the
// retired generation, which nothing reads any more.
func (s *serviceImpl) InvalidateCaches(ctx context.Context) {
	if err := s.cache.Save(ctx, cacheGeneration, uuid.NewString(), 0); err != nil {
		log.Error().Err(err).Msg("failed to move reservation cache generation")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetReservation)
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllReservation)
}

func (s *serviceImpl) generation(ctx context.Context) string {
	var generation string
	if err := s.cache.Get(ctx, cacheGeneration, &generation); err != nil || generation == "" {
		return initialGeneration
	}

	return generation
}

func chargeableFilter(windowDays int) gDto.FilterGroup {
	since := timezone.Now().AddDate(0, 0, -windowDays)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRemainingBalance,
				Value:    constant.ChargeableThreshold,
				Operator: gDto.FilterOperatorGreater,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckInDate,
				Value:    since.Format(constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		},
	}
}
