package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Transaction=MockTransactionService

import (
	"context"
	"fmt"
	"vcardops/infras/otel"
	"vcardops/internal/domains/transaction/model"
	"vcardops/internal/domains/transaction/model/dto"
	"vcardops/internal/domains/transaction/repository"
	"vcardops/shared/constant"
	gDto "vcardops/shared/dto"

	"github.com/rs/zerolog/log"
)

type Transaction interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]dto.Transaction, error)
}

type serviceImpl struct {
	repo repository.Transaction
	otel otel.Otel
}

func New(repo repository.Transaction, otel otel.Otel) Transaction {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// ListByReservation returns the ledger of one reservation, newest first.
func (s *serviceImpl) ListByReservation(ctx context.Context, reservationID int64) (res []dto.Transaction, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListByReservation")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldReservationID,
				Value:    reservationID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
	params := gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Int64("reservation_id", reservationID).Msg("failed to get transactions")

		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	return dto.FromModels(models), nil
}
