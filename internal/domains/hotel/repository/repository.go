package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"vcardops/infras/database"
	"vcardops/infras/otel"
	"vcardops/internal/domains/hotel/model"
	gDto "vcardops/shared/dto"
	gRepo "vcardops/shared/repository"
)

type Hotel interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Hotel, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hotel]
}

func New(db *database.Connection, otel otel.Otel) Hotel {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hotel](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
