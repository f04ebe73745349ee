package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"vcardops/infras/database"
	"vcardops/infras/otel"
	"vcardops/internal/domains/transaction/model"
	gDto "vcardops/shared/dto"
	gRepo "vcardops/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Transaction has no update or delete path; ledger rows are immutable.
type Transaction interface {
	InsertTxReturningID(ctx context.Context, sqltx *sqlx.Tx, model model.Transaction) (int64, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Transaction, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Transaction]
}

func New(db *database.Connection, otel otel.Otel) Transaction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Transaction](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
