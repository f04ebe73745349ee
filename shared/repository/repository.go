package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"vcardops/infras/database"
	"vcardops/infras/otel"
	"vcardops/shared/constant"
	"vcardops/shared/dto"
	"vcardops/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// joiner is implemented by models whose reads pull columns from other tables.
type joiner interface {
	GetJoinQuery() string
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) String() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

// table is what the generic repository knows about T, derived once from its
// struct tags: db names the column, table/column map a joined column onto the
// field, readonly keeps the column out of inserts.
type table struct {
	entity  string
	name    string
	primary string
	join    string
	columns []column
	inserts []string
}

// Repository implements the reads and writes every domain repository shares.
// Domain repositories embed it and narrow it through their own interface.
type Repository[T any] struct {
	db   *database.Connection
	otel otel.Otel
	meta table
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *database.Connection, otl otel.Otel) Repository[T] {
	var zero T

	meta := table{entity: entityName, name: tableName, primary: primaryColumn}
	meta.columns, meta.inserts = describe(tableName, reflect.TypeOf(zero))

	if j, ok := any(zero).(joiner); ok {
		meta.join = j.GetJoinQuery()
	}

	return Repository[T]{db: dbConnection, otel: otl, meta: meta}
}

func (repo *Repository[T]) span(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.meta.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.meta.entity, err)
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.meta.inserts))
	for i, col := range repo.meta.inserts {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.meta.name, strings.Join(repo.meta.inserts, ", "), strings.Join(placeholders, ", "))
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.span(ctx, "Insert")
	defer scope.End()

	query := repo.insertQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

// InsertTxReturningID inserts model inside sqltx and returns the generated
// primary key. Postgres reads it back with RETURNING, MySQL from LastInsertId.
func (repo *Repository[T]) InsertTxReturningID(ctx context.Context, sqltx *sqlx.Tx, model T) (int64, error) {
	ctx, scope := repo.span(ctx, "InsertTxReturningID")
	defer scope.End()

	query := repo.insertQuery()

	if repo.db.Driver == database.DriverMySQL {
		scope.SetAttribute(constant.OtelQueryAttributeKey, query)

		result, err := sqltx.NamedExecContext(ctx, query, model)
		if err != nil {
			return 0, repo.fail(scope, "insert data", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return 0, repo.fail(scope, "read inserted id", err)
		}

		return id, nil
	}

	query += " RETURNING " + repo.meta.primary
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, args, err := sqltx.BindNamed(query, model)
	if err != nil {
		return 0, repo.fail(scope, "bind insert", err)
	}

	var id int64
	if err := sqltx.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		return 0, repo.fail(scope, "insert data", err)
	}

	return id, nil
}

// withStatement prepares query on prep and hands the statement to fn.
func (repo *Repository[T]) withStatement(ctx context.Context, prep preparer, scope otel.Scope, query string, fn func(*sqlx.NamedStmt) error) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	return fn(stmt)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.span(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	err := repo.withStatement(ctx, repo.db.Read, scope,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.meta.name, where),
		func(stmt *sqlx.NamedStmt) error {
			if err := stmt.GetContext(ctx, &exist, args); err != nil {
				return repo.fail(scope, "check exist data", err)
			}

			return nil
		})

	return exist, err
}

func (repo *Repository[T]) selectQuery(where string, columns []string, tail ...string) string {
	parts := []string{"SELECT", repo.selectColumns(columns), "FROM", repo.meta.name, repo.meta.join, where}
	parts = append(parts, tail...)

	return strings.Join(slices.DeleteFunc(parts, func(p string) bool { return p == "" }), " ")
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.span(ctx, "get")
	defer scope.End()

	var model T

	where, args := whereClause(filter)

	err := repo.withStatement(ctx, prep, scope, repo.selectQuery(where, columns),
		func(stmt *sqlx.NamedStmt) error {
			err := stmt.GetContext(ctx, &model, args)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return repo.fail(scope, "get data", err)
			}

			return nil
		})

	return model, err
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, columns...)
}

// GetTx reads inside sqltx, so the row observed is the one the transaction
// is about to change.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, columns...)
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.span(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var ordering, pagination string

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			pagination += " OFFSET :offset"
		}
	}

	var models []T

	err := repo.withStatement(ctx, repo.db.Read, scope, repo.selectQuery(where, columns, ordering, pagination),
		func(stmt *sqlx.NamedStmt) error {
			if err := stmt.SelectContext(ctx, &models, args); err != nil {
				return repo.fail(scope, "get all data", err)
			}

			return nil
		})

	return models, err
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, changes map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.span(ctx, "update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	assignments := make([]string, 0, len(changes))
	for _, col := range slices.Sorted(maps.Keys(changes)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.meta.name, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, changes)

	result, err := exec.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

// Update returns the number of affected rows; zero means nothing matched.
func (repo *Repository[T]) Update(ctx context.Context, changes map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, repo.db.Write, changes, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, changes map[string]any, filter dto.FilterGroup) (int64, error) {
	return repo.update(ctx, sqltx, changes, filter)
}

// selectColumns renders every known column, or only the ones named.
func (repo *Repository[T]) selectColumns(only []string) string {
	rendered := make([]string, 0, len(repo.meta.columns))

	for _, col := range repo.meta.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		rendered = append(rendered, col.String())
	}

	return strings.Join(rendered, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func describe(tableName string, reflectType reflect.Type) (columns []column, inserts []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInserts := describe(tableName, field.Type)
			columns = append(columns, embedded...)
			inserts = append(inserts, embeddedInserts...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = tableName
		}

		if owner == tableName && field.Tag.Get("readonly") == "" {
			inserts = append(inserts, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, inserts
}
