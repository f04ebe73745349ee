package model

import (
	"database/sql"
	"vcardops/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldLevel     = "level"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
)

// User is a staff account allowed into the dashboard. Level is one of the
// constant.Role* values.
type User struct {
	ID        string         `db:"id"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	Level     string         `db:"level"`
	FullName  sql.NullString `db:"full_name"`
	LastLogin sql.NullTime   `db:"last_login"`
	Active    bool           `db:"active"`
	model.Metadata
}
