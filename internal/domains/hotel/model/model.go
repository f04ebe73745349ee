package model

const (
	TableName  = "hotels"
	EntityName = "hotel"

	FieldID   = "id"
	FieldName = "name"
)

type Hotel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
