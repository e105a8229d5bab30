package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field is a row of the fields table.
type Field struct {
	FieldID   string          `db:"field_id"`
	CompanyID string          `db:"company_id"`
	Name      string          `db:"field_name"`
	Type      string          `db:"field_type"`
	HourPrice decimal.Decimal `db:"field_hour_price"`
	Deleted   bool            `db:"field_delete"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
