package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FieldType is the surface or format of a cancha.
type FieldType string

const (
	FieldFutbol5   FieldType = "futbol5"
	FieldFutbol7   FieldType = "futbol7"
	FieldFutbol11  FieldType = "futbol11"
	FieldBasquet   FieldType = "basquet"
	FieldTenis     FieldType = "tenis"
	FieldPadel     FieldType = "padel"
	FieldVoleibol  FieldType = "voleibol"
	FieldOtherType FieldType = "otro"
)

// Field is a bookable cancha owned by a company.
type Field struct {
	FieldID   string          `json:"field_id"`
	CompanyID string          `json:"company_id"`
	Name      string          `json:"field_name"`
	Type      FieldType       `json:"field_type"`
	HourPrice decimal.Decimal `json:"field_hour_price"`
	Deleted   bool            `json:"field_delete"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceFor returns the hourly price prorated to the interval length.
func (f Field) PriceFor(iv Interval) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(iv.End - iv.Start))
	return f.HourPrice.Mul(minutes).Div(decimal.NewFromInt(60)).Round(2)
}
