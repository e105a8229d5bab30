package models

import "time"

// AuditFields mirrors the bookkeeping columns shared by most tables.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	CreatedBy *string   `db:"created_by"`
	UpdatedAt time.Time `db:"updated_at"`
}
