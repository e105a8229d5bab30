package domain

import "time"

// AuditFields holds creation and update bookkeeping shared by persisted entities.
type AuditFields struct {
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
