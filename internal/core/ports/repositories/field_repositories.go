package repositories

import (
	"context"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// FieldReader defines read operations for field data
type FieldReader interface {
	// FindFieldByID retrieves a field that has not been soft deleted.
	FindFieldByID(ctx context.Context, fieldID string) (*domain.Field, error)
}

// FieldRepositoryFacade combines all field-related repository interfaces
type FieldRepositoryFacade interface {
	FieldReader
}
