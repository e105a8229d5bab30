package mapping

import (
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/models"
)

// ToDomainField converts a model Field to a domain Field
func ToDomainField(m models.Field) domain.Field {
	return domain.Field{
		FieldID:   m.FieldID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		Type:      domain.FieldType(m.Type),
		HourPrice: m.HourPrice,
		Deleted:   m.Deleted,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
