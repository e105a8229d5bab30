package mapping

import (
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/models"
)

// ToModelCashClosing converts a domain CashClosing to a model CashClosing
func ToModelCashClosing(d domain.CashClosing) models.CashClosing {
	ids := d.ReservationIDs
	if ids == nil {
		ids = []string{}
	}
	return models.CashClosing{
		CashClosingID:  d.CashClosingID,
		CompanyID:      d.CompanyID,
		ReservationIDs: ids,
		Total:          d.Total,
		Date:           d.Date.Time(),
		State:          string(d.State),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashClosing converts a model CashClosing to a domain CashClosing
func ToDomainCashClosing(m models.CashClosing) domain.CashClosing {
	return domain.CashClosing{
		CashClosingID:  m.CashClosingID,
		CompanyID:      m.CompanyID,
		ReservationIDs: m.ReservationIDs,
		Total:          m.Total,
		Date:           ToDomainDate(m.Date),
		State:          domain.CashClosingState(m.State),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCashClosingSlice converts a slice of model CashClosings
func ToDomainCashClosingSlice(ms []models.CashClosing) []domain.CashClosing {
	ds := make([]domain.CashClosing, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashClosing(m)
	}
	return ds
}
