package mapping

import (
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/models"
)

// ToModelRecurring converts a domain RecurringReservation to a model RecurringReservation
func ToModelRecurring(d domain.RecurringReservation) models.RecurringReservation {
	m := models.RecurringReservation{
		RecurringID:    d.RecurringID,
		FieldID:        d.FieldID,
		UserID:         d.UserID,
		RecurrenceType: string(d.Type),
		StartTime:      ToPgTime(d.Start),
		EndTime:        ToPgTime(d.End),
		StartDate:      d.StartDate.Time(),
		EndDate:        ToModelDatePtr(d.EndDate),
		PaymentAmount:  d.PaymentAmount,
		IsActive:       d.IsActive,
		ClientName:     stringPtrOrNil(d.ClientName),
		Notes:          stringPtrOrNil(d.Notes),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.DayOfWeek != nil {
		v := int16(*d.DayOfWeek)
		m.DayOfWeek = &v
	}
	if d.DayOfMonth != nil {
		v := int16(*d.DayOfMonth)
		m.DayOfMonth = &v
	}
	return m
}

// ToDomainRecurring converts a model RecurringReservation to a domain RecurringReservation
func ToDomainRecurring(m models.RecurringReservation) domain.RecurringReservation {
	d := domain.RecurringReservation{
		RecurringID:   m.RecurringID,
		FieldID:       m.FieldID,
		UserID:        m.UserID,
		Type:          domain.RecurrenceType(m.RecurrenceType),
		Start:         ToClockTime(m.StartTime),
		End:           ToClockTime(m.EndTime),
		StartDate:     ToDomainDate(m.StartDate),
		EndDate:       ToDomainDatePtr(m.EndDate),
		PaymentAmount: m.PaymentAmount,
		IsActive:      m.IsActive,
		ClientName:    derefString(m.ClientName),
		Notes:         derefString(m.Notes),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.DayOfWeek != nil {
		w := time.Weekday(*m.DayOfWeek)
		d.DayOfWeek = &w
	}
	if m.DayOfMonth != nil {
		v := int(*m.DayOfMonth)
		d.DayOfMonth = &v
	}
	return d
}

// ToDomainRecurringSlice converts a slice of model RecurringReservations
func ToDomainRecurringSlice(ms []models.RecurringReservation) []domain.RecurringReservation {
	ds := make([]domain.RecurringReservation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurring(m)
	}
	return ds
}
