package mapping

import (
	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/models"
)

// ToModelCalendar converts a domain Reservation to a model Calendar
func ToModelCalendar(d domain.Reservation) models.Calendar {
	return models.Calendar{
		CalendarID:         d.ReservationID,
		FieldID:            d.FieldID,
		UserID:             d.UserID,
		CashClosingID:      d.CashClosingID,
		CalendarDate:       d.Date.Time(),
		InitTime:           ToPgTime(d.Start),
		EndTime:            ToPgTime(d.End),
		State:              string(d.State),
		PaymentStatus:      stringPtrOrNil(string(d.PaymentStatus)),
		PaymentReceipt:     d.Receipt,
		PaymentReceiptDate: d.ReceiptDate,
		PaymentAmount:      d.PaymentAmount,
		Transaction:        d.Transaction,
		ApprovedBy:         d.ApprovedBy,
		ApprovedDate:       d.ApprovedAt,
		RejectionReason:    d.RejectionReason,
		CancellationReason: d.CancellationReason,
		Payment:            string(d.Settlement),
		IsMaterialized:     d.Materialized,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReservation converts a model Calendar to a domain Reservation
func ToDomainReservation(m models.Calendar) domain.Reservation {
	return domain.Reservation{
		ReservationID:      m.CalendarID,
		FieldID:            m.FieldID,
		UserID:             m.UserID,
		CashClosingID:      m.CashClosingID,
		Date:               ToDomainDate(m.CalendarDate),
		Start:              ToClockTime(m.InitTime),
		End:                ToClockTime(m.EndTime),
		State:              domain.ReservationState(m.State),
		PaymentStatus:      domain.PaymentStatus(derefString(m.PaymentStatus)),
		Receipt:            m.PaymentReceipt,
		ReceiptDate:        m.PaymentReceiptDate,
		PaymentAmount:      m.PaymentAmount,
		Transaction:        m.Transaction,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedDate,
		RejectionReason:    m.RejectionReason,
		CancellationReason: m.CancellationReason,
		Settlement:         domain.SettlementStatus(m.Payment),
		Materialized:       m.IsMaterialized,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReservationSlice converts a slice of model Calendars
func ToDomainReservationSlice(ms []models.Calendar) []domain.Reservation {
	ds := make([]domain.Reservation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReservation(m)
	}
	return ds
}
