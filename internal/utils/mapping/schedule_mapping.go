package mapping

import (
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToModelFieldSchedule converts a domain TemplateRow to a model FieldSchedule
func ToModelFieldSchedule(d domain.TemplateRow) models.FieldSchedule {
	return models.FieldSchedule{
		ScheduleID:  d.ScheduleID,
		FieldID:     d.FieldID,
		DayOfWeek:   int16(d.Weekday),
		StartTime:   ToPgTime(d.Start),
		EndTime:     ToPgTime(d.End),
		IsAvailable: d.IsAvailable,
	}
}

// ToDomainTemplateRow converts a model FieldSchedule to a domain TemplateRow
func ToDomainTemplateRow(m models.FieldSchedule) domain.TemplateRow {
	return domain.TemplateRow{
		ScheduleID:  m.ScheduleID,
		FieldID:     m.FieldID,
		Weekday:     time.Weekday(m.DayOfWeek),
		Start:       ToClockTime(m.StartTime),
		End:         ToClockTime(m.EndTime),
		IsAvailable: m.IsAvailable,
	}
}

// ToDomainTemplateRowSlice converts a slice of model FieldSchedules
func ToDomainTemplateRowSlice(ms []models.FieldSchedule) []domain.TemplateRow {
	ds := make([]domain.TemplateRow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTemplateRow(m)
	}
	return ds
}

// ToDomainDenseSchedule converts the legacy row, skipping NULL columns.
func ToDomainDenseSchedule(m models.Schedule) domain.DenseSchedule {
	days := make(map[time.Weekday]string, 7)
	for w, col := range denseColumns(&m) {
		if col.Valid {
			days[w] = col.String
		}
	}
	return domain.DenseSchedule{FieldID: m.FieldID, Days: days}
}

// ToModelSchedule converts a domain DenseSchedule to the legacy row.
func ToModelSchedule(id string, d domain.DenseSchedule) models.Schedule {
	m := models.Schedule{ScheduleID: id, FieldID: d.FieldID}
	for w, col := range denseColumns(&m) {
		if s, ok := d.Days[w]; ok {
			*col = pgtype.Text{String: s, Valid: true}
		}
	}
	return m
}

func denseColumns(m *models.Schedule) map[time.Weekday]*pgtype.Text {
	return map[time.Weekday]*pgtype.Text{
		time.Monday:    &m.Mon,
		time.Tuesday:   &m.Tue,
		time.Wednesday: &m.Wed,
		time.Thursday:  &m.Thu,
		time.Friday:    &m.Fri,
		time.Saturday:  &m.Sat,
		time.Sunday:    &m.Sun,
	}
}
