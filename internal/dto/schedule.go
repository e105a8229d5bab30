package dto

import (
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
)

// ScheduleRowRequest is one template row in a replace request.
type ScheduleRowRequest struct {
	StartTime   string `json:"start_time" binding:"required,clock"`
	EndTime     string `json:"end_time" binding:"required,clock"`
	IsAvailable *bool  `json:"is_available"`
}

// ReplaceScheduleDayRequest replaces one weekday's rows. An empty list clears the day.
type ReplaceScheduleDayRequest struct {
	Rows []ScheduleRowRequest `json:"rows" binding:"dive"`
}

// ImportDenseScheduleRequest carries the legacy dense strings, one per weekday column.
type ImportDenseScheduleRequest struct {
	ScheduleMon string `json:"schedule_mon" binding:"required"`
	ScheduleTue string `json:"schedule_tue" binding:"required"`
	ScheduleWed string `json:"schedule_wed" binding:"required"`
	ScheduleThu string `json:"schedule_thu" binding:"required"`
	ScheduleFri string `json:"schedule_fri" binding:"required"`
	ScheduleSat string `json:"schedule_sat" binding:"required"`
	ScheduleSun string `json:"schedule_sun" binding:"required"`
}

// ByWeekday indexes the dense strings by weekday.
func (r ImportDenseScheduleRequest) ByWeekday() map[time.Weekday]string {
	return map[time.Weekday]string{
		time.Sunday:    r.ScheduleSun,
		time.Monday:    r.ScheduleMon,
		time.Tuesday:   r.ScheduleTue,
		time.Wednesday: r.ScheduleWed,
		time.Thursday:  r.ScheduleThu,
		time.Friday:    r.ScheduleFri,
		time.Saturday:  r.ScheduleSat,
	}
}

// ScheduleDayResponse is a weekday template as listed by GET /fields/:fieldId/schedules.
type ScheduleDayResponse struct {
	DayOfWeek int                   `json:"day_of_week"`
	DayName   string                `json:"day_name"`
	Source    domain.TemplateSource `json:"source"`
	Rows      []ScheduleRowResponse `json:"rows"`
}

// ScheduleRowResponse is one template row.
type ScheduleRowResponse struct {
	StartTime   domain.ClockTime `json:"start_time"`
	EndTime     domain.ClockTime `json:"end_time"`
	IsAvailable bool             `json:"is_available"`
}

// ToScheduleDayResponse converts a resolved template.
func ToScheduleDayResponse(t domain.ScheduleTemplate) ScheduleDayResponse {
	rows := make([]ScheduleRowResponse, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = ScheduleRowResponse{StartTime: r.Start, EndTime: r.End, IsAvailable: r.IsAvailable}
	}
	return ScheduleDayResponse{
		DayOfWeek: int(t.Weekday),
		DayName:   domain.DayName(t.Weekday),
		Source:    t.Source,
		Rows:      rows,
	}
}
