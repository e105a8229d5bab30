package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// FieldSchedule is a normalized template row.
type FieldSchedule struct {
	ScheduleID  string      `db:"field_schedule_id"`
	FieldID     string      `db:"field_id"`
	DayOfWeek   int16       `db:"day_of_week"`
	StartTime   pgtype.Time `db:"start_time"`
	EndTime     pgtype.Time `db:"end_time"`
	IsAvailable bool        `db:"is_available"`
}

// Schedule is the legacy dense encoding: one column per weekday, 24 tokens each.
type Schedule struct {
	ScheduleID string      `db:"schedule_id"`
	FieldID    string      `db:"field_id"`
	Mon        pgtype.Text `db:"schedule_mon"`
	Tue        pgtype.Text `db:"schedule_tue"`
	Wed        pgtype.Text `db:"schedule_wed"`
	Thu        pgtype.Text `db:"schedule_thu"`
	Fri        pgtype.Text `db:"schedule_fri"`
	Sat        pgtype.Text `db:"schedule_sat"`
	Sun        pgtype.Text `db:"schedule_sun"`
}
