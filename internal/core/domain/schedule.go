package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DenseHours is the number of hourly buckets in a legacy dense schedule string.
const DenseHours = 24

// TemplateSource tells where a resolved template came from.
type TemplateSource string

const (
	SourceNormalized TemplateSource = "normalized"
	SourceDense      TemplateSource = "dense"
	SourceDefault    TemplateSource = "default"
)

// TemplateRow is one bookable window of a weekday template.
type TemplateRow struct {
	ScheduleID  string       `json:"field_schedule_id,omitempty"`
	FieldID     string       `json:"field_id"`
	Weekday     time.Weekday `json:"day_of_week"`
	Start       ClockTime    `json:"start_time"`
	End         ClockTime    `json:"end_time"`
	IsAvailable bool         `json:"is_available"`
}

func (r TemplateRow) Interval() Interval { return Interval{Start: r.Start, End: r.End} }

// ScheduleTemplate is the maximal bookable envelope of a field on one weekday.
type ScheduleTemplate struct {
	FieldID string         `json:"field_id"`
	Weekday time.Weekday   `json:"day_of_week"`
	Source  TemplateSource `json:"source"`
	Rows    []TemplateRow  `json:"rows"`
}

// AvailableIntervals returns the available rows ordered by start.
func (t ScheduleTemplate) AvailableIntervals() []Interval {
	out := make([]Interval, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.IsAvailable {
			out = append(out, r.Interval())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// DenseSchedule is the legacy per-field encoding: one string of DenseHours
// comma separated state tokens per weekday.
type DenseSchedule struct {
	FieldID string                  `json:"field_id"`
	Days    map[time.Weekday]string `json:"days"`
}

var availableTokens = map[string]bool{
	"disponible": true,
	"libre":      true,
	"1":          true,
	"true":       true,
}

// DecodeDenseDay turns one weekday's dense string into hourly template rows.
func DecodeDenseDay(fieldID string, weekday time.Weekday, encoded string) ([]TemplateRow, error) {
	tokens := strings.Split(encoded, ",")
	if len(tokens) < DenseHours {
		return nil, fmt.Errorf("dense schedule for %s has %d tokens, want %d", weekday, len(tokens), DenseHours)
	}
	rows := make([]TemplateRow, 0, DenseHours)
	for h := 0; h < DenseHours; h++ {
		tok := strings.ToLower(strings.TrimSpace(tokens[h]))
		rows = append(rows, TemplateRow{
			FieldID:     fieldID,
			Weekday:     weekday,
			Start:       ClockAt(h, 0),
			End:         ClockAt(h+1, 0),
			IsAvailable: availableTokens[tok],
		})
	}
	return rows, nil
}

// ValidateTemplateRows checks a weekday's rows: non-empty in-day intervals and
// no two rows sharing a start time.
func ValidateTemplateRows(rows []TemplateRow) error {
	seen := make(map[ClockTime]bool, len(rows))
	for _, r := range rows {
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return fmt.Errorf("day_of_week %d out of range", r.Weekday)
		}
		if err := r.Interval().Validate(); err != nil {
			return err
		}
		if seen[r.Start] {
			return fmt.Errorf("duplicate start time %s", r.Start)
		}
		seen[r.Start] = true
	}
	return nil
}

// DefaultGrid synthesizes slots for fields without a configured schedule.
type DefaultGrid struct {
	Open  ClockTime
	Close ClockTime
	Step  time.Duration
}

// StandardGrid is 06:00 to 23:00 in one hour steps.
var StandardGrid = DefaultGrid{Open: ClockAt(6, 0), Close: ClockAt(23, 0), Step: time.Hour}

// Intervals returns consecutive Step-long slots from Open up to Close.
func (g DefaultGrid) Intervals() []Interval {
	step := g.Step
	if step < time.Minute {
		step = time.Hour
	}
	var out []Interval
	for start := g.Open; start.Add(step) <= g.Close; start = start.Add(step) {
		out = append(out, Interval{Start: start, End: start.Add(step)})
	}
	return out
}

// Template renders the grid as an all-available template.
func (g DefaultGrid) Template(fieldID string, weekday time.Weekday) ScheduleTemplate {
	ivs := g.Intervals()
	rows := make([]TemplateRow, len(ivs))
	for i, iv := range ivs {
		rows[i] = TemplateRow{FieldID: fieldID, Weekday: weekday, Start: iv.Start, End: iv.End, IsAvailable: true}
	}
	return ScheduleTemplate{FieldID: fieldID, Weekday: weekday, Source: SourceDefault, Rows: rows}
}

var dayNames = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// DayName returns the Spanish weekday name.
func DayName(w time.Weekday) string {
	if w < time.Sunday || w > time.Saturday {
		return ""
	}
	return dayNames[w]
}
