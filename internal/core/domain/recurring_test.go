package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %s: %v", s, err)
	}
	return d
}

func weekdayPtr(w time.Weekday) *time.Weekday { return &w }
func intPtr(i int) *int                       { return &i }

func TestRecurringReservation_OccursOn(t *testing.T) {
	end := mustDate(t, "2024-06-30")
	weekly := domain.RecurringReservation{
		Type:      domain.RecurrenceWeekly,
		DayOfWeek: weekdayPtr(time.Monday),
		Start:     domain.ClockAt(18, 0),
		End:       domain.ClockAt(19, 0),
		StartDate: mustDate(t, "2024-06-01"),
		EndDate:   &end,
		IsActive:  true,
	}

	assert.True(t, weekly.OccursOn(mustDate(t, "2024-06-10")))
	assert.False(t, weekly.OccursOn(mustDate(t, "2024-06-11")), "tuesday")
	assert.False(t, weekly.OccursOn(mustDate(t, "2024-07-01")), "after end date")
	assert.False(t, weekly.OccursOn(mustDate(t, "2024-05-27")), "before start date")

	inactive := weekly
	inactive.IsActive = false
	assert.False(t, inactive.OccursOn(mustDate(t, "2024-06-10")))

	monthly := domain.RecurringReservation{
		Type:       domain.RecurrenceMonthly,
		DayOfMonth: intPtr(15),
		Start:      domain.ClockAt(9, 0),
		End:        domain.ClockAt(10, 0),
		StartDate:  mustDate(t, "2024-01-01"),
		IsActive:   true,
	}
	assert.True(t, monthly.OccursOn(mustDate(t, "2031-03-15")), "open ended")
	assert.False(t, monthly.OccursOn(mustDate(t, "2024-03-16")))
}

func TestRecurringReservation_Validate(t *testing.T) {
	ok := domain.RecurringReservation{
		Type:      domain.RecurrenceWeekly,
		DayOfWeek: weekdayPtr(time.Saturday),
		Start:     domain.ClockAt(8, 0),
		End:       domain.ClockAt(9, 0),
		StartDate: mustDate(t, "2024-06-01"),
	}
	assert.NoError(t, ok.Validate())

	noDay := ok
	noDay.DayOfWeek = nil
	assert.Error(t, noDay.Validate())

	badMonth := ok
	badMonth.Type = domain.RecurrenceMonthly
	badMonth.DayOfMonth = intPtr(32)
	assert.Error(t, badMonth.Validate())

	before := mustDate(t, "2024-05-01")
	inverted := ok
	inverted.EndDate = &before
	assert.Error(t, inverted.Validate())
}

func TestRecurringReservation_MayShareDay(t *testing.T) {
	mon := domain.RecurringReservation{Type: domain.RecurrenceWeekly, DayOfWeek: weekdayPtr(time.Monday), StartDate: mustDate(t, "2024-01-01")}
	tue := domain.RecurringReservation{Type: domain.RecurrenceWeekly, DayOfWeek: weekdayPtr(time.Tuesday), StartDate: mustDate(t, "2024-01-01")}
	monthly := domain.RecurringReservation{Type: domain.RecurrenceMonthly, DayOfMonth: intPtr(3), StartDate: mustDate(t, "2024-01-01")}

	assert.True(t, mon.MayShareDay(mon))
	assert.False(t, mon.MayShareDay(tue))
	assert.True(t, mon.MayShareDay(monthly))

	end := mustDate(t, "2024-01-31")
	expired := mon
	expired.EndDate = &end
	later := mon
	later.StartDate = mustDate(t, "2024-03-01")
	assert.False(t, expired.MayShareDay(later))
}
