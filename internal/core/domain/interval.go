package domain

import "fmt"

// Interval is a half-open time-of-day range [Start, End).
type Interval struct {
	Start ClockTime `json:"start_time"`
	End   ClockTime `json:"end_time"`
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Every overlap test in the system goes through here.
func Overlaps(startA, endA, startB, endB ClockTime) bool {
	return startA < endB && startB < endA
}

// Overlaps reports whether i and o intersect.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Validate checks that the interval is non-empty and within one day.
func (i Interval) Validate() error {
	if i.Start < Midnight || i.End > EndOfDay {
		return fmt.Errorf("interval %s-%s must lie within 00:00 and 24:00", i.Start, i.End)
	}
	if i.Start >= i.End {
		return fmt.Errorf("start time %s must be before end time %s", i.Start, i.End)
	}
	return nil
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}
