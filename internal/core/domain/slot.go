package domain

// OccupancySource names what took a slot.
type OccupancySource string

const (
	OccupiedByReservation OccupancySource = "reservation"
	OccupiedByRecurring   OccupancySource = "recurring"
)

// Slot is a candidate bookable interval of a field on a date.
type Slot struct {
	FieldID       string           `json:"field_id"`
	Date          Date             `json:"date"`
	Start         ClockTime        `json:"start_time"`
	End           ClockTime        `json:"end_time"`
	IsAvailable   bool             `json:"is_available"`
	OccupiedBy    OccupancySource  `json:"occupied_by,omitempty"`
	State         ReservationState `json:"calendar_state,omitempty"`
	ReservationID string           `json:"calendar_id,omitempty"`
}

func (s Slot) Interval() Interval { return Interval{Start: s.Start, End: s.End} }

// AvailableOnly filters a grid down to its free slots, keeping order.
func AvailableOnly(grid []Slot) []Slot {
	out := make([]Slot, 0, len(grid))
	for _, s := range grid {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	return out
}
