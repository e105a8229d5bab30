package dto

import "github.com/SscSPs/cancha_booking_app/internal/core/domain"

// SlotResponse is one entry of an available-slots listing.
type SlotResponse struct {
	StartTime     domain.ClockTime        `json:"start_time"`
	EndTime       domain.ClockTime        `json:"end_time"`
	IsAvailable   bool                    `json:"is_available"`
	OccupiedBy    domain.OccupancySource  `json:"occupied_by,omitempty"`
	CalendarState domain.ReservationState `json:"calendar_state,omitempty"`
	CalendarID    string                  `json:"calendar_id,omitempty"`
}

// SlotsMeta accompanies slot listings.
type SlotsMeta struct {
	FieldID string      `json:"field_id"`
	Date    domain.Date `json:"date"`
	DayName string      `json:"day_name"`
	Total   int         `json:"total"`
}

// ToSlotResponses converts generated slots.
func ToSlotResponses(slots []domain.Slot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{
			StartTime:     s.Start,
			EndTime:       s.End,
			IsAvailable:   s.IsAvailable,
			OccupiedBy:    s.OccupiedBy,
			CalendarState: s.State,
			CalendarID:    s.ReservationID,
		}
	}
	return out
}
