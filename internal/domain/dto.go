package domain

import "time"

// TimeSlotDTO carries one slot as submitted by the editor. Blank rows (both
// times empty) are legal input and are dropped at commit time.
type TimeSlotDTO struct {
	Start          string `json:"start_time"`
	End            string `json:"end_time"`
	ActivityTypeID int64  `json:"activity_type_id"`
}

type DayScheduleDTO struct {
	Key    string        `json:"key" binding:"required"`
	Active bool          `json:"active"`
	Slots  []TimeSlotDTO `json:"slots"`
}

type SaveAvailabilityDTO struct {
	Days      []DayScheduleDTO `json:"days" binding:"required"`
	Confirmed bool             `json:"confirmed"`
}

type PreviewImpactDTO struct {
	Days []DayScheduleDTO `json:"days" binding:"required"`
}

type GrantEditWindowDTO struct {
	Until time.Time `json:"until" binding:"required"`
}

// ToDays converts the submitted shape into domain day schedules.
func ToDays(dtos []DayScheduleDTO) []DaySchedule {
	days := make([]DaySchedule, 0, len(dtos))
	for _, in := range dtos {
		day := NewDaySchedule(in.Key)
		day.Active = in.Active
		for _, slot := range in.Slots {
			day.Slots = append(day.Slots, TimeSlot{
				Start:          slot.Start,
				End:            slot.End,
				ActivityTypeID: slot.ActivityTypeID,
			})
		}
		days = append(days, day)
	}
	return days
}
