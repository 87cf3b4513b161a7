package domain

// FacilityHours is the outer time bound within which all slots on any day
// must fall.
type FacilityHours struct {
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// ActivityType is a lesson category an instructor can offer in a slot.
type ActivityType struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Facility bundles the reference data that bounds schedule validation.
type Facility struct {
	Hours         FacilityHours  `json:"hours"`
	ActivityTypes []ActivityType `json:"activity_types"`
}

// ActivityTypeIDs returns the ids of the facility's active activity types.
func (f Facility) ActivityTypeIDs() []int64 {
	ids := make([]int64, 0, len(f.ActivityTypes))
	for _, at := range f.ActivityTypes {
		if at.Active {
			ids = append(ids, at.ID)
		}
	}
	return ids
}
