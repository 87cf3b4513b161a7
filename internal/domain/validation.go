package domain

import (
	"fmt"

	"stride/pkg/timeutil"
)

// ValidationResult is the outcome of validating a single slot.
type ValidationResult struct {
	HasError bool
	Message  string
}

// ValidateSlot runs the ordered slot checks: required fields, time format,
// facility-hours bounds, range direction, activity type, overlap. The first
// failing check wins and later checks are skipped. The result is also written
// onto the slot itself — the one mutation allowed outside DaySchedule — so
// the client can render per-slot feedback.
func ValidateSlot(slot *TimeSlot, day *DaySchedule, hours FacilityHours, validActivityTypes []int64) ValidationResult {
	result := validateSlot(slot, day, hours, validActivityTypes)
	slot.HasError = result.HasError
	slot.ErrorMessage = result.Message
	return result
}

func validateSlot(slot *TimeSlot, day *DaySchedule, hours FacilityHours, validActivityTypes []int64) ValidationResult {
	// An untouched blank slot is not invalid; nagging the user while a new
	// slot is still being filled in would block typing mid-entry.
	if slot.IsBlank() {
		return ValidationResult{}
	}

	if slot.Start == "" || slot.End == "" {
		return fail("start and end times are both required")
	}

	start, err := timeutil.ToMinutes(slot.Start)
	if err != nil {
		return fail("invalid time, expected HH:MM")
	}
	end, err := timeutil.ToMinutes(slot.End)
	if err != nil {
		return fail("invalid time, expected HH:MM")
	}

	openMin, openErr := timeutil.ToMinutes(hours.Start)
	closeMin, closeErr := timeutil.ToMinutes(hours.End)
	if openErr == nil && closeErr == nil {
		if start < openMin || end < openMin || start > closeMin || end > closeMin {
			return fail(fmt.Sprintf("time must be within facility hours %s-%s", hours.Start, hours.End))
		}
	}

	if start >= end {
		return fail("end time must be after start time")
	}

	if slot.ActivityTypeID == 0 {
		return fail("activity type is required")
	}
	if len(validActivityTypes) > 0 && !containsID(validActivityTypes, slot.ActivityTypeID) {
		return fail("unknown activity type")
	}

	if day != nil && day.Overlaps(slot) {
		return fail("overlaps another time range")
	}

	return ValidationResult{}
}

func fail(message string) ValidationResult {
	return ValidationResult{HasError: true, Message: message}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// ValidateAll runs the slot validator over every slot of every active day and
// the authoritative overlap sweep per day. It returns nil only when the whole
// week is error free; otherwise the first-encountered issue, which the
// transport layer surfaces as the user-facing summary.
func (w *WeeklyAvailability) ValidateAll(hours FacilityHours, validActivityTypes []int64) error {
	var firstErr *ValidationError

	for i := range w.Days {
		day := &w.Days[i]
		if !day.Active {
			continue
		}

		for j := range day.Slots {
			result := ValidateSlot(&day.Slots[j], day, hours, validActivityTypes)
			if result.HasError && firstErr == nil {
				firstErr = &ValidationError{
					DayKey:    day.Key,
					DayLabel:  day.Label,
					SlotIndex: j,
					Message:   result.Message,
				}
			}
		}

		if firstErr == nil && day.HasAnyOverlap() {
			firstErr = &ValidationError{
				DayKey:   day.Key,
				DayLabel: day.Label,
				Message:  "overlaps another time range",
			}
		}
	}

	if firstErr != nil {
		return firstErr
	}
	return nil
}
