package domain

import (
	"errors"
	"fmt"
)

// ErrScheduleLocked is returned when an instructor tries to change a schedule
// whose editing window is closed. A coordinator has to grant a new window.
var ErrScheduleLocked = errors.New("schedule is locked for editing")

// ValidationError blocks the save transition. It points at the first
// offending slot of the week.
type ValidationError struct {
	DayKey    string `json:"day_key"`
	DayLabel  string `json:"day_label"`
	SlotIndex int    `json:"slot_index"`
	Message   string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.DayLabel, e.Message)
}

// ConfirmationRequiredError pauses the commit: the proposed change would
// invalidate existing bookings and the user has to confirm before the
// schedule is persisted.
type ConfirmationRequiredError struct {
	AffectedCount int            `json:"affected_count"`
	Ranges        []ChangedRange `json:"ranges"`
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("change affects %d booked parties, confirmation required", e.AffectedCount)
}
