package domain

import (
	"sort"
	"time"

	"stride/pkg/timeutil"
)

// TimeSlot is one contiguous time range on one weekday. Start and End hold
// "HH:MM" strings exactly as entered; they are normalized only for
// comparisons. The unexported fields track an in-progress edit session and
// are never persisted.
type TimeSlot struct {
	Start          string `json:"start_time"`
	End            string `json:"end_time"`
	ActivityTypeID int64  `json:"activity_type_id,omitempty"`
	IsNew          bool   `json:"is_new,omitempty"`
	HasError       bool   `json:"has_error,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`

	editing            bool
	prevStart          string
	prevEnd            string
	prevActivityTypeID int64
}

// BeginEdit opens an edit session and snapshots the current values. A second
// call during the same session is a no-op, so re-focusing a half-edited slot
// cannot overwrite the snapshot with an already-modified value.
func (s *TimeSlot) BeginEdit() {
	if s.editing {
		return
	}
	s.editing = true
	s.prevStart = s.Start
	s.prevEnd = s.End
	s.prevActivityTypeID = s.ActivityTypeID
}

// CommitEdit closes the edit session, keeping the current values.
func (s *TimeSlot) CommitEdit() {
	s.editing = false
	s.prevStart = ""
	s.prevEnd = ""
	s.prevActivityTypeID = 0
}

// Revert closes the edit session and restores the snapshot taken by BeginEdit.
func (s *TimeSlot) Revert() {
	if !s.editing {
		return
	}
	s.Start = s.prevStart
	s.End = s.prevEnd
	s.ActivityTypeID = s.prevActivityTypeID
	s.CommitEdit()
}

// Editing reports whether an edit session is open on the slot.
func (s *TimeSlot) Editing() bool {
	return s.editing
}

// IsBlank reports whether both times are still empty (an untouched slot).
func (s *TimeSlot) IsBlank() bool {
	return s.Start == "" && s.End == ""
}

// minuteRange returns the slot's times as minutes of the day. ok is false
// when either time is missing or malformed, or the range is empty.
func (s *TimeSlot) minuteRange() (start, end int, ok bool) {
	if s.Start == "" || s.End == "" {
		return 0, 0, false
	}
	start, err := timeutil.ToMinutes(s.Start)
	if err != nil {
		return 0, 0, false
	}
	end, err = timeutil.ToMinutes(s.End)
	if err != nil {
		return 0, 0, false
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// rangesOverlap is the single overlap test shared by every detection path:
// half-open intervals, so a range ending at 10:00 does not overlap one
// starting at 10:00.
func rangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// DaySchedule owns the set of slots for one weekday.
type DaySchedule struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Active bool       `json:"active"`
	Slots  []TimeSlot `json:"slots"`
}

func NewDaySchedule(key string) DaySchedule {
	return DaySchedule{
		Key:   key,
		Label: timeutil.WeekdayLabels[key],
	}
}

// ToggleActive flips the day on or off. Turning the day on with no slots
// seeds one blank slot; turning it off discards all slots. Deactivation does
// not retain slots for later reactivation.
func (d *DaySchedule) ToggleActive() {
	d.Active = !d.Active
	if d.Active {
		if len(d.Slots) == 0 {
			d.AddSlot()
		}
		return
	}
	d.Slots = nil
}

// AddSlot appends a blank slot to the day.
func (d *DaySchedule) AddSlot() {
	d.Slots = append(d.Slots, TimeSlot{IsNew: true})
}

// RemoveSlot removes the slot at index. Out-of-range indexes are ignored.
func (d *DaySchedule) RemoveSlot(index int) {
	if index < 0 || index >= len(d.Slots) {
		return
	}
	d.Slots = append(d.Slots[:index], d.Slots[index+1:]...)
}

// Overlaps reports whether candidate overlaps any other slot of the day with
// a valid time range. Used for live per-slot feedback.
func (d *DaySchedule) Overlaps(candidate *TimeSlot) bool {
	cStart, cEnd, ok := candidate.minuteRange()
	if !ok {
		return false
	}

	for i := range d.Slots {
		other := &d.Slots[i]
		if other == candidate {
			continue
		}
		oStart, oEnd, ok := other.minuteRange()
		if !ok {
			continue
		}
		if rangesOverlap(cStart, cEnd, oStart, oEnd) {
			return true
		}
	}

	return false
}

// HasAnyOverlap is the authoritative pre-save overlap gate: it sorts the
// day's valid ranges by start time and checks adjacent pairs.
func (d *DaySchedule) HasAnyOverlap() bool {
	type span struct{ start, end int }

	var spans []span
	for i := range d.Slots {
		if start, end, ok := d.Slots[i].minuteRange(); ok {
			spans = append(spans, span{start, end})
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	for i := 1; i < len(spans); i++ {
		if rangesOverlap(spans[i-1].start, spans[i-1].end, spans[i].start, spans[i].end) {
			return true
		}
	}

	return false
}

// ChangedRange is a time range that existed in the last-committed schedule
// and is absent or modified in the working copy. Computed on demand at save
// time, never stored.
type ChangedRange struct {
	DayKey   string `json:"day_key"`
	DayLabel string `json:"day_label"`
	OldStart string `json:"old_start"`
	OldEnd   string `json:"old_end"`
}

// ScheduleMeta is the persisted per-instructor schedule state outside the
// day shape itself: the editing window and the committed version counter.
type ScheduleMeta struct {
	AllowEdit           bool       `json:"allow_edit"`
	Version             int64      `json:"version"`
	EditWindowExpiresAt *time.Time `json:"edit_window_expires_at,omitempty"`
}

// WeeklyAvailability aggregates the seven day schedules, Sunday first, plus a
// deep copy of the last-committed state used purely for diffing.
type WeeklyAvailability struct {
	Days      []DaySchedule `json:"days"`
	AllowEdit bool          `json:"allow_edit"`
	Version   int64         `json:"version"`

	original []DaySchedule
	dirty    bool
}

// NewWeeklyAvailability returns an all-inactive week with no slots, the
// default shape for an instructor who has never saved a schedule.
func NewWeeklyAvailability() *WeeklyAvailability {
	days := make([]DaySchedule, 0, len(timeutil.WeekdayKeys))
	for _, key := range timeutil.WeekdayKeys {
		days = append(days, NewDaySchedule(key))
	}
	return &WeeklyAvailability{Days: days}
}

// SetWorkingDays replaces the working copy, keyed into schedule order. Days
// missing from the input stay inactive.
func (w *WeeklyAvailability) SetWorkingDays(days []DaySchedule) {
	for _, in := range days {
		if day := w.Day(in.Key); day != nil {
			day.Active = in.Active
			day.Slots = append([]TimeSlot(nil), in.Slots...)
			if !day.Active {
				day.Slots = nil
			}
		}
	}
	w.dirty = true
}

// SetOriginal records the last-committed state the diff compares against.
func (w *WeeklyAvailability) SetOriginal(days []DaySchedule) {
	w.original = cloneDays(days)
}

// Day returns the schedule for a weekday key, or nil for an unknown key.
func (w *WeeklyAvailability) Day(key string) *DaySchedule {
	for i := range w.Days {
		if w.Days[i].Key == key {
			return &w.Days[i]
		}
	}
	return nil
}

// MarkDirty flags the week as having uncommitted changes.
func (w *WeeklyAvailability) MarkDirty() {
	w.dirty = true
}

// Dirty reports whether the working copy has uncommitted changes.
func (w *WeeklyAvailability) Dirty() bool {
	return w.dirty
}

// Diff lists every committed time range that the working copy no longer
// carries. A day that flipped from active to inactive contributes all of its
// former slots. Activity-type changes alone do not count: impact is assessed
// by time window, so only start/end identity matters.
func (w *WeeklyAvailability) Diff() []ChangedRange {
	var changed []ChangedRange

	for i := range w.original {
		origDay := &w.original[i]
		if !origDay.Active {
			continue
		}

		workDay := w.Day(origDay.Key)
		dayDropped := workDay == nil || !workDay.Active

		for j := range origDay.Slots {
			origStart, origEnd, ok := normalizedRange(&origDay.Slots[j])
			if !ok {
				continue
			}

			if !dayDropped && hasSlotWithRange(workDay, origStart, origEnd) {
				continue
			}

			changed = append(changed, ChangedRange{
				DayKey:   origDay.Key,
				DayLabel: origDay.Label,
				OldStart: origStart,
				OldEnd:   origEnd,
			})
		}
	}

	return changed
}

// MarkCommitted deep-copies the working state into the committed original and
// clears the dirty flag. Called only after a successful persist.
func (w *WeeklyAvailability) MarkCommitted() {
	w.original = cloneDays(w.Days)
	w.dirty = false
}

// Original returns the last-committed days. Exposed for tests and the commit
// atomicity check.
func (w *WeeklyAvailability) Original() []DaySchedule {
	return w.original
}

func normalizedRange(slot *TimeSlot) (start, end string, ok bool) {
	startMin, endMin, ok := slot.minuteRange()
	if !ok {
		return "", "", false
	}
	return timeutil.FromMinutes(startMin), timeutil.FromMinutes(endMin), true
}

func hasSlotWithRange(day *DaySchedule, start, end string) bool {
	for i := range day.Slots {
		s, e, ok := normalizedRange(&day.Slots[i])
		if ok && s == start && e == end {
			return true
		}
	}
	return false
}

func cloneDays(days []DaySchedule) []DaySchedule {
	cloned := make([]DaySchedule, len(days))
	for i, day := range days {
		cloned[i] = day
		cloned[i].Slots = append([]TimeSlot(nil), day.Slots...)
	}
	return cloned
}
