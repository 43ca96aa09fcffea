package scheduling

import (
	"fmt"
	"time"
)

// Clinic-wide working window. Every doctor shares the same bookable grid;
// a doctor's declared availability markers do not alter it.
const (
	WorkDayStart    = 9 * time.Hour
	WorkDayEnd      = 17 * time.Hour
	SlotGranularity = time.Hour
)

// TimeOfDay is a clock time within a single day, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayOf extracts the clock time from an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// At anchors the clock time on the given calendar day.
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// GenerateSlots produces every granularity-aligned slot start in [workStart,
// workEnd): a slot is included only when slot+granularity still fits inside
// the window. Both bounds are offsets from midnight.
func GenerateSlots(workStart, workEnd, granularity time.Duration) []TimeOfDay {
	if granularity <= 0 || workEnd <= workStart {
		return nil
	}
	var slots []TimeOfDay
	for at := workStart; at+granularity <= workEnd; at += granularity {
		slots = append(slots, TimeOfDay{
			Hour:   int(at / time.Hour),
			Minute: int(at % time.Hour / time.Minute),
		})
	}
	return slots
}

// Slots returns the clinic's canonical grid: 09:00 through 16:00, hourly.
func Slots() []TimeOfDay {
	return GenerateSlots(WorkDayStart, WorkDayEnd, SlotGranularity)
}

// dayRange returns the inclusive [00:00:00, 23:59:59] bounds of the given day.
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.Add(24*time.Hour - time.Second)
}

// DayKey renders a calendar day as the canonical lock-key fragment.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}
