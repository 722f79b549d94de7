package scheduling

import (
	"time"

	"github.com/glowbook/glowbook-api/models"
)

// The availability matcher answers, for a provider's weekly windows and a
// candidate date, whether the provider is open that day and which time
// slots are offered. It is a pure function over already-fetched windows:
// no I/O, no errors. Malformed windows (bad day numbers, unparseable
// times, start >= end) are skipped as if inactive, so bad data degrades
// to "unavailable" instead of failing the caller.

// IsDateAvailable reports whether the provider accepts bookings on the
// given canonical "YYYY-MM-DD" date. Dates strictly before today (by
// date-only comparison against now) are never available, regardless of
// window configuration.
func IsDateAvailable(windows []models.AvailabilityWindow, date string, now time.Time) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	if date < CanonicalDate(now) {
		return false
	}
	return windowFor(windows, int(d.Weekday())) != nil
}

// TimeSlotsFor returns the offered time slots for the given date, or an
// empty slice when the provider is not open that day. One slot per window
// is offered: the window's start time. Callers wanting finer granularity
// can expand a window with GenerateSlots, but the single-slot form is the
// behavior the booking flow relies on.
func TimeSlotsFor(windows []models.AvailabilityWindow, date string, now time.Time) []string {
	if !IsDateAvailable(windows, date, now) {
		return []string{}
	}
	d, _ := ParseDate(date)
	w := windowFor(windows, int(d.Weekday()))
	if w == nil {
		return []string{}
	}
	return []string{w.StartTime}
}

// WindowForDate returns the active window matching the date's weekday, or
// nil when there is none. Unlike IsDateAvailable it does not apply the
// past-date cutoff; it only resolves the weekly schedule.
func WindowForDate(windows []models.AvailabilityWindow, date string) *models.AvailabilityWindow {
	d, err := ParseDate(date)
	if err != nil {
		return nil
	}
	return windowFor(windows, int(d.Weekday()))
}

// GenerateSlots expands a window into consecutive slots of the given
// duration: start, start+d, ... while the slot still fits inside
// [start, end). Returns nil for malformed windows or non-positive
// durations.
func GenerateSlots(w models.AvailabilityWindow, durationMinutes int) []string {
	if durationMinutes <= 0 || !ValidWindow(w.StartTime, w.EndTime) {
		return nil
	}
	start, _ := time.Parse(TimeLayout, w.StartTime)
	end, _ := time.Parse(TimeLayout, w.EndTime)

	var slots []string
	step := time.Duration(durationMinutes) * time.Minute
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		slots = append(slots, CanonicalTime(t))
	}
	return slots
}

// windowFor picks the first active, well-formed window for a weekday.
// The save path rejects duplicate weekdays, so at most one row matches.
func windowFor(windows []models.AvailabilityWindow, weekday int) *models.AvailabilityWindow {
	for i := range windows {
		w := &windows[i]
		if !w.IsActive {
			continue
		}
		if w.DayOfWeek != weekday || w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			continue
		}
		if !ValidWindow(w.StartTime, w.EndTime) {
			continue
		}
		return w
	}
	return nil
}
