package scheduling

import "time"

// Canonical string forms for persisted dates and times. Both the matcher
// and the booking record compare these strings directly, so every input
// must be normalized into these layouts before storage or comparison.
const (
	// DateLayout is the canonical calendar date form, e.g. "2026-09-14"
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical 24-hour time-of-day form, e.g. "09:00"
	TimeLayout = "15:04"
)

// CanonicalDate formats a time.Time as a canonical "YYYY-MM-DD" string
func CanonicalDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CanonicalTime formats a time.Time as a canonical "HH:MM" string
func CanonicalTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseDate parses a canonical "YYYY-MM-DD" string. The string must
// round-trip exactly; "2026-9-1" and other loose forms are rejected.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidDate reports whether s is a canonical "YYYY-MM-DD" date string
func ValidDate(s string) bool {
	t, err := ParseDate(s)
	if err != nil {
		return false
	}
	return CanonicalDate(t) == s
}

// ValidTime reports whether s is a canonical "HH:MM" 24-hour time string
func ValidTime(s string) bool {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return false
	}
	return CanonicalTime(t) == s
}

// ValidWindow reports whether start and end are canonical time strings
// with start strictly before end. Canonical "HH:MM" strings order
// lexicographically, so plain string comparison is correct here.
func ValidWindow(start, end string) bool {
	return ValidTime(start) && ValidTime(end) && start < end
}
