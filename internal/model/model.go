package model

import (
	"strings"
	"time"
)

// Person is one member of the shared timetable group. The order of the
// people list in config is meaningful: it is used as the deterministic
// tie-break for lane ownership and color assignment.
type Person struct {
	ID          string
	DisplayName string
	Initials    string
}

// Label returns the short label drawn on blocks and in the legend.
// Explicit initials win; otherwise they are derived from the display name.
func (p Person) Label() string {
	if s := strings.TrimSpace(p.Initials); s != "" {
		return s
	}
	return InitialsFromName(p.DisplayName)
}

// InitialsFromName derives a two-letter label from a display name:
// a single word yields its first two letters, multiple words yield the
// first letter of the first and last word.
func InitialsFromName(displayName string) string {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return "??"
	}
	if len(parts) == 1 {
		r := []rune(parts[0])
		if len(r) == 1 {
			return strings.ToUpper(string(r[0]))
		}
		return strings.ToUpper(string(r[:2]))
	}
	first := []rune(parts[0])
	last := []rune(parts[len(parts)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}

// Occurrence is a single concrete calendar event instance for one person,
// as supplied by the calendar source provider (after recurrence expansion
// and timezone normalization).
type Occurrence struct {
	PersonID string

	// Start / End are instants in the configured display timezone.
	Start time.Time
	End   time.Time

	// Title is the raw, uncleaned summary text.
	Title string
}

// HourWindow is the visible [Start, End) hour range of a day,
// e.g. {8, 22} shows 08:00 through 22:00.
type HourWindow struct {
	Start int
	End   int
}

// Minutes returns the window length in minutes.
func (w HourWindow) Minutes() int {
	return (w.End - w.Start) * 60
}

// Slots returns the number of 30-minute slots in the window.
func (w HourWindow) Slots() int {
	return (w.End - w.Start) * 2
}
