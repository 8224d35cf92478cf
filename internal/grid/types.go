// Package grid is the core aggregation and layout engine for the shared
// weekly timetable: it merges per-person occurrences into shared blocks,
// packs each day's blocks into non-overlapping lanes, assigns distinct
// person colors, and computes the pixel geometry handed to the drawing
// surface.
//
// Everything in this package is a pure function of its inputs; identical
// input always yields identical blocks, lanes, colors and geometry.
package grid

import (
	"time"

	"weekgrid/internal/model"
)

// MergedBlock is a day-clipped, deduplicated occurrence shared by one or
// more people. Start and End are minutes from midnight in display time,
// already clipped to the visible-hours window.
type MergedBlock struct {
	DayIndex int
	Start    int
	End      int

	Title string
	Tags  []string

	// Attendees holds person IDs without duplicates. After packing the
	// resolved owner is listed first.
	Attendees []string
}

// Duration returns the block length in minutes.
func (b MergedBlock) Duration() int {
	return b.End - b.Start
}

// Overlaps reports whether two blocks occupy intersecting [Start, End)
// intervals on the same day.
func (b MergedBlock) Overlaps(o MergedBlock) bool {
	return b.DayIndex == o.DayIndex && b.Start < o.End && o.Start < b.End
}

// PackedBlock is a MergedBlock with its resolved lane assignment.
type PackedBlock struct {
	MergedBlock

	Lane       int
	LanesInDay int
}

// DayLayout is the computed vertical geometry of one day row.
type DayLayout struct {
	LaneCount  int
	LaneHeight int
	RowHeight  int
}

// LegendLayout is the geometry of the legend band below the schedule.
type LegendLayout struct {
	UserRows   int
	UsersH     int
	TypesH     int
	TypesW     int
	Height     int
	UsedBadges []string // badge keys present in the week, in priority order
}

// CanvasGeometry is the aggregate pixel geometry of the rendered week.
type CanvasGeometry struct {
	Width  int
	Height int

	HeaderH int
	// DayTops[d] is the y offset of day row d; len equals the number of
	// visible days.
	DayTops []int
	Days    []DayLayout
	Legend  LegendLayout
}

// TextMeasurer reports the pixel width of a string at a given font size.
// The implementation lives with the drawing surface; the layout sizer only
// consumes it.
type TextMeasurer interface {
	TextWidth(s string, size int) int
}

// WeekInput is everything one render request needs. It is assembled by the
// caller from the calendar source provider's output and never mutated by
// the pipeline.
type WeekInput struct {
	// WeekStart is midnight on Monday of the target week, in display time.
	WeekStart time.Time

	Hours model.HourWindow

	// People in configured order; the order is the deterministic tie-break
	// for dominance ranking and color assignment.
	People []model.Person

	// Occurrences maps person ID to that person's raw occurrences. A person
	// with no data (or a failed fetch) simply maps to an empty list.
	Occurrences map[string][]model.Occurrence

	// WeekdaysOnly restricts the visible days to Monday..Friday.
	WeekdaysOnly bool
}

// Days returns the number of visible day rows.
func (in WeekInput) Days() int {
	if in.WeekdaysOnly {
		return 5
	}
	return 7
}

// WeekLayout is the pipeline output handed to the drawing surface.
type WeekLayout struct {
	Blocks []PackedBlock
	Colors map[string]HSL    // person label -> color
	Labels map[string]string // person ID -> label

	// LabelList holds the labels in configured people order, for the
	// legend.
	LabelList []string

	Geometry CanvasGeometry
}

// Empty reports whether the week has no blocks at all; the drawing surface
// renders a bare grid in that case.
func (w WeekLayout) Empty() bool {
	return len(w.Blocks) == 0
}
