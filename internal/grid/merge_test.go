package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekgrid/internal/model"
)

// weekMonday is a fixed Monday used as the week origin in tests.
var weekMonday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return weekMonday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func testPeople(ids ...string) []model.Person {
	out := make([]model.Person, len(ids))
	for i, id := range ids {
		out[i] = model.Person{ID: id, DisplayName: id}
	}
	return out
}

func TestMergeWeekUnionsAttendees(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice", "bob"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {{PersonID: "alice", Start: at(0, 9, 0), End: at(0, 10, 0), Title: "X123 Analyse"}},
			"bob":   {{PersonID: "bob", Start: at(0, 9, 0), End: at(0, 10, 0), Title: "X123 Analyse"}},
		},
	}

	blocks := MergeWeek(in)
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, 0, b.DayIndex)
	assert.Equal(t, 540, b.Start)
	assert.Equal(t, 600, b.End)
	assert.Equal(t, "Analyse", b.Title)
	assert.Equal(t, []string{"alice", "bob"}, b.Attendees, "attendees follow configured people order")
}

func TestMergeWeekKeysOnRawTitle(t *testing.T) {
	// Two raw summaries that clean to the same display title must stay
	// separate blocks.
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice", "bob"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {{PersonID: "alice", Start: at(0, 9, 0), End: at(0, 10, 0), Title: "X123 Analyse"}},
			"bob":   {{PersonID: "bob", Start: at(0, 9, 0), End: at(0, 10, 0), Title: "Y456 Analyse"}},
		},
	}

	blocks := MergeWeek(in)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Analyse", blocks[0].Title)
	assert.Equal(t, "Analyse", blocks[1].Title)
	assert.Equal(t, []string{"alice"}, blocks[0].Attendees)
	assert.Equal(t, []string{"bob"}, blocks[1].Attendees)
}

func TestMergeWeekClipsToHourWindow(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {
				{PersonID: "alice", Start: at(0, 7, 0), End: at(0, 9, 30), Title: "Vroege les"},
				// Fully outside the window; clipping collapses it to zero.
				{PersonID: "alice", Start: at(1, 6, 0), End: at(1, 8, 0), Title: "Nachtwerk"},
			},
		},
	}

	blocks := MergeWeek(in)
	require.Len(t, blocks, 1)
	assert.Equal(t, 8*60, blocks[0].Start)
	assert.Equal(t, 9*60+30, blocks[0].End)
}

func TestMergeWeekDropsMalformed(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {
				{PersonID: "alice", Start: at(0, 10, 0), End: at(0, 10, 0), Title: "Zero"},
				{PersonID: "alice", Start: at(0, 11, 0), End: at(0, 10, 0), Title: "Backwards"},
			},
		},
	}
	assert.Empty(t, MergeWeek(in))
}

func TestMergeWeekSplitsAtMidnight(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 0, End: 24},
		People:       testPeople("alice"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {{PersonID: "alice", Start: at(0, 23, 0), End: at(1, 1, 0), Title: "Overnight"}},
		},
	}

	blocks := MergeWeek(in)
	require.Len(t, blocks, 2)
	assert.Equal(t, 0, blocks[0].DayIndex)
	assert.Equal(t, 23*60, blocks[0].Start)
	assert.Equal(t, 24*60, blocks[0].End)
	assert.Equal(t, 1, blocks[1].DayIndex)
	assert.Equal(t, 0, blocks[1].Start)
	assert.Equal(t, 60, blocks[1].End)
}

func TestMergeWeekDropsDaysOutsideView(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {
				{PersonID: "alice", Start: at(5, 10, 0), End: at(5, 11, 0), Title: "Zaterdag"},
				{PersonID: "alice", Start: at(-1, 10, 0), End: at(-1, 11, 0), Title: "Vorige week"},
			},
		},
	}
	assert.Empty(t, MergeWeek(in))

	in.WeekdaysOnly = false
	blocks := MergeWeek(in)
	require.Len(t, blocks, 1)
	assert.Equal(t, 5, blocks[0].DayIndex)
}

func TestMergeWeekSortsOutput(t *testing.T) {
	in := WeekInput{
		WeekStart:    weekMonday,
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       testPeople("alice"),
		WeekdaysOnly: true,
		Occurrences: map[string][]model.Occurrence{
			"alice": {
				{PersonID: "alice", Start: at(1, 9, 0), End: at(1, 10, 0), Title: "Dinsdag ochtend"},
				{PersonID: "alice", Start: at(0, 14, 0), End: at(0, 15, 0), Title: "Maandag middag"},
				{PersonID: "alice", Start: at(0, 9, 0), End: at(0, 10, 0), Title: "Maandag ochtend"},
			},
		},
	}

	blocks := MergeWeek(in)
	require.Len(t, blocks, 3)
	for i := 1; i < len(blocks); i++ {
		prev, cur := blocks[i-1], blocks[i]
		ok := prev.DayIndex < cur.DayIndex ||
			(prev.DayIndex == cur.DayIndex && prev.Start <= cur.Start)
		assert.True(t, ok, "blocks must be ordered by (day, start)")
	}
}
