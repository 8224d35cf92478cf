package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekgrid/internal/grid"
	"weekgrid/internal/model"
)

func TestMeasurerTextWidth(t *testing.T) {
	m := Measurer{}
	assert.Equal(t, 0, m.TextWidth("", 12))
	assert.Equal(t, 28, m.TextWidth("abcd", 12))
	assert.Equal(t, m.TextWidth("één", 12), m.TextWidth("een", 12), "runes count, not bytes")
}

func testLayout() grid.WeekLayout {
	in := grid.WeekInput{
		WeekStart: weekMonday(),
		Hours:     model.HourWindow{Start: 8, End: 22},
		People: []model.Person{
			{ID: "alice", DisplayName: "Alice Jones"},
			{ID: "bob", DisplayName: "Bob de Vries"},
		},
		Occurrences: map[string][]model.Occurrence{
			"alice": {{
				PersonID: "alice",
				Start:    weekMonday().Add(9 * time.Hour),
				End:      weekMonday().Add(11 * time.Hour),
				Title:    "X123 Analyse & meer hoorcollege",
			}},
			"bob": {{
				PersonID: "bob",
				Start:    weekMonday().Add(9 * time.Hour),
				End:      weekMonday().Add(11 * time.Hour),
				Title:    "X123 Analyse & meer hoorcollege",
			}},
		},
		WeekdaysOnly: true,
	}
	return grid.BuildWeek(in, Measurer{})
}

func TestWeekSVG(t *testing.T) {
	w := testLayout()
	svg := WeekSVG(w, Options{
		GroupName:    "Studiegroep",
		WeekStartISO: "2026-01-05",
		Members:      2,
		Hours:        model.HourWindow{Start: 8, End: 22},
	})

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	assert.Contains(t, svg, "</svg>")
	assert.Contains(t, svg, "Studiegroep — Week of 2026-01-05")
	assert.Contains(t, svg, "2 members")

	// The shared block: escaped title, full time range, both stripes.
	assert.Contains(t, svg, "Analyse &amp; meer")
	assert.NotContains(t, svg, "Analyse & meer", "raw ampersands must never reach the markup")
	assert.Contains(t, svg, "09:00–11:00")
	assert.Equal(t, 2, strings.Count(svg, `width="4"`), "one stripe per attendee")

	// Legend: person chips and the badge type band.
	assert.Contains(t, svg, ">Users:<")
	assert.Contains(t, svg, ">AJ<")
	assert.Contains(t, svg, ">BV<")
	assert.Contains(t, svg, ">Types:<")
	assert.Contains(t, svg, ">hoorcollege<")

	// Day labels for the weekday view only.
	for _, d := range []string{"Mon", "Tue", "Wed", "Thu", "Fri"} {
		assert.Contains(t, svg, ">"+d+"<")
	}
	assert.NotContains(t, svg, ">Sat<")
}

func TestWeekSVGDeterministic(t *testing.T) {
	opts := Options{GroupName: "Studiegroep", WeekStartISO: "2026-01-05", Members: 2, Hours: model.HourWindow{Start: 8, End: 22}}
	assert.Equal(t, WeekSVG(testLayout(), opts), WeekSVG(testLayout(), opts))
}

func TestWeekSVGEmptyWeek(t *testing.T) {
	in := grid.WeekInput{
		WeekStart:    weekMonday(),
		Hours:        model.HourWindow{Start: 8, End: 22},
		People:       []model.Person{{ID: "alice", DisplayName: "Alice Jones"}},
		WeekdaysOnly: true,
	}
	w := grid.BuildWeek(in, Measurer{})
	require.True(t, w.Empty())

	svg := WeekSVG(w, Options{GroupName: "Studiegroep", WeekStartISO: "2026-01-05", Members: 1, Hours: model.HourWindow{Start: 8, End: 22}})
	assert.Contains(t, svg, "</svg>", "an empty week still renders the bare grid")
	assert.NotContains(t, svg, `rx="8"`, "no event cards")
	assert.Contains(t, svg, ">AJ<", "legend chips appear even without blocks")
}

func TestFitText(t *testing.T) {
	m := Measurer{}

	assert.Equal(t, "", fitText(m, "", 12, 100))
	assert.Equal(t, "kort", fitText(m, "kort", 12, 100))

	long := strings.Repeat("x", 50)
	got := fitText(m, long, 12, 100)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, m.TextWidth(got, 12), 100)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "08:05", clock(8*60+5))
	assert.Equal(t, "24:00", clock(24*60))
}

func weekMonday() time.Time {
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
}
