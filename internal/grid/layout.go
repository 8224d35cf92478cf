package grid

import (
	"strings"

	"weekgrid/internal/model"
)

// Fixed layout constants shared with the drawing surface. SlotW is the
// pixel width of one 30-minute slot.
const (
	SlotW      = 34
	LeftLabelW = 120
	MinDayRowH = 120

	TitleH     = 34
	HeaderGapH = 12
	TimeRulerH = 24
	HeaderH    = TitleH + HeaderGapH + TimeRulerH

	LaneGap      = 6
	DayPad       = 16
	MinLaneH     = 32
	BaseLaneH    = 44
	TextLineH    = 16
	CardPadV     = 8
	CardTrimW    = 6
	MinCardW     = 40
	StripeW      = 5
	MaxStripes   = 4
	CardInnerPad = 16

	TitleFontSize  = 12
	SmallFontSize  = 11
	LegendFontSize = 13

	BadgeW   = 14
	BadgeH   = 12
	BadgeGap = 8

	ChipW        = 14
	ChipH        = 14
	ChipGapX     = 12
	ChipGapY     = 8
	LegendLeft   = 70
	LegendTopPad = 12
)

// badgePriority orders role tags for picking the single badge shown on a
// card and for the legend's type band.
var badgePriority = []string{
	"hoorcollege", "practicum", "werkcollege", "workshop",
	"seminar", "tutorial", "lecture", "les", "lab",
}

var badgeLetters = map[string]string{
	"hoorcollege": "H",
	"practicum":   "P",
	"werkcollege": "W",
	"workshop":    "S",
	"seminar":     "S",
	"tutorial":    "T",
	"lecture":     "L",
	"les":         "L",
	"lab":         "L",
}

// BadgeFor picks the badge letter for a block's tag set, highest priority
// first. Empty string means no badge.
func BadgeFor(tags []string) string {
	for _, k := range badgePriority {
		if containsString(tags, k) {
			return badgeLetters[k]
		}
	}
	return ""
}

// usedBadges returns the badge keys present anywhere in the blocks, in
// priority order.
func usedBadges(blocks []PackedBlock) []string {
	present := make(map[string]bool)
	for _, b := range blocks {
		for _, t := range b.Tags {
			if _, ok := badgeLetters[strings.ToLower(t)]; ok {
				present[strings.ToLower(t)] = true
			}
		}
	}
	var out []string
	for _, k := range badgePriority {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

// Sizer computes the dynamic pixel geometry of a week render. It only
// consumes the drawing surface's text measurement; it never draws.
type Sizer struct {
	Measure TextMeasurer
	Hours   model.HourWindow
}

// Size computes per-day lane heights, day row heights and offsets, legend
// geometry and the total canvas size for the given packed blocks.
//
// labels is the ordered list of person labels for the legend; labelOf maps
// a person ID to its label for the attendee-line estimate.
func (s Sizer) Size(blocks []PackedBlock, laneCounts []int, labels []string, labelOf map[string]string) CanvasGeometry {
	width := LeftLabelW + SlotW*s.Hours.Slots() + 1

	days := len(laneCounts)
	geo := CanvasGeometry{
		Width:   width,
		HeaderH: HeaderH,
		DayTops: make([]int, days),
		Days:    make([]DayLayout, days),
	}

	y := HeaderH
	for d := 0; d < days; d++ {
		lanes := laneCounts[d]
		if lanes < 1 {
			lanes = 1
		}

		laneH := BaseLaneH
		for _, b := range blocks {
			if b.DayIndex != d {
				continue
			}
			if h := s.requiredCardH(b, labelOf); h > laneH {
				laneH = h
			}
		}

		rowH := DayPad + lanes*laneH + (lanes-1)*LaneGap
		if rowH < MinDayRowH {
			rowH = MinDayRowH
		}

		// The height actually available per lane inside the row.
		drawLaneH := (rowH - DayPad - (lanes-1)*LaneGap) / lanes
		if drawLaneH < MinLaneH {
			drawLaneH = MinLaneH
		}

		geo.DayTops[d] = y
		geo.Days[d] = DayLayout{LaneCount: lanes, LaneHeight: drawLaneH, RowHeight: rowH}
		y += rowH
	}

	geo.Legend = s.legendLayout(blocks, labels, width)
	geo.Height = y + geo.Legend.Height
	return geo
}

// requiredCardH estimates the minimum lane height for one block: two text
// lines (title + time) always, a third when the truncated attendee list
// fits the card's inner width.
func (s Sizer) requiredCardH(b PackedBlock, labelOf map[string]string) int {
	cardW := (b.Duration()*SlotW)/30 - CardTrimW
	if cardW < MinCardW {
		cardW = MinCardW
	}

	stripes := len(b.Attendees)
	if stripes > MaxStripes {
		stripes = MaxStripes
	}
	innerMax := cardW - stripes*StripeW - CardInnerPad

	lines := 2
	if len(b.Attendees) > 0 {
		shown := innerMax / 60
		if shown < 1 {
			shown = 1
		}
		if shown > len(b.Attendees) {
			shown = len(b.Attendees)
		}
		names := make([]string, shown)
		for i := 0; i < shown; i++ {
			names[i] = labelFor(labelOf, b.Attendees[i])
		}
		who := strings.Join(names, ", ")
		if s.Measure.TextWidth(who, SmallFontSize) <= innerMax {
			lines = 3
		}
	}
	return CardPadV + lines*TextLineH
}

// legendLayout wraps person chips left to right within the canvas width to
// count legend rows, and sizes the type-badge band from measured labels.
func (s Sizer) legendLayout(blocks []PackedBlock, labels []string, width int) LegendLayout {
	var lg LegendLayout
	lg.UsedBadges = usedBadges(blocks)

	if len(labels) > 0 {
		rows := 1
		x := LegendLeft
		for _, lbl := range labels {
			needed := ChipW + 6 + s.Measure.TextWidth(lbl, LegendFontSize) + ChipGapX
			if x+needed > width-10 {
				rows++
				x = LegendLeft
			}
			x += needed
		}
		lg.UserRows = rows
		lg.UsersH = LegendTopPad + rows*(ChipH+ChipGapY) + 10
	}

	if len(lg.UsedBadges) > 0 {
		lg.TypesH = BadgeH + 10
		w := 60
		for _, k := range lg.UsedBadges {
			w += s.Measure.TextWidth(k, SmallFontSize) + BadgeW + 24
		}
		lg.TypesW = w
	}

	lg.Height = lg.UsersH + lg.TypesH
	return lg
}

func labelFor(labelOf map[string]string, id string) string {
	if l, ok := labelOf[id]; ok && l != "" {
		return l
	}
	return id
}
