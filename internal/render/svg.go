// Package render is the raster-facing drawing surface: it turns the grid
// engine's packed blocks, colors and geometry into an SVG document and
// provides the text measurement the layout sizer consumes.
package render

import (
	"fmt"
	"strings"

	"weekgrid/internal/grid"
	"weekgrid/internal/model"
)

var dayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Measurer estimates text width from character count; an average glyph is
// about 0.6 of the font size for the UI font stack in use.
type Measurer struct{}

func (Measurer) TextWidth(s string, size int) int {
	return int(float64(len([]rune(s))) * float64(size) * 0.6)
}

// Options carry the request-level presentation inputs that are not part
// of the layout itself.
type Options struct {
	GroupName    string
	WeekStartISO string
	Members      int
	Hours        model.HourWindow
}

// WeekSVG renders a complete week image: background, title, time ruler,
// day rows, event cards with attendee stripes and role badges, and the
// legend. The geometry is taken verbatim from the layout; no sizing
// decisions are made here.
func WeekSVG(w grid.WeekLayout, opts Options) string {
	geo := w.Geometry
	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg" font-family="system-ui, Arial">
<rect width="100%%" height="100%%" fill="#0f1115"/>
`, geo.Width, geo.Height))

	plural := "s"
	if opts.Members == 1 {
		plural = ""
	}
	title := fmt.Sprintf("%s — Week of %s  •  %d member%s", opts.GroupName, opts.WeekStartISO, opts.Members, plural)
	svg.WriteString(fmt.Sprintf(`<text x="10" y="24" font-size="18" font-weight="bold" fill="#ffffff">%s</text>`+"\n", escapeXML(title)))

	scheduleH := 0
	for _, d := range geo.Days {
		scheduleH += d.RowHeight
	}

	// Time ruler and vertical slot lines.
	for s := 0; s <= opts.Hours.Slots(); s++ {
		x := grid.LeftLabelW + s*grid.SlotW
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#263040" stroke-width="1"/>`+"\n",
			x, geo.HeaderH, x, geo.HeaderH+scheduleH))
		if s%2 == 0 && s < opts.Hours.Slots() {
			hour := opts.Hours.Start + s/2
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" fill="#94a3b8">%02d:00</text>`+"\n",
				x+4, geo.HeaderH-6, hour))
		}
	}

	// Day separators and labels.
	for d, top := range geo.DayTops {
		svg.WriteString(fmt.Sprintf(`<line x1="0" y1="%d" x2="%d" y2="%d" stroke="#263040" stroke-width="1"/>`+"\n",
			top, geo.Width, top))
		svg.WriteString(fmt.Sprintf(`<text x="12" y="%d" font-size="14" font-weight="bold" fill="#cbd5e1">%s</text>`+"\n",
			top+22, dayLabels[d]))
	}

	m := Measurer{}
	for _, b := range w.Blocks {
		drawCard(&svg, w, b, opts, m)
	}

	drawLegend(&svg, w, scheduleH)

	svg.WriteString("</svg>\n")
	return svg.String()
}

func drawCard(svg *strings.Builder, w grid.WeekLayout, b grid.PackedBlock, opts Options, m grid.TextMeasurer) {
	geo := w.Geometry
	day := geo.Days[b.DayIndex]

	startMin := b.Start - opts.Hours.Start*60
	x := grid.LeftLabelW + (startMin*grid.SlotW)/30 + 3
	cw := (b.Duration() * grid.SlotW) / 30 - grid.CardTrimW
	if cw < 12 {
		cw = 12
	}
	y := geo.DayTops[b.DayIndex] + 8 + b.Lane*(day.LaneHeight+grid.LaneGap)
	h := day.LaneHeight

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="8" fill="rgba(203,213,225,0.22)" stroke="#1f2937" stroke-width="1.1"/>`+"\n",
		x, y, cw, h))

	// Attendee color stripes along the left edge.
	for i, id := range b.Attendees {
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="4" height="%d" fill="%s"/>`+"\n",
			x+i*grid.StripeW, y, h, colorFor(w, id)))
	}

	innerX := x + len(b.Attendees)*grid.StripeW + 8
	maxTextW := cw - (innerX - x) - (grid.BadgeW + grid.BadgeGap + 6)
	if maxTextW < 12 {
		maxTextW = 12
	}

	// Title in the owner's color; the owner is the first attendee.
	owner := ""
	if len(b.Attendees) > 0 {
		owner = b.Attendees[0]
	}
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" font-weight="bold" fill="%s">%s</text>`+"\n",
		innerX, y+14, colorFor(w, owner), escapeXML(fitText(m, b.Title, grid.TitleFontSize, maxTextW))))

	// Full time range, never truncated.
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="11" fill="#94a3b8">%s–%s</text>`+"\n",
		innerX, y+28, clock(b.Start), clock(b.End)))

	badge := grid.BadgeFor(b.Tags)
	if badge != "" {
		bx := x + cw - grid.BadgeW - 6
		by := y + 4
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="rgba(11,18,32,0.18)"/>`+"\n",
			bx, by, grid.BadgeW, grid.BadgeH))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" text-anchor="middle" fill="rgba(203,213,225,0.65)">%s</text>`+"\n",
			bx+grid.BadgeW/2, by+grid.BadgeH-3, badge))
	}

	// Attendee labels, with a "+N" suffix when space runs out.
	if h >= 40 && len(b.Attendees) > 0 {
		shown := maxTextW / 60
		if shown < 1 {
			shown = 1
		}
		if shown > len(b.Attendees) {
			shown = len(b.Attendees)
		}
		names := make([]string, shown)
		for i := 0; i < shown; i++ {
			names[i] = labelOf(w, b.Attendees[i])
		}
		who := strings.Join(names, ", ")
		if extra := len(b.Attendees) - shown; extra > 0 {
			who += fmt.Sprintf(" +%d", extra)
		}
		attY := y + 42
		if badge != "" {
			attY = y + 44
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="11" fill="#e2e8f0">%s</text>`+"\n",
			innerX, attY, escapeXML(fitText(m, who, grid.SmallFontSize, maxTextW))))
	}
}

func drawLegend(svg *strings.Builder, w grid.WeekLayout, scheduleH int) {
	geo := w.Geometry
	lg := geo.Legend
	if lg.Height == 0 {
		return
	}

	m := Measurer{}
	legendY := geo.HeaderH + scheduleH + 18

	// Person chips in people order, wrapped left to right.
	labels := dedupeLabels(w.LabelList)
	if len(labels) > 0 {
		svg.WriteString(fmt.Sprintf(`<text x="10" y="%d" font-size="12" font-weight="bold" fill="#94a3b8">Users:</text>`+"\n",
			legendY+10))

		maxX := geo.Width - lg.TypesW - 40
		lx, ly := 60, legendY
		for _, lbl := range labels {
			needed := grid.ChipW + 6 + m.TextWidth(lbl, grid.LegendFontSize) + grid.ChipGapX
			if lx+needed > maxX {
				lx = 60
				ly += grid.ChipH + grid.ChipGapY
			}
			col := grid.FallbackColor
			if c, ok := w.Colors[lbl]; ok {
				col = c
			}
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				lx, ly, grid.ChipW, grid.ChipH, col))
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" fill="#94a3b8">%s</text>`+"\n",
				lx+grid.ChipW+6, ly+11, escapeXML(lbl)))
			lx += needed
		}
	}

	// Role-type badges, right-aligned, only for types used this week.
	if len(lg.UsedBadges) > 0 {
		lx := geo.Width - lg.TypesW
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="12" font-weight="bold" fill="#94a3b8">Types:</text>`+"\n",
			lx, legendY+10))
		lx += 60

		for _, k := range lg.UsedBadges {
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="rgba(11,18,32,0.18)"/>`+"\n",
				lx, legendY, grid.BadgeW, grid.BadgeH))
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" text-anchor="middle" fill="rgba(203,213,225,0.9)">%s</text>`+"\n",
				lx+grid.BadgeW/2, legendY+grid.BadgeH-3, grid.BadgeFor([]string{k})))
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="11" fill="#94a3b8">%s</text>`+"\n",
				lx+grid.BadgeW+6, legendY+grid.BadgeH-2, escapeXML(k)))
			lx += m.TextWidth(k, grid.SmallFontSize) + grid.BadgeW + 24
		}
	}
}

// fitText truncates text with an ellipsis so it fits maxW, using binary
// search over the cut point.
func fitText(m grid.TextMeasurer, text string, size, maxW int) string {
	if text == "" {
		return ""
	}
	if m.TextWidth(text, size) <= maxW {
		return text
	}
	r := []rune(text)
	lo, hi := 0, len(r)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.TextWidth(string(r[:mid])+"…", size) <= maxW {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(r[:lo]) + "…"
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func labelOf(w grid.WeekLayout, id string) string {
	if l, ok := w.Labels[id]; ok && l != "" {
		return l
	}
	return id
}

func colorFor(w grid.WeekLayout, id string) grid.HSL {
	if c, ok := w.Colors[labelOf(w, id)]; ok {
		return c
	}
	return grid.FallbackColor
}

func dedupeLabels(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// escapeXML escapes the characters that would break SVG text nodes.
func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
