package grid

import (
	"sort"
	"time"

	"weekgrid/internal/title"
)

// mergeKey is the identity under which identical occurrences from several
// people collapse into one block. The raw (uncleaned) title is part of the
// key so that distinct events cleaning to the same label never merge.
type mergeKey struct {
	day      int
	start    int
	end      int
	rawTitle string
}

// MergeWeek turns everyone's raw occurrences into deduplicated blocks:
// each occurrence is split at day boundaries, clipped to the visible-hours
// window, grouped by (day, start, end, raw title), and the contributing
// person IDs are unioned into the block's attendee list.
//
// Malformed occurrences (end <= start) and segments that collapse to zero
// duration after clipping are silently dropped. The result is sorted by
// (day, start, title) for stable downstream processing.
func MergeWeek(in WeekInput) []MergedBlock {
	days := in.Days()
	winStart := in.Hours.Start * 60
	winEnd := in.Hours.End * 60

	groups := make(map[mergeKey]*MergedBlock)
	seen := make(map[mergeKey]map[string]bool)

	for _, p := range in.People {
		for _, occ := range in.Occurrences[p.ID] {
			if !occ.End.After(occ.Start) {
				continue
			}
			for _, seg := range daySegments(in.WeekStart, occ.Start, occ.End) {
				if seg.day < 0 || seg.day >= days {
					continue
				}
				start := max(seg.start, winStart)
				end := min(seg.end, winEnd)
				if end <= start {
					continue
				}

				key := mergeKey{day: seg.day, start: start, end: end, rawTitle: occ.Title}
				blk := groups[key]
				if blk == nil {
					blk = &MergedBlock{
						DayIndex: seg.day,
						Start:    start,
						End:      end,
						Title:    title.Clean(occ.Title),
						Tags:     title.Tags(occ.Title),
					}
					groups[key] = blk
					seen[key] = make(map[string]bool)
				}
				if !seen[key][p.ID] {
					seen[key][p.ID] = true
					blk.Attendees = append(blk.Attendees, p.ID)
				}
			}
		}
	}

	type keyed struct {
		key mergeKey
		blk *MergedBlock
	}
	all := make([]keyed, 0, len(groups))
	for k, b := range groups {
		all = append(all, keyed{key: k, blk: b})
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.blk.DayIndex != b.blk.DayIndex {
			return a.blk.DayIndex < b.blk.DayIndex
		}
		if a.blk.Start != b.blk.Start {
			return a.blk.Start < b.blk.Start
		}
		if a.blk.Title != b.blk.Title {
			return a.blk.Title < b.blk.Title
		}
		if a.blk.End != b.blk.End {
			return a.blk.End < b.blk.End
		}
		return a.key.rawTitle < b.key.rawTitle
	})

	out := make([]MergedBlock, len(all))
	for i, k := range all {
		out[i] = *k.blk
	}
	return out
}

// segment is one same-day slice of an occurrence, in minutes from midnight.
// end may be 1440 when the slice runs up to the following midnight.
type segment struct {
	day   int
	start int
	end   int
}

// daySegments splits [start, end) into per-day slices so that no block
// crosses midnight. The day index is counted from weekStart (Monday = 0).
func daySegments(weekStart, start, end time.Time) []segment {
	var segs []segment
	cur := start
	for cur.Before(end) {
		next := midnightAfter(cur)

		segEnd := minutesOfDay(end)
		if !next.After(end) {
			segEnd = 24 * 60
		}

		segs = append(segs, segment{
			day:   daysBetween(weekStart, cur),
			start: minutesOfDay(cur),
			end:   segEnd,
		})
		cur = next
	}
	return segs
}

func midnightAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// daysBetween counts calendar days from a to b, DST-safe.
func daysBetween(a, b time.Time) int {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	ua := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	ub := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
