package grid

import (
	"sort"

	"weekgrid/internal/model"
)

// PackWeek assigns every merged block to a lane, day by day. It returns
// the packed blocks in the same order MergeWeek produced them, plus the
// lane count per visible day (an empty day still reserves one lane).
func PackWeek(blocks []MergedBlock, people []model.Person, days int) ([]PackedBlock, []int) {
	laneCounts := make([]int, days)
	for d := range laneCounts {
		laneCounts[d] = 1
	}

	out := make([]PackedBlock, 0, len(blocks))
	for d := 0; d < days; d++ {
		var dayBlocks []MergedBlock
		for _, b := range blocks {
			if b.DayIndex == d {
				dayBlocks = append(dayBlocks, b)
			}
		}
		packed := packDay(dayBlocks, people)
		if len(packed) > 0 {
			laneCounts[d] = packed[0].LanesInDay
		}
		out = append(out, packed...)
	}
	return out, laneCounts
}

// lane is a working row being filled during packing.
type lane struct {
	owner   string
	blocks  []*PackedBlock
	members map[string]bool
}

func (l *lane) fits(b *PackedBlock) bool {
	for _, x := range l.blocks {
		if x.Overlaps(b.MergedBlock) {
			return false
		}
	}
	return true
}

func (l *lane) sortBlocks() {
	sort.SliceStable(l.blocks, func(i, j int) bool {
		return l.blocks[i].Start < l.blocks[j].Start
	})
}

// canMergeLanes reports whether two lanes contain no pair of overlapping
// blocks between them.
func canMergeLanes(a, b *lane) bool {
	for _, x := range a.blocks {
		for _, y := range b.blocks {
			if x.Overlaps(y.MergedBlock) {
				return false
			}
		}
	}
	return true
}

// packDay maps one day's blocks to lanes. People are visited in dominance
// order (most occupied minutes first); whenever a person is processed,
// everyone who shares a block with them is pulled forward via an explicit
// pending queue so related people's lanes cluster together. A final merge
// pass collapses lanes that never overlap in time.
func packDay(blocks []MergedBlock, people []model.Person) []PackedBlock {
	if len(blocks) == 0 {
		return nil
	}

	working := make([]*PackedBlock, len(blocks))
	for i, b := range blocks {
		b.Attendees = append([]string(nil), b.Attendees...)
		working[i] = &PackedBlock{MergedBlock: b}
	}

	ranked := rankByDominance(working, people)

	var lanes []*lane
	assigned := make(map[*PackedBlock]bool)
	processed := make(map[string]bool)
	laneOf := make(map[string]int) // person -> index of the lane they own

	blocksOf := func(id string) []*PackedBlock {
		var out []*PackedBlock
		for _, b := range working {
			if containsString(b.Attendees, id) {
				out = append(out, b)
			}
		}
		return out
	}

	processPerson := func(cur string) (sharedWith []string) {
		all := blocksOf(cur)

		var ub []*PackedBlock
		for _, b := range all {
			if !assigned[b] {
				ub = append(ub, b)
			}
		}
		if len(ub) == 0 {
			return nil
		}

		// Split into blocks that conflict with another of this person's
		// own blocks and blocks that do not.
		var nonConf, conf []*PackedBlock
		for i, b := range ub {
			conflict := false
			for j, o := range ub {
				if i != j && b.Overlaps(o.MergedBlock) {
					conflict = true
					break
				}
			}
			if conflict {
				conf = append(conf, b)
			} else {
				nonConf = append(nonConf, b)
			}
		}

		if len(nonConf) > 0 {
			ln := &lane{owner: cur, members: map[string]bool{cur: true}}
			lanes = append(lanes, ln)
			laneOf[cur] = len(lanes) - 1
			for _, b := range nonConf {
				ln.blocks = append(ln.blocks, b)
				b.Attendees = moveToFront(b.Attendees, cur)
				assigned[b] = true
			}
			ln.sortBlocks()
		}

		// Conflicting blocks go to another attendee's lane when they fit
		// there; otherwise each opens a fresh lane.
		for _, b := range conf {
			placed := false
			for _, a := range b.Attendees {
				if a == cur {
					continue
				}
				li, ok := laneOf[a]
				if !ok {
					continue
				}
				ln := lanes[li]
				if !ln.fits(b) {
					continue
				}
				ln.blocks = append(ln.blocks, b)
				ln.sortBlocks()
				ln.members[cur] = true
				b.Attendees = ownerPairFirst(b.Attendees, a, cur)
				assigned[b] = true
				placed = true
				break
			}
			if !placed {
				ln := &lane{owner: cur, members: map[string]bool{cur: true}, blocks: []*PackedBlock{b}}
				lanes = append(lanes, ln)
				b.Attendees = moveToFront(b.Attendees, cur)
				assigned[b] = true
			}
		}

		// Everyone sharing any block with this person, not yet processed.
		var shared []string
		seen := make(map[string]bool)
		for _, b := range all {
			for _, a := range b.Attendees {
				if a != cur && !processed[a] && !seen[a] {
					seen[a] = true
					shared = append(shared, a)
				}
			}
		}
		return shared
	}

	for _, start := range ranked {
		queue := []string{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if processed[cur] {
				continue
			}
			processed[cur] = true
			queue = append(queue, processPerson(cur)...)
		}
	}

	mergeLanes(&lanes)

	for li, ln := range lanes {
		for _, b := range ln.blocks {
			b.Lane = li
			b.LanesInDay = len(lanes)
		}
	}

	out := make([]PackedBlock, len(working))
	for i, b := range working {
		out[i] = *b
	}
	return out
}

// mergeLanes repeatedly collapses lane pairs with no time overlap between
// them until no further merge is possible.
func mergeLanes(lanes *[]*lane) {
	ls := *lanes
	i := 0
	for i < len(ls) {
		merged := false
		j := i + 1
		for j < len(ls) {
			if canMergeLanes(ls[i], ls[j]) {
				ls[i].blocks = append(ls[i].blocks, ls[j].blocks...)
				ls[i].sortBlocks()
				for m := range ls[j].members {
					ls[i].members[m] = true
				}
				ls = append(ls[:j], ls[j+1:]...)
				merged = true
			} else {
				j++
			}
		}
		if !merged {
			i++
		}
	}
	*lanes = ls
}

// rankByDominance orders the day's attendees by total occupied minutes
// (interval union, overlaps coalesced) descending, then by larger span
// between first and last occupied minute, then by position in the people
// list.
func rankByDominance(blocks []*PackedBlock, people []model.Person) []string {
	type stat struct {
		id    string
		total int
		span  int
	}

	intervals := make(map[string][][2]int)
	var order []string
	for _, b := range blocks {
		for _, a := range b.Attendees {
			if _, ok := intervals[a]; !ok {
				order = append(order, a)
			}
			intervals[a] = append(intervals[a], [2]int{b.Start, b.End})
		}
	}

	index := make(map[string]int, len(people))
	for i, p := range people {
		index[p.ID] = i
	}
	rank := func(id string) int {
		if i, ok := index[id]; ok {
			return i
		}
		return len(people)
	}

	stats := make([]stat, 0, len(order))
	for _, id := range order {
		iv := intervals[id]
		sort.Slice(iv, func(a, b int) bool { return iv[a][0] < iv[b][0] })

		total := 0
		curStart, curEnd := iv[0][0], iv[0][1]
		for _, it := range iv[1:] {
			if it[0] > curEnd {
				total += curEnd - curStart
				curStart, curEnd = it[0], it[1]
				continue
			}
			if it[1] > curEnd {
				curEnd = it[1]
			}
		}
		total += curEnd - curStart

		first, last := iv[0][0], iv[0][1]
		for _, it := range iv {
			if it[0] < first {
				first = it[0]
			}
			if it[1] > last {
				last = it[1]
			}
		}

		stats = append(stats, stat{id: id, total: total, span: last - first})
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.total != b.total {
			return a.total > b.total
		}
		if a.span != b.span {
			return a.span > b.span
		}
		if rank(a.id) != rank(b.id) {
			return rank(a.id) < rank(b.id)
		}
		return a.id < b.id
	})

	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.id
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// moveToFront puts id first, keeping everyone else's relative order.
func moveToFront(list []string, id string) []string {
	out := make([]string, 0, len(list))
	out = append(out, id)
	for _, x := range list {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// ownerPairFirst orders attendees as [laneOwner, placed, rest...].
func ownerPairFirst(list []string, laneOwner, placed string) []string {
	out := make([]string, 0, len(list))
	out = append(out, laneOwner, placed)
	for _, x := range list {
		if x != laneOwner && x != placed {
			out = append(out, x)
		}
	}
	return out
}
