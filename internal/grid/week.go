package grid

// BuildWeek runs the full pipeline for one render request: merge, pack,
// color assignment, and sizing. All intermediate state is local to the
// call, so concurrent requests need no coordination.
func BuildWeek(in WeekInput, measure TextMeasurer) WeekLayout {
	merged := MergeWeek(in)
	packed, laneCounts := PackWeek(merged, in.People, in.Days())

	labels := make([]string, 0, len(in.People))
	labelOf := make(map[string]string, len(in.People))
	for _, p := range in.People {
		l := p.Label()
		labels = append(labels, l)
		labelOf[p.ID] = l
	}

	sizer := Sizer{Measure: measure, Hours: in.Hours}

	return WeekLayout{
		Blocks:    packed,
		Colors:    AssignColors(labels),
		Labels:    labelOf,
		LabelList: labels,
		Geometry:  sizer.Size(packed, laneCounts, labels, labelOf),
	}
}
