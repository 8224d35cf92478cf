package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "weekgrid/internal/log"
	"weekgrid/internal/model"
)

const defaultMaxOccurrencesPerEvent = 3000

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// DisplayLocation is the timezone all occurrences are converted to.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd bound the occurrence window, typically one
	// week.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway expansions. Zero means the
	// default cap.
	MaxOccurrencesPerEvent int
}

// ExpandOccurrences materializes concrete occurrences from parsed events
// within the configured window: single events, RRULE recurrences, EXDATE
// exceptions, RECURRENCE-ID overrides, and all-day semantics. The result
// is the flat occurrence list the grid engine consumes.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and their overrides by UID.
	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	var uidOrder []string

	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, ok := baseByUID[ev.UID]; !ok {
			uidOrder = append(uidOrder, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}

	out := make([]model.Occurrence, 0)
	for _, uid := range uidOrder {
		ov := overridesByUID[uid]
		for _, ev := range baseByUID[uid] {
			occ, hitCap := expandEvent(ev, ov, cfg)
			if hitCap {
				appLog.Error("expand: truncated occurrences for event",
					errors.New("max occurrences reached"),
					"uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
			}
			out = append(out, occ...)
		}
	}
	return out, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	if ev.RawRRule == "" {
		return expandSingleEvent(ev, overrides, cfg), false
	}
	return expandRecurringEvent(ev, overrides, cfg)
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Occurrence {
	if !rangesOverlap(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}

	start, end := ev.Start, ev.End
	if o, ok := findOverrideForStart(overrides, start); ok {
		start, end = o.Start, o.End
		ev = o
	}
	return []model.Occurrence{makeOccurrence(ev, start, end, cfg.DisplayLocation)}
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())

	occTimes := set.Between(rangeStart, rangeEnd, true)

	hitCap := false
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.Occurrence, 0, len(occTimes))
	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			date := time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
			occStart = date
			occEnd = date.Add(24 * time.Hour)
		} else {
			occEnd = occStart.Add(ev.End.Sub(ev.Start))
		}

		instEv := ev
		if o, ok := findOverrideForStart(overrides, occStart); ok {
			occStart, occEnd = o.Start, o.End
			instEv = o
		}
		out = append(out, makeOccurrence(instEv, occStart, occEnd, cfg.DisplayLocation))
	}
	return out, hitCap
}

// findOverrideForStart matches an override whose RECURRENCE-ID equals the
// given instance start.
func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if ov.Recurrence.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func makeOccurrence(ev ParsedEvent, start, end time.Time, loc *time.Location) model.Occurrence {
	return model.Occurrence{
		PersonID: ev.Source.PersonID,
		Start:    start.In(loc),
		End:      end.In(loc),
		Title:    ev.Summary,
	}
}

func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
