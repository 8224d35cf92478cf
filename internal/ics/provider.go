package ics

import (
	"context"
	"time"

	appLog "weekgrid/internal/log"
	"weekgrid/internal/model"
)

// Provider runs the full fetch/parse/expand pipeline for a group of
// people and one target week.
type Provider struct {
	fetcher *Fetcher
}

func NewProvider(cacheDir string) *Provider {
	return &Provider{fetcher: NewFetcher(cacheDir)}
}

// WeekOccurrences returns each person's materialized occurrences for
// [weekStart, weekStart+7d), keyed by person ID. Every requested person
// has an entry; a person whose feed fails (or who has no source) maps to
// an empty list so one broken calendar never fails the render.
func (p *Provider) WeekOccurrences(ctx context.Context, sources []Source, weekStart time.Time, loc *time.Location) map[string][]model.Occurrence {
	rangeStart := weekStart
	rangeEnd := weekStart.AddDate(0, 0, 7)

	out := make(map[string][]model.Occurrence, len(sources))
	for _, src := range sources {
		out[src.PersonID] = nil
	}

	results, errs := p.fetcher.FetchAll(ctx, sources)
	if len(errs) > 0 {
		appLog.Info("week fetch finished with per-person failures",
			"failed", len(errs), "total", len(sources))
	}

	for _, res := range results {
		events, err := ParseICS(res.Source, res.Body)
		if err != nil {
			continue
		}

		occs, err := ExpandOccurrences(events, ExpandConfig{
			DisplayLocation: loc,
			RangeStart:      rangeStart,
			RangeEnd:        rangeEnd,
		})
		if err != nil {
			appLog.Error("expand failed for person", err, "person", res.Source.PersonID)
			continue
		}

		// Keep only occurrences intersecting the week.
		kept := out[res.Source.PersonID]
		for _, occ := range occs {
			if occ.End.After(rangeStart) && occ.Start.Before(rangeEnd) {
				kept = append(kept, occ)
			}
		}
		out[res.Source.PersonID] = kept
	}
	return out
}

// Monday returns midnight on the Monday of t's week, in t's location.
func Monday(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	back := (int(midnight.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -back)
}
