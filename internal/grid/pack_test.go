package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mb(day, start, end int, title string, attendees ...string) MergedBlock {
	return MergedBlock{DayIndex: day, Start: start, End: end, Title: title, Attendees: attendees}
}

// assertNoLaneOverlap checks the core packing invariant: no two blocks in
// the same day and lane may overlap in time.
func assertNoLaneOverlap(t *testing.T, packed []PackedBlock) {
	t.Helper()
	for i := range packed {
		for j := i + 1; j < len(packed); j++ {
			a, b := packed[i], packed[j]
			if a.DayIndex == b.DayIndex && a.Lane == b.Lane {
				assert.False(t, a.Overlaps(b.MergedBlock),
					"blocks %q and %q share day %d lane %d but overlap", a.Title, b.Title, a.DayIndex, a.Lane)
			}
		}
	}
}

func TestPackWeekEmptyDaysReserveOneLane(t *testing.T) {
	packed, laneCounts := PackWeek(nil, testPeople("alice"), 5)
	assert.Empty(t, packed)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, laneCounts)
}

func TestPackDaySequentialBlocksShareLane(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 600, "Analyse", "alice"),
		mb(0, 600, 660, "Fysica", "alice"),
	}

	packed, laneCounts := PackWeek(blocks, testPeople("alice"), 5)
	require.Len(t, packed, 2)
	assert.Equal(t, 0, packed[0].Lane)
	assert.Equal(t, 0, packed[1].Lane)
	assert.Equal(t, 1, packed[0].LanesInDay)
	assert.Equal(t, 1, laneCounts[0])
}

func TestPackDayOverlappingOwnBlocksSplit(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 600, "Analyse", "alice"),
		mb(0, 570, 630, "Fysica", "alice"),
	}

	packed, laneCounts := PackWeek(blocks, testPeople("alice"), 5)
	require.Len(t, packed, 2)
	assert.NotEqual(t, packed[0].Lane, packed[1].Lane)
	assert.Equal(t, 2, packed[0].LanesInDay)
	assert.Equal(t, 2, laneCounts[0])
	assertNoLaneOverlap(t, packed)
}

func TestPackDaySharedBlockClustersPeople(t *testing.T) {
	// alice 9-10, shared 10-11, bob 11-12: nothing overlaps, so the merge
	// pass collapses everything into a single lane.
	blocks := []MergedBlock{
		mb(0, 540, 600, "Analyse", "alice"),
		mb(0, 600, 660, "Samen", "alice", "bob"),
		mb(0, 660, 720, "Fysica", "bob"),
	}

	packed, laneCounts := PackWeek(blocks, testPeople("alice", "bob"), 5)
	require.Len(t, packed, 3)
	for _, b := range packed {
		assert.Equal(t, 0, b.Lane)
		assert.Equal(t, 1, b.LanesInDay)
	}
	assert.Equal(t, 1, laneCounts[0])
}

func TestPackDayDominantPersonOwnsSharedBlock(t *testing.T) {
	// bob occupies more minutes than alice, so bob is processed first and
	// ends up listed first on the shared block.
	blocks := []MergedBlock{
		mb(0, 540, 720, "Lang practicum", "bob"),
		mb(0, 780, 840, "Samen", "alice", "bob"),
	}

	packed, _ := PackWeek(blocks, testPeople("alice", "bob"), 5)
	require.Len(t, packed, 2)

	var shared PackedBlock
	for _, b := range packed {
		if b.Title == "Samen" {
			shared = b
		}
	}
	assert.Equal(t, []string{"bob", "alice"}, shared.Attendees)
}

func TestPackDayPeopleOrderBreaksDominanceTies(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 600, "Samen", "alice", "bob"),
	}

	packed, _ := PackWeek(blocks, testPeople("bob", "alice"), 5)
	require.Len(t, packed, 1)
	assert.Equal(t, []string{"bob", "alice"}, packed[0].Attendees,
		"with equal occupancy the configured people order decides the owner")
}

func TestPackWeekKeepsInputOrder(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 600, "Eerste", "alice"),
		mb(0, 570, 630, "Tweede", "bob"),
		mb(1, 540, 600, "Derde", "alice"),
	}

	packed, _ := PackWeek(blocks, testPeople("alice", "bob"), 5)
	require.Len(t, packed, 3)
	assert.Equal(t, "Eerste", packed[0].Title)
	assert.Equal(t, "Tweede", packed[1].Title)
	assert.Equal(t, "Derde", packed[2].Title)
	assertNoLaneOverlap(t, packed)
}

func TestPackWeekDeterministic(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 660, "Analyse", "alice", "bob"),
		mb(0, 570, 630, "Fysica", "carol"),
		mb(0, 600, 720, "Chemie", "bob"),
		mb(1, 540, 600, "Statistiek", "carol", "alice"),
	}
	people := testPeople("alice", "bob", "carol")

	first, firstCounts := PackWeek(blocks, people, 5)
	second, secondCounts := PackWeek(blocks, people, 5)
	assert.Equal(t, first, second)
	assert.Equal(t, firstCounts, secondCounts)
	assertNoLaneOverlap(t, first)
}

func TestPackWeekDoesNotMutateInput(t *testing.T) {
	blocks := []MergedBlock{
		mb(0, 540, 600, "Samen", "alice", "bob"),
	}

	_, _ = PackWeek(blocks, testPeople("bob", "alice"), 5)
	assert.Equal(t, []string{"alice", "bob"}, blocks[0].Attendees,
		"the input attendee order must stay untouched")
}
