package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// simulate walks the planner over count indices the way iterate does,
// returning the visit sequence as (index, secondPass) pairs.
func simulate(count int, rescrape []int) [][2]int {
	planner := newVisitPlanner(rescrape)
	var visits [][2]int
	idx := 0
	for idx < count {
		second := 0
		if planner.SecondPass(idx) {
			second = 1
		}
		visits = append(visits, [2]int{idx, second})
		if planner.Visited(idx) {
			continue
		}
		idx++
	}
	return visits
}

func TestVisitPlanner_UnflaggedIndexVisitedOnce(t *testing.T) {
	visits := simulate(3, nil)
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}}, visits)
}

func TestVisitPlanner_FlaggedIndexVisitedExactlyTwice(t *testing.T) {
	visits := simulate(3, []int{1})
	require.Equal(t, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 0}}, visits)
}

func TestVisitPlanner_SecondVisitIsAlternatePass(t *testing.T) {
	planner := newVisitPlanner([]int{0})
	assert.False(t, planner.SecondPass(0))
	assert.True(t, planner.Visited(0))
	assert.True(t, planner.SecondPass(0))
	assert.False(t, planner.Visited(0))
	assert.False(t, planner.SecondPass(0))
}

func TestVisitPlanner_MultipleFlaggedIndices(t *testing.T) {
	visits := simulate(3, []int{0, 2})
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {2, 0}, {2, 1}}, visits)
}

func TestAllowList_NilAllowsEverything(t *testing.T) {
	allow := newAllowList(nil)
	assert.True(t, allow.Allows(types.NewJurisdiction(0, "Adams County")))
}

func TestAllowList_MatchesCaseInsensitively(t *testing.T) {
	allow := newAllowList([]string{"adams county"})
	assert.True(t, allow.Allows(types.NewJurisdiction(0, "Adams County")))
	assert.False(t, allow.Allows(types.NewJurisdiction(1, "Jefferson County")))
}
