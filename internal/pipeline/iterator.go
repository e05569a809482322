package pipeline

import (
	"strings"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// visitPlanner decides single- versus double-pass execution per jurisdiction
// index. A flagged index is visited exactly twice; the visit counter, not a
// separate queue, decides which pass is active.
type visitPlanner struct {
	visits   map[int]int
	rescrape map[int]bool
}

func newVisitPlanner(rescrapeIndices []int) *visitPlanner {
	rescrape := make(map[int]bool, len(rescrapeIndices))
	for _, i := range rescrapeIndices {
		rescrape[i] = true
	}
	return &visitPlanner{
		visits:   make(map[int]int),
		rescrape: rescrape,
	}
}

// SecondPass reports whether the next visit of idx is the alternate-term
// rescrape pass.
func (p *visitPlanner) SecondPass(idx int) bool {
	return p.visits[idx] == 1 && p.rescrape[idx]
}

// Visited counts a completed visit and reports whether the same index must
// be repeated before advancing.
func (p *visitPlanner) Visited(idx int) (repeat bool) {
	p.visits[idx]++
	return p.rescrape[idx] && p.visits[idx] == 1
}

// allowList is an optional restriction on which jurisdictions are visited.
// A nil list allows everything. Skipped jurisdictions never touch the visit
// counter.
type allowList map[string]bool

func newAllowList(names []string) allowList {
	if len(names) == 0 {
		return nil
	}
	allow := make(allowList, len(names))
	for _, n := range names {
		allow[normalizeName(n)] = true
	}
	return allow
}

func (a allowList) Allows(j types.Jurisdiction) bool {
	if a == nil {
		return true
	}
	return a[normalizeName(j.Name)]
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
