package gate

import (
	"math"
	"sort"

	"qgate/internal/artifact"
)

// GateStatus is the aggregate verdict over a batch.
type GateStatus string

const (
	StatusComplete   GateStatus = "complete"
	StatusIncomplete GateStatus = "incomplete"
)

// Report aggregates a batch of results. Derived and stateless: recomputed
// fresh on every Summarize call, never persisted.
type Report struct {
	Total           int        `json:"total"`
	ValidCount      int        `json:"valid_count"`
	MissingUnitIDs  []int      `json:"missing_unit_ids"`
	CoveragePercent float64    `json:"coverage_percent"`
	OverallStatus   GateStatus `json:"overall_status"`
}

// Summarize folds per-unit results into a coverage report against the
// expected total. MissingUnitIDs collects every unit whose artifact did
// not validate, sorted ascending. Pure function: no I/O, inputs untouched.
func Summarize(results []artifact.Result, totalExpected int) Report {
	rep := Report{Total: totalExpected}

	for _, res := range results {
		if res.Status == artifact.StatusValid {
			rep.ValidCount++
		} else {
			rep.MissingUnitIDs = append(rep.MissingUnitIDs, res.UnitID)
		}
	}
	sort.Ints(rep.MissingUnitIDs)

	rep.CoveragePercent = coveragePercent(rep.ValidCount, totalExpected)
	if rep.CoveragePercent == 100.0 {
		rep.OverallStatus = StatusComplete
	} else {
		rep.OverallStatus = StatusIncomplete
	}
	return rep
}

// coveragePercent rounds to one decimal, but reaches exactly 100.0 only
// when every unit validated: 9999/10000 must not round up into a passed
// gate.
func coveragePercent(valid, total int) float64 {
	if total <= 0 || valid >= total {
		return 100.0
	}
	pct := math.Round(1000*float64(valid)/float64(total)) / 10
	if pct >= 100.0 {
		pct = 99.9
	}
	return pct
}
