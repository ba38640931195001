package gate

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qgate/internal/artifact"
)

func TestSummarize_AllValid(t *testing.T) {
	results := []artifact.Result{
		{UnitID: 1, Status: artifact.StatusValid},
		{UnitID: 2, Status: artifact.StatusValid},
	}
	rep := Summarize(results, 2)

	want := Report{Total: 2, ValidCount: 2, CoveragePercent: 100.0, OverallStatus: StatusComplete}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_PartialCoverage(t *testing.T) {
	results := []artifact.Result{
		{UnitID: 1, Status: artifact.StatusValid},
		{UnitID: 2, Status: artifact.StatusMissing},
		{UnitID: 3, Status: artifact.StatusValid},
	}
	rep := Summarize(results, 3)

	want := Report{
		Total: 3, ValidCount: 2,
		MissingUnitIDs:  []int{2},
		CoveragePercent: 66.7,
		OverallStatus:   StatusIncomplete,
	}
	if diff := cmp.Diff(want, rep); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_MalformedCountsAsMissing(t *testing.T) {
	results := []artifact.Result{
		{UnitID: 9, Status: artifact.StatusMalformed},
		{UnitID: 4, Status: artifact.StatusMissing},
		{UnitID: 7, Status: artifact.StatusValid},
	}
	rep := Summarize(results, 3)

	if diff := cmp.Diff([]int{4, 9}, rep.MissingUnitIDs); diff != "" {
		t.Errorf("missing IDs mismatch (-want +got):\n%s", diff)
	}
	if rep.ValidCount+len(rep.MissingUnitIDs) != rep.Total {
		t.Errorf("valid %d + missing %d != total %d", rep.ValidCount, len(rep.MissingUnitIDs), rep.Total)
	}
}

func TestSummarize_HundredPercentOnlyWhenNothingMissing(t *testing.T) {
	// 9999/10000 rounds to 100.0 numerically; the gate must still read
	// incomplete.
	results := make([]artifact.Result, 10000)
	for i := range results {
		results[i] = artifact.Result{UnitID: i + 1, Status: artifact.StatusValid}
	}
	results[500].Status = artifact.StatusMissing

	rep := Summarize(results, 10000)
	if rep.CoveragePercent >= 100.0 {
		t.Errorf("coverage = %.1f with a missing unit", rep.CoveragePercent)
	}
	if rep.OverallStatus != StatusIncomplete {
		t.Errorf("status = %s, want incomplete", rep.OverallStatus)
	}
}

func TestSummarize_MissingIDsSorted(t *testing.T) {
	results := []artifact.Result{
		{UnitID: 5, Status: artifact.StatusMissing},
		{UnitID: 1, Status: artifact.StatusMissing},
		{UnitID: 3, Status: artifact.StatusMalformed},
	}
	rep := Summarize(results, 3)

	if !sort.IntsAreSorted(rep.MissingUnitIDs) {
		t.Errorf("missing IDs not sorted: %v", rep.MissingUnitIDs)
	}
}

func TestSummarize_EmptyBatch(t *testing.T) {
	rep := Summarize(nil, 0)
	if rep.OverallStatus != StatusComplete {
		t.Errorf("empty batch status = %s, want complete", rep.OverallStatus)
	}
}
