package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

const goodReport = `# Task 1

## Implementation Summary

Added the cache layer behind the existing interface.

## Test Results

All green.
`

func TestValidate_Valid(t *testing.T) {
	spec := &Spec{
		Kind:             "task-completion",
		RequiredSections: []string{"## Implementation Summary", "## Test Results"},
		MinSizeBytes:     50,
	}
	path := writeArtifact(t, t.TempDir(), "TASK1_COMPLETION.md", goodReport)

	res := Validate(spec, 1, path)
	if res.Status != StatusValid {
		t.Errorf("status = %s (detail %q), want valid", res.Status, res.Detail)
	}
	if res.UnitID != 1 {
		t.Errorf("unit id = %d, want 1", res.UnitID)
	}
}

func TestValidate_Missing(t *testing.T) {
	spec := &Spec{Kind: "task-completion"}

	res := Validate(spec, 2, filepath.Join(t.TempDir(), "TASK2_COMPLETION.md"))
	if res.Status != StatusMissing {
		t.Errorf("status = %s, want missing", res.Status)
	}
}

func TestValidate_MissingSection(t *testing.T) {
	spec := &Spec{
		Kind:             "task-completion",
		RequiredSections: []string{"## Implementation Summary", "## Rollback Plan"},
	}
	path := writeArtifact(t, t.TempDir(), "TASK1_COMPLETION.md", goodReport)

	res := Validate(spec, 1, path)
	if res.Status != StatusMalformed {
		t.Fatalf("status = %s, want malformed", res.Status)
	}
	if !strings.Contains(res.Detail, `"## Rollback Plan"`) {
		t.Errorf("detail %q does not name the missing section", res.Detail)
	}
	if strings.Contains(res.Detail, `"## Implementation Summary"`) {
		t.Errorf("detail %q names a section that is present", res.Detail)
	}
}

func TestValidate_BelowMinimumSize(t *testing.T) {
	spec := &Spec{Kind: "task-completion", MinSizeBytes: 10_000}
	path := writeArtifact(t, t.TempDir(), "TASK1_COMPLETION.md", goodReport)

	res := Validate(spec, 1, path)
	if res.Status != StatusMalformed {
		t.Fatalf("status = %s, want malformed", res.Status)
	}
	if !strings.Contains(res.Detail, "below minimum size") {
		t.Errorf("detail = %q", res.Detail)
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	spec := &Spec{
		Kind:             "task-completion",
		RequiredSections: []string{"## Implementation Summary"},
		MinSizeBytes:     1000,
	}
	path := writeArtifact(t, t.TempDir(), "TASK1_COMPLETION.md", "tiny")

	res := Validate(spec, 1, path)
	if res.Status != StatusMalformed {
		t.Fatalf("status = %s, want malformed", res.Status)
	}
	if !strings.Contains(res.Detail, "below minimum size") || !strings.Contains(res.Detail, "missing required section") {
		t.Errorf("detail = %q, want both failures named", res.Detail)
	}
}

func TestValidate_EmptySpecAcceptsAnyFile(t *testing.T) {
	spec := &Spec{Kind: "task-completion"}
	path := writeArtifact(t, t.TempDir(), "TASK1_COMPLETION.md", "")

	res := Validate(spec, 1, path)
	if res.Status != StatusValid {
		t.Errorf("status = %s, want valid", res.Status)
	}
}
