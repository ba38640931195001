package artifact

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qgate/internal/feature"
)

func TestSpec_Filename(t *testing.T) {
	s := &Spec{Kind: "task-completion"}

	name, err := s.Filename(3)
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if name != "TASK3_COMPLETION.md" {
		t.Errorf("filename = %q, want TASK3_COMPLETION.md", name)
	}
}

func TestSpec_FilenameCustomTemplate(t *testing.T) {
	s := &Spec{Kind: "test-report", PathTemplate: "TASK{n}_TEST_REPORT.md"}

	name, err := s.Filename(12)
	if err != nil {
		t.Fatalf("Filename: %v", err)
	}
	if name != "TASK12_TEST_REPORT.md" {
		t.Errorf("filename = %q", name)
	}
}

func TestSpec_Path(t *testing.T) {
	root := t.TempDir()
	resolver, err := feature.NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	fn, err := resolver.Resolve("demo")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	s := &Spec{Kind: "task-completion"}
	path, err := s.Path(fn, 2)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join(resolver.Base(), "demo", "execution", "TASK2_COMPLETION.md")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestParseSpec_YAML(t *testing.T) {
	data := []byte(`kind: task-completion
required_sections:
  - "## Implementation Summary"
  - "## Test Results"
min_size_bytes: 200
`)
	s, err := ParseSpec(data, ".yaml")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	want := &Spec{
		Kind:             "task-completion",
		RequiredSections: []string{"## Implementation Summary", "## Test Results"},
		MinSizeBytes:     200,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpec_JSONDetectedFromContent(t *testing.T) {
	data := []byte(`{"kind": "test-report", "min_size_bytes": 10}`)

	s, err := ParseSpec(data, "")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if s.Kind != "test-report" || s.MinSizeBytes != 10 {
		t.Errorf("spec = %+v", s)
	}
}

func TestParseSpec_MissingKind(t *testing.T) {
	if _, err := ParseSpec([]byte(`min_size_bytes: 5`), ".yaml"); err == nil {
		t.Fatal("expected error for spec without kind")
	}
}
