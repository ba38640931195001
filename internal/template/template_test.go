package template

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_ExtractsPlaceholders(t *testing.T) {
	d := Parse("greeting", "Hello {name}, task {n} of {total}. Again: {name}.")

	want := []string{"n", "name", "total"}
	if diff := cmp.Diff(want, d.Placeholders); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NoPlaceholders(t *testing.T) {
	d := Parse("plain", "no placeholders here, not even {with spaces}")
	if len(d.Placeholders) != 0 {
		t.Errorf("placeholders = %v, want none", d.Placeholders)
	}
}

func TestRender_Success(t *testing.T) {
	d := Parse("t", "Task {n}: {title}")

	got, unused, err := Render(d, map[string]string{"n": "3", "title": "add cache"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Task 3: add cache" {
		t.Errorf("rendered = %q", got)
	}
	if len(unused) != 0 {
		t.Errorf("unused = %v, want none", unused)
	}
}

func TestRender_MissingVariablesListedExactly(t *testing.T) {
	d := Parse("t", "{a} {b} {c}")

	_, _, err := Render(d, map[string]string{"a": "x"})
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("error %v is not a template Error", err)
	}
	if diff := cmp.Diff([]string{"b", "c"}, terr.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_UnusedVarsDoNotFail(t *testing.T) {
	d := Parse("t", "{a}")

	got, unused, err := Render(d, map[string]string{"a": "x", "b": "y", "c": "z"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "x" {
		t.Errorf("rendered = %q", got)
	}
	if diff := cmp.Diff([]string{"b", "c"}, unused); diff != "" {
		t.Errorf("unused mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RejectsBraceValues(t *testing.T) {
	d := Parse("t", "{a}")

	for _, bad := range []string{"{b}", "x{", "}x", "{a}"} {
		_, _, err := Render(d, map[string]string{"a": bad})
		var terr *Error
		if !errors.As(err, &terr) {
			t.Errorf("Render with value %q: got %v, want template Error", bad, err)
			continue
		}
		if terr.BadValue != "a" {
			t.Errorf("BadValue = %q, want %q", terr.BadValue, "a")
		}
	}
}

func TestRender_RejectsOversizeValue(t *testing.T) {
	d := Parse("t", "{a}")

	_, _, err := Render(d, map[string]string{"a": strings.Repeat("x", MaxValueLen+1)})
	if err == nil {
		t.Fatal("expected rejection of oversize value")
	}

	got, _, err := Render(d, map[string]string{"a": strings.Repeat("x", MaxValueLen)})
	if err != nil {
		t.Fatalf("value at the cap should render: %v", err)
	}
	if len(got) != MaxValueLen {
		t.Errorf("rendered length = %d", len(got))
	}
}

func TestRender_SubstitutionIsLiteral(t *testing.T) {
	d := Parse("t", "run {cmd} now")

	// Values loaded with regexp/format specials must pass through as
	// opaque bytes.
	value := "$1 ${name} %s `id` $(env)"
	got, _, err := Render(d, map[string]string{"cmd": value})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "run "+value+" now" {
		t.Errorf("rendered = %q", got)
	}
}

func TestRenderString_PathTemplate(t *testing.T) {
	got, err := RenderString("path", "TASK{n}_COMPLETION.md", map[string]string{"n": "7"})
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if got != "TASK7_COMPLETION.md" {
		t.Errorf("rendered = %q", got)
	}
}
