// Package template renders prompt and path templates by literal string
// substitution. Placeholders use {name} syntax and values are plain strings
// under a length cap; there is no expression evaluation, attribute access,
// or format-spec handling, so a hostile variable value cannot reach
// anything beyond its own bytes in the output.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MaxValueLen caps a single substituted value, bounding output size.
const MaxValueLen = 2000

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Descriptor is a parsed template: the raw text plus the set of
// placeholder names it references. Immutable once built.
type Descriptor struct {
	Name         string
	Raw          string
	Placeholders []string // sorted, unique
}

// Parse extracts the placeholder set from raw template text.
func Parse(name, raw string) *Descriptor {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(raw, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return &Descriptor{Name: name, Raw: raw, Placeholders: names}
}

// Render substitutes vars into the template. Every placeholder must be
// covered by vars or the render fails with a *Error listing the missing
// names. Keys in vars that the template never references are returned as
// unused; they warn but do not block rendering.
func Render(d *Descriptor, vars map[string]string) (rendered string, unused []string, err error) {
	missing := diff(d.Placeholders, vars)
	if len(missing) > 0 {
		return "", nil, &Error{Template: d.Name, Missing: missing}
	}

	for key, value := range vars {
		if strings.ContainsAny(value, "{}") {
			return "", nil, &Error{Template: d.Name, BadValue: key, Detail: "value contains a brace"}
		}
		if len(value) > MaxValueLen {
			return "", nil, &Error{Template: d.Name, BadValue: key, Detail: fmt.Sprintf("value exceeds %d bytes", MaxValueLen)}
		}
	}

	placeholders := make(map[string]bool, len(d.Placeholders))
	for _, p := range d.Placeholders {
		placeholders[p] = true
	}
	for key := range vars {
		if !placeholders[key] {
			unused = append(unused, key)
		}
	}
	sort.Strings(unused)

	// ReplaceAllStringFunc inserts the callback's return value literally,
	// so values are never re-scanned for placeholders or specials.
	rendered = placeholderPattern.ReplaceAllStringFunc(d.Raw, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
	return rendered, unused, nil
}

// RenderString parses and renders inline template text in one call.
// Used for single-shot templates like artifact path patterns.
func RenderString(name, raw string, vars map[string]string) (string, error) {
	rendered, _, err := Render(Parse(name, raw), vars)
	return rendered, err
}

// diff returns the placeholder names not covered by vars, sorted.
func diff(placeholders []string, vars map[string]string) []string {
	var missing []string
	for _, p := range placeholders {
		if _, ok := vars[p]; !ok {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	return missing
}
