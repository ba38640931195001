// Package artifact defines the contract a completion report must satisfy
// and checks individual reports against it.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"qgate/internal/feature"
	"qgate/internal/template"
)

// DefaultPathTemplate is the producer/validator file naming contract:
// TASK3_COMPLETION.md for unit 3, no separator between TASK and the ID.
const DefaultPathTemplate = "TASK{n}_COMPLETION.md"

// Spec describes what one expected artifact must satisfy. Built once per
// pipeline phase and shared read-only across concurrent validations.
type Spec struct {
	Kind             string   `json:"kind" yaml:"kind"`
	PathTemplate     string   `json:"path_template,omitempty" yaml:"path_template,omitempty"`
	RequiredSections []string `json:"required_sections,omitempty" yaml:"required_sections,omitempty"`
	MinSizeBytes     int      `json:"min_size_bytes,omitempty" yaml:"min_size_bytes,omitempty"`
}

// Filename expands the spec's path template for a unit ID. The template
// goes through the same restricted substitution engine as prompt
// templates, so a spec file cannot smuggle anything but {n} into a path.
func (s *Spec) Filename(unitID int) (string, error) {
	tmpl := s.PathTemplate
	if tmpl == "" {
		tmpl = DefaultPathTemplate
	}
	name, err := template.RenderString("path-template", tmpl, map[string]string{"n": strconv.Itoa(unitID)})
	if err != nil {
		return "", fmt.Errorf("expand path template: %w", err)
	}
	return name, nil
}

// Path returns the absolute path the artifact for unitID must live at.
func (s *Spec) Path(f feature.Name, unitID int) (string, error) {
	name, err := s.Filename(unitID)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.ExecutionDir(), name), nil
}

// Unit identifies one thing to validate: a raw feature identifier, a unit
// ID, and the spec its artifact must satisfy. Never mutated after creation.
type Unit struct {
	Feature string // raw, unresolved; the runner resolves it
	ID      int
	Spec    *Spec
}

// LoadSpec reads a spec file (YAML or JSON, detected by extension).
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return ParseSpec(data, filepath.Ext(path))
}

// ParseSpec parses spec bytes. ext is the file extension for a format
// hint; empty means detect from content (JSON if it starts with "{").
func ParseSpec(data []byte, ext string) (*Spec, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	var s Spec
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse spec json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse spec yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec format %q", ext)
	}

	if s.Kind == "" {
		return nil, fmt.Errorf("spec is missing kind")
	}
	return &s, nil
}
