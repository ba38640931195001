package gate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"qgate/internal/artifact"
)

// Manifest is a batch description loadable from one file: which feature,
// which unit IDs, and the spec their artifacts must satisfy. Either Units
// enumerates the IDs or UnitCount expands to 1..N.
type Manifest struct {
	Feature   string        `json:"feature" yaml:"feature"`
	Units     []int         `json:"units,omitempty" yaml:"units,omitempty"`
	UnitCount int           `json:"unit_count,omitempty" yaml:"unit_count,omitempty"`
	Spec      artifact.Spec `json:"spec" yaml:"spec"`
}

// UnitIDs returns the explicit unit list, or 1..UnitCount when only a
// count was given.
func (m *Manifest) UnitIDs() []int {
	if len(m.Units) > 0 {
		return m.Units
	}
	ids := make([]int, 0, m.UnitCount)
	for i := 1; i <= m.UnitCount; i++ {
		ids = append(ids, i)
	}
	return ids
}

// LoadManifest reads a batch manifest (YAML or JSON by extension, content
// sniffing as a fallback).
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext != ".json" && ext != ".yaml" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	var m Manifest
	if ext == ".json" {
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest yaml: %w", err)
		}
	}

	if m.Feature == "" {
		return nil, fmt.Errorf("manifest is missing feature")
	}
	if len(m.Units) == 0 && m.UnitCount <= 0 {
		return nil, fmt.Errorf("manifest needs units or unit_count")
	}
	if m.Spec.Kind == "" {
		return nil, fmt.Errorf("manifest spec is missing kind")
	}
	return &m, nil
}
