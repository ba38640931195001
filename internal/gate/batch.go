package gate

import (
	"context"
	"fmt"
	"os"

	"qgate/internal/artifact"
	"qgate/internal/feature"
)

// ValidateBatch is the orchestrator-facing entry point: validate the
// artifacts for unitIDs of one feature under root and summarize coverage.
//
// The error return is reserved for conditions that must abort the caller:
// a SecurityError from feature resolution, or the root directory being
// unreachable. Ordinary missing or malformed artifacts come back inside
// the report with OverallStatus Incomplete.
func ValidateBatch(ctx context.Context, root, featureRaw string, unitIDs []int, spec *artifact.Spec, opts Options) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("artifact root unreachable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact root %q is not a directory", root)
	}

	resolver, err := feature.NewResolver(root)
	if err != nil {
		return nil, err
	}

	units := make([]artifact.Unit, len(unitIDs))
	for i, id := range unitIDs {
		units[i] = artifact.Unit{Feature: featureRaw, ID: id, Spec: spec}
	}

	results, err := NewRunner(resolver, opts).Validate(ctx, units)
	if err != nil {
		return nil, err
	}

	rep := Summarize(results, len(unitIDs))
	return &rep, nil
}
