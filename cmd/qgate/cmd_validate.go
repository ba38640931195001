package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qgate/internal/artifact"
	"qgate/internal/gate"
)

var validateFlags struct {
	root     string
	feature  string
	units    int
	unitIDs  []int
	specPath string
	manifest string
	parallel int
	attempts int
	timeout  time.Duration

	sections []string
	minSize  int
	kind     string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a feature's completion artifacts and report coverage",
	Long: `Validates the expected completion artifacts for a batch of work units and
prints the coverage report. Exits non-zero when coverage is incomplete, so
the command doubles as a quality gate in scripts.

The batch can be given inline (--feature with --units or --unit-ids) or as
a manifest file (--manifest).`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.root, "root", ".", "Artifact root directory")
	f.StringVar(&validateFlags.feature, "feature", "", "Feature name the artifacts belong to")
	f.IntVar(&validateFlags.units, "units", 0, "Validate units 1..N")
	f.IntSliceVar(&validateFlags.unitIDs, "unit-ids", nil, "Explicit unit IDs to validate")
	f.StringVar(&validateFlags.specPath, "spec", "", "Artifact spec file (YAML or JSON)")
	f.StringVar(&validateFlags.manifest, "manifest", "", "Batch manifest file (feature, units, spec in one document)")
	f.IntVar(&validateFlags.parallel, "parallel", gate.DefaultMaxConcurrency, "Worker pool size")
	f.IntVar(&validateFlags.attempts, "attempts", gate.DefaultMaxAttempts, "Attempts per missing artifact")
	f.DurationVar(&validateFlags.timeout, "timeout", 0, "Overall batch deadline (0 = none)")
	f.StringSliceVar(&validateFlags.sections, "section", nil, "Required section (repeatable; alternative to --spec)")
	f.IntVar(&validateFlags.minSize, "min-size", 0, "Minimum artifact size in bytes (alternative to --spec)")
	f.StringVar(&validateFlags.kind, "kind", "task-completion", "Artifact kind (alternative to --spec)")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	featureName := validateFlags.feature
	unitIDs := validateFlags.unitIDs
	var spec *artifact.Spec

	switch {
	case validateFlags.manifest != "":
		m, err := gate.LoadManifest(validateFlags.manifest)
		if err != nil {
			return err
		}
		featureName = m.Feature
		unitIDs = m.UnitIDs()
		spec = &m.Spec
	case validateFlags.specPath != "":
		s, err := artifact.LoadSpec(validateFlags.specPath)
		if err != nil {
			return err
		}
		spec = s
	default:
		spec = &artifact.Spec{
			Kind:             validateFlags.kind,
			RequiredSections: validateFlags.sections,
			MinSizeBytes:     validateFlags.minSize,
		}
	}

	if len(unitIDs) == 0 {
		for i := 1; i <= validateFlags.units; i++ {
			unitIDs = append(unitIDs, i)
		}
	}
	if featureName == "" {
		return fmt.Errorf("--feature (or --manifest) is required")
	}
	if len(unitIDs) == 0 {
		return fmt.Errorf("--units or --unit-ids (or --manifest) is required")
	}

	opts := gate.Options{
		MaxConcurrency: validateFlags.parallel,
		MaxAttempts:    validateFlags.attempts,
		Timeout:        validateFlags.timeout,
	}
	rep, err := gate.ValidateBatch(cmd.Context(), validateFlags.root, featureName, unitIDs, spec, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Feature:  %s\n", featureName)
	fmt.Fprintf(out, "Units:    %d\n", rep.Total)
	fmt.Fprintf(out, "Valid:    %d\n", rep.ValidCount)
	fmt.Fprintf(out, "Coverage: %.1f%%\n", rep.CoveragePercent)
	fmt.Fprintf(out, "Status:   %s\n", rep.OverallStatus)
	if len(rep.MissingUnitIDs) > 0 {
		fmt.Fprintf(out, "Missing:  %s\n", joinInts(rep.MissingUnitIDs))
	}

	if rep.OverallStatus != gate.StatusComplete {
		return fmt.Errorf("quality gate failed: coverage %.1f%%", rep.CoveragePercent)
	}
	return nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
