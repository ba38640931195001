package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qgate/internal/artifact"
	"qgate/internal/feature"
)

var inspectFlags struct {
	root     string
	feat     string
	unitID   int
	specPath string
	sections []string
	minSize  int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Check a single unit's artifact and show its heading outline",
	RunE:  runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.StringVar(&inspectFlags.root, "root", ".", "Artifact root directory")
	f.StringVar(&inspectFlags.feat, "feature", "", "Feature name (required)")
	f.IntVar(&inspectFlags.unitID, "unit", 0, "Work unit ID (required)")
	f.StringVar(&inspectFlags.specPath, "spec", "", "Artifact spec file (YAML or JSON)")
	f.StringSliceVar(&inspectFlags.sections, "section", nil, "Required section (repeatable; alternative to --spec)")
	f.IntVar(&inspectFlags.minSize, "min-size", 0, "Minimum artifact size in bytes (alternative to --spec)")

	_ = inspectCmd.MarkFlagRequired("feature")
	_ = inspectCmd.MarkFlagRequired("unit")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	resolver, err := feature.NewResolver(inspectFlags.root)
	if err != nil {
		return err
	}
	name, err := resolver.Resolve(inspectFlags.feat)
	if err != nil {
		return err
	}

	spec := &artifact.Spec{
		Kind:             "task-completion",
		RequiredSections: inspectFlags.sections,
		MinSizeBytes:     inspectFlags.minSize,
	}
	if inspectFlags.specPath != "" {
		if spec, err = artifact.LoadSpec(inspectFlags.specPath); err != nil {
			return err
		}
	}

	path, err := spec.Path(name, inspectFlags.unitID)
	if err != nil {
		return err
	}
	res := artifact.Validate(spec, inspectFlags.unitID, path)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Feature: %s\n", name)
	fmt.Fprintf(out, "Unit:    %d\n", inspectFlags.unitID)
	fmt.Fprintf(out, "Status:  %s\n", res.Status)
	if res.Detail != "" {
		fmt.Fprintf(out, "Detail:  %s\n", res.Detail)
	}

	if data, err := os.ReadFile(path); err == nil {
		if outline := artifact.Outline(data); len(outline) > 0 {
			fmt.Fprintf(out, "Outline:\n")
			for _, h := range outline {
				fmt.Fprintf(out, "  %s\n", h)
			}
		}
	}
	return nil
}
