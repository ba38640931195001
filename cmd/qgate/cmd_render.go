package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qgate/internal/logging"
	"qgate/internal/template"
)

var renderFlags struct {
	templateDir string
	vars        []string
	outPath     string
}

var renderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a template with safe literal substitution",
	Long: `Renders a template file, substituting {name} placeholders from --var pairs.
Every placeholder must be covered or the render fails; extra variables are
logged as unused but do not fail.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.templateDir, "template-dir", ".", "Directory templates are read from")
	f.StringArrayVar(&renderFlags.vars, "var", nil, "Template variable as key=value (repeatable)")
	f.StringVarP(&renderFlags.outPath, "out", "o", "", "Write output to file instead of stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	vars := make(map[string]string, len(renderFlags.vars))
	for _, pair := range renderFlags.vars {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --var %q: want key=value", pair)
		}
		vars[key] = value
	}

	cache := template.NewCache(renderFlags.templateDir)
	desc, err := cache.Load(args[0])
	if err != nil {
		return err
	}

	rendered, unused, err := template.Render(desc, vars)
	if err != nil {
		return err
	}
	if len(unused) > 0 {
		logging.New("render").Warn("unused template variables", "vars", unused)
	}

	if renderFlags.outPath != "" {
		if err := os.WriteFile(renderFlags.outPath, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
