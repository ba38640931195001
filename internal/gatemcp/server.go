// Package gatemcp exposes the quality gate to an LLM orchestrator as MCP
// tools over stdio. The orchestrator owns prompting and scheduling; this
// server only answers "are the artifacts there and well-formed".
package gatemcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"qgate/internal/artifact"
	"qgate/internal/feature"
	"qgate/internal/gate"
	"qgate/internal/logging"
	"qgate/internal/template"
)

// Server wraps the MCP SDK server around a fixed artifact root.
type Server struct {
	MCPServer *sdkmcp.Server
	Root      string

	resolver  *feature.Resolver
	templates *template.Cache
	log       *slog.Logger
}

// NewServer creates a gate MCP server with validation tools registered.
// The resolver is anchored to root once here; every tool call reuses it.
// templateDir may be empty if the render_template tool is not needed.
func NewServer(root, templateDir, version string) (*Server, error) {
	resolver, err := feature.NewResolver(root)
	if err != nil {
		return nil, fmt.Errorf("anchor resolver at %s: %w", root, err)
	}
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "qgate", Version: version},
			nil,
		),
		Root:      root,
		resolver:  resolver,
		templates: template.NewCache(templateDir),
		log:       logging.New("gate-mcp"),
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_batch",
		Description: "Validate completion artifacts for a feature's work units and return the coverage report. Incomplete coverage means: do not advance the pipeline.",
	}, s.handleValidateBatch)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "render_template",
		Description: "Render a prompt template with literal string substitution. Fails if any placeholder is uncovered; extra variables are reported as unused.",
	}, s.handleRenderTemplate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "inspect_artifact",
		Description: "Validate a single unit's artifact and return its heading outline.",
	}, s.handleInspectArtifact)
}

// --- Tool input/output types ---

type validateBatchInput struct {
	Feature          string   `json:"feature" jsonschema:"feature name the artifacts belong to"`
	UnitIDs          []int    `json:"unit_ids,omitempty" jsonschema:"explicit unit IDs to validate"`
	UnitCount        int      `json:"unit_count,omitempty" jsonschema:"validate units 1..N (alternative to unit_ids)"`
	Kind             string   `json:"kind,omitempty" jsonschema:"artifact kind (default task-completion)"`
	RequiredSections []string `json:"required_sections,omitempty" jsonschema:"substrings every artifact must contain"`
	MinSizeBytes     int      `json:"min_size_bytes,omitempty" jsonschema:"minimum artifact size in bytes"`
	MaxAttempts      int      `json:"max_attempts,omitempty" jsonschema:"retries per missing artifact (default 3)"`
	MaxConcurrency   int      `json:"max_concurrency,omitempty" jsonschema:"worker pool size (default 10)"`
}

type validateBatchOutput struct {
	Report  *gate.Report      `json:"report"`
	Results []artifact.Result `json:"results"`
}

type renderTemplateInput struct {
	Template string            `json:"template" jsonschema:"template file name relative to the template directory"`
	Vars     map[string]string `json:"vars,omitempty" jsonschema:"placeholder values (plain strings only)"`
	Reload   bool              `json:"reload,omitempty" jsonschema:"bypass the cache and re-read the template file"`
}

type renderTemplateOutput struct {
	Rendered   string   `json:"rendered"`
	UnusedVars []string `json:"unused_vars,omitempty"`
}

type inspectArtifactInput struct {
	Feature          string   `json:"feature" jsonschema:"feature name the artifact belongs to"`
	UnitID           int      `json:"unit_id" jsonschema:"work unit ID"`
	Kind             string   `json:"kind,omitempty" jsonschema:"artifact kind (default task-completion)"`
	RequiredSections []string `json:"required_sections,omitempty" jsonschema:"substrings the artifact must contain"`
	MinSizeBytes     int      `json:"min_size_bytes,omitempty" jsonschema:"minimum artifact size in bytes"`
}

type inspectArtifactOutput struct {
	Result  artifact.Result `json:"result"`
	Outline []string        `json:"outline,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleValidateBatch(ctx context.Context, _ *sdkmcp.CallToolRequest, input validateBatchInput) (*sdkmcp.CallToolResult, validateBatchOutput, error) {
	unitIDs := input.UnitIDs
	if len(unitIDs) == 0 {
		for i := 1; i <= input.UnitCount; i++ {
			unitIDs = append(unitIDs, i)
		}
	}
	if len(unitIDs) == 0 {
		return nil, validateBatchOutput{}, fmt.Errorf("unit_ids or unit_count required")
	}

	spec := &artifact.Spec{
		Kind:             defaultKind(input.Kind),
		RequiredSections: input.RequiredSections,
		MinSizeBytes:     input.MinSizeBytes,
	}
	opts := gate.Options{MaxAttempts: input.MaxAttempts, MaxConcurrency: input.MaxConcurrency}

	units := make([]artifact.Unit, len(unitIDs))
	for i, id := range unitIDs {
		units[i] = artifact.Unit{Feature: input.Feature, ID: id, Spec: spec}
	}

	results, err := gate.NewRunner(s.resolver, opts).Validate(ctx, units)
	if err != nil {
		s.log.Warn("batch rejected", "feature_units", len(unitIDs), "error", err)
		return nil, validateBatchOutput{}, err
	}

	rep := gate.Summarize(results, len(unitIDs))
	s.log.Info("batch validated", "total", rep.Total, "valid", rep.ValidCount, "status", string(rep.OverallStatus))
	return nil, validateBatchOutput{Report: &rep, Results: results}, nil
}

func (s *Server) handleRenderTemplate(_ context.Context, _ *sdkmcp.CallToolRequest, input renderTemplateInput) (*sdkmcp.CallToolResult, renderTemplateOutput, error) {
	load := s.templates.Load
	if input.Reload {
		load = s.templates.Reload
	}
	desc, err := load(input.Template)
	if err != nil {
		return nil, renderTemplateOutput{}, err
	}

	rendered, unused, err := template.Render(desc, input.Vars)
	if err != nil {
		return nil, renderTemplateOutput{}, err
	}
	if len(unused) > 0 {
		s.log.Warn("unused template variables", "template", input.Template, "vars", unused)
	}
	return nil, renderTemplateOutput{Rendered: rendered, UnusedVars: unused}, nil
}

func (s *Server) handleInspectArtifact(_ context.Context, _ *sdkmcp.CallToolRequest, input inspectArtifactInput) (*sdkmcp.CallToolResult, inspectArtifactOutput, error) {
	name, err := s.resolver.Resolve(input.Feature)
	if err != nil {
		// A single-unit inspection reports the rejection as a result so the
		// orchestrator sees it alongside missing/malformed; only the batch
		// runner treats it as fatal.
		if feature.IsSecurityError(err) {
			s.log.Warn("feature name rejected", "unit", input.UnitID)
			res := artifact.Result{
				UnitID:   input.UnitID,
				Status:   artifact.StatusSecurityRejected,
				Detail:   err.Error(),
				Attempts: 1,
			}
			return nil, inspectArtifactOutput{Result: res}, nil
		}
		return nil, inspectArtifactOutput{}, err
	}

	spec := &artifact.Spec{
		Kind:             defaultKind(input.Kind),
		RequiredSections: input.RequiredSections,
		MinSizeBytes:     input.MinSizeBytes,
	}
	path, err := spec.Path(name, input.UnitID)
	if err != nil {
		return nil, inspectArtifactOutput{}, err
	}

	res := artifact.Validate(spec, input.UnitID, path)
	res.Attempts = 1

	out := inspectArtifactOutput{Result: res}
	if data, err := os.ReadFile(path); err == nil {
		out.Outline = artifact.Outline(data)
	}
	return nil, out, nil
}

func defaultKind(kind string) string {
	if kind == "" {
		return "task-completion"
	}
	return kind
}
