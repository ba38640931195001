package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"qgate/internal/gatemcp"
	"qgate/internal/logging"
)

var serveFlags struct {
	root        string
	templateDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio for orchestrator integration",
	Long: `Starts an MCP server over stdin/stdout. The orchestrator connects and
calls the gate tools (validate_batch, render_template, inspect_artifact)
directly instead of shelling out per batch.

The server monitors for parent process death and self-terminates when the
orchestrator disconnects, to prevent zombie processes.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.root, "root", ".", "Artifact root directory")
	f.StringVar(&serveFlags.templateDir, "template-dir", ".", "Directory templates are read from")
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, err := gatemcp.NewServer(serveFlags.root, serveFlags.templateDir, version)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	gatemcp.WatchParent(ctx, cancel)

	logging.New("gate-mcp").Info("starting qgate MCP server over stdio", "root", serveFlags.root)
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
