package gatemcp

import (
	"context"
	"os"
	"time"

	"qgate/internal/logging"
)

// WatchParent monitors for parent process death in a background goroutine
// and calls cancelFn when the parent PID changes, so an orchestrator that
// disconnects without closing stdio does not leave a zombie server behind.
//
// This must NOT read from stdin: the MCP SDK's StdioTransport owns stdin
// exclusively, and stealing bytes here would corrupt the JSON-RPC stream.
func WatchParent(ctx context.Context, cancelFn context.CancelFunc) {
	ppid := os.Getppid()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
				if os.Getppid() != ppid {
					logging.New("gate-mcp").Warn("parent process died, shutting down", "was_pid", ppid)
					cancelFn()
					return
				}
			}
		}
	}()
}
