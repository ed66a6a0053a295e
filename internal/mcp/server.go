package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MarcelInTO/MonitorKeeper/internal/ipc"
)

const (
	ServerName    = "monitorkeeper"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing the daemon over stdio. Every tool is a
// thin wrapper around the daemon's IPC socket, so the server works from any
// process that can reach the socket.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server talking to the running daemon.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the daemon's current status: monitor count, tracked window counts, and whether a monitor transition is in progress.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window the daemon is tracking, including which monitor counts have a saved placement for it.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snapshot_now",
		Description: "Force an immediate snapshot of all eligible window placements instead of waiting for the movement debounce.",
	}, s.handleSnapshotNow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_now",
		Description: "Force the daemon to reapply the placements saved for the current monitor count.",
	}, s.handleRestoreNow)
}
