package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}

	return nil, GetStatusOutput{
		Monitors:      status.Monitors,
		TrackedSlots:  status.TrackedSlots,
		LiveWindows:   status.LiveWindows,
		Transitioning: status.Transitioning,
		Uptime:        formatUptime(status.UptimeSeconds),
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.GetWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	windows := make([]WindowEntry, len(data.Windows))
	for i, w := range data.Windows {
		windows[i] = WindowEntry{
			ID:      w.ID,
			Class:   w.Class,
			Stale:   w.Stale,
			Buckets: w.Buckets,
		}
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleSnapshotNow(_ context.Context, _ *mcpsdk.CallToolRequest, _ SnapshotNowInput) (*mcpsdk.CallToolResult, SnapshotNowOutput, error) {
	live, err := s.client.Snapshot()
	if err != nil {
		return nil, SnapshotNowOutput{}, err
	}
	return nil, SnapshotNowOutput{LiveWindows: live}, nil
}

func (s *Server) handleRestoreNow(_ context.Context, _ *mcpsdk.CallToolRequest, _ RestoreNowInput) (*mcpsdk.CallToolResult, RestoreNowOutput, error) {
	restored, err := s.client.Restore()
	if err != nil {
		return nil, RestoreNowOutput{}, err
	}
	return nil, RestoreNowOutput{RestoredWindows: restored}, nil
}

// formatUptime renders whole seconds as a compact duration string.
func formatUptime(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
