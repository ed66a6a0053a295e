package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Monitors      int    `json:"monitors"`
	TrackedSlots  int    `json:"tracked_slots"`
	LiveWindows   int    `json:"live_windows"`
	Transitioning bool   `json:"transitioning"`
	Uptime        string `json:"uptime"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowEntry describes one tracked window.
type WindowEntry struct {
	ID      uint32 `json:"id"`
	Class   string `json:"class"`
	Stale   int    `json:"stale"`
	Buckets []int  `json:"buckets"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowEntry `json:"windows"`
}

// SnapshotNowInput is the input for the snapshot_now tool.
type SnapshotNowInput struct{}

// SnapshotNowOutput is the output for the snapshot_now tool.
type SnapshotNowOutput struct {
	LiveWindows int `json:"live_windows"`
}

// RestoreNowInput is the input for the restore_now tool.
type RestoreNowInput struct{}

// RestoreNowOutput is the output for the restore_now tool.
type RestoreNowOutput struct {
	RestoredWindows int `json:"restored_windows"`
}
