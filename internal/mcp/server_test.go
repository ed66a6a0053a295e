package mcp

import "testing"

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer()
	if s.mcpServer == nil {
		t.Fatal("NewServer() did not create the underlying MCP server")
	}
	if s.client == nil {
		t.Fatal("NewServer() did not create an IPC client")
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m0s"},
		{3725, "1h2m5s"},
	}

	for _, tt := range tests {
		if got := formatUptime(tt.seconds); got != tt.want {
			t.Errorf("formatUptime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
