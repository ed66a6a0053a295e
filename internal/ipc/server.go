package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/MarcelInTO/MonitorKeeper/internal/daemon"
	"github.com/MarcelInTO/MonitorKeeper/internal/runtimepath"
)

// Server handles IPC requests from clients. Every command is forwarded to the
// keeper's event loop, so handlers never touch placement state directly.
type Server struct {
	socketPath   string
	listener     net.Listener
	keeper       *daemon.Keeper
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(keeper *daemon.Keeper) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		keeper:     keeper,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetWindows:
		return s.handleGetWindows()
	case CommandSnapshot:
		return s.handleSnapshot()
	case CommandRestore:
		return s.handleRestore()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	status := s.keeper.Status()

	data := StatusData{
		Monitors:      status.Monitors,
		TrackedSlots:  status.Tracked,
		LiveWindows:   status.Live,
		Transitioning: status.Transitioning,
		UptimeSeconds: int64(status.Uptime.Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleGetWindows returns every live tracked window
func (s *Server) handleGetWindows() *Response {
	tracked := s.keeper.Windows()

	windows := make([]WindowInfo, len(tracked))
	for i, w := range tracked {
		windows[i] = WindowInfo{
			ID:      w.ID,
			Class:   w.Class,
			Stale:   w.Stale,
			Buckets: w.Buckets,
		}
	}

	resp, _ := NewOKResponse(WindowsData{Windows: windows})
	return resp
}

// handleSnapshot forces an immediate snapshot sweep
func (s *Server) handleSnapshot() *Response {
	log.Println("IPC: Received SNAPSHOT command")
	live := s.keeper.SnapshotNow()

	resp, _ := NewOKResponse(SweepData{Windows: live})
	return resp
}

// handleRestore forces a restore pass at the current monitor count
func (s *Server) handleRestore() *Response {
	log.Println("IPC: Received RESTORE command")
	restored := s.keeper.RestoreNow()

	resp, _ := NewOKResponse(SweepData{Windows: restored})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
