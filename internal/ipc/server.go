package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/mlindgren/vitrine/internal/display"
	"github.com/mlindgren/vitrine/internal/router"
	"github.com/mlindgren/vitrine/internal/runtimepath"
)

// Controller is the slice of the router the IPC server drives.
type Controller interface {
	Submit(cmd router.Command) error
	Status() (display.Geometry, display.Layout, bool)
}

// Server handles IPC requests from controlling processes
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(ctrl Controller, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger.With("component", "ipc"),
		startTime:  time.Now(),
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

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// Close stops the server and removes the socket.
func (s *Server) Close() error {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	os.Remove(s.socketPath)
	return err
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
			s.logger.Warn("IPC accept error", "error", err)
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
		s.logger.Warn("IPC read error", "error", err)
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
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand translates an IPC request into a router submission
func (s *Server) handleCommand(req *Request) *Response {
	cmd, err := s.translate(req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	// GET_STATUS is a read, not a command.
	if cmd == nil {
		geom, layout, connected := s.ctrl.Status()
		resp, err := NewOKResponse(StatusData{
			Fullscreen:        geom.Fullscreen,
			PosX:              geom.X,
			PosY:              geom.Y,
			Width:             geom.Width,
			Height:            geom.Height,
			LayoutWidth:       layout.Width,
			LayoutHeight:      layout.Height,
			RendererConnected: connected,
			UptimeSeconds:     int64(time.Since(s.startTime).Seconds()),
		})
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return resp
	}

	if err := s.ctrl.Submit(cmd); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// translate maps a request onto a router command. A nil command with nil
// error means the request is a status read.
func (s *Server) translate(req *Request) (router.Command, error) {
	switch req.Command {
	case CommandNavigate:
		var p NavigatePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return router.Navigate{Path: p.Path}, nil

	case CommandScreenshot:
		return router.Screenshot{}, nil

	case CommandSetTitle:
		var p SetTitlePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return router.SetTitle{Text: p.Title}, nil

	case CommandSetSize:
		var p SetSizePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return router.SetSize{X: p.PosX, Y: p.PosY, Width: p.SizeX, Height: p.SizeY}, nil

	case CommandSetScale:
		var p SetScalePayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return router.SetScale{Width: p.Width, Height: p.Height}, nil

	case CommandRunScript:
		var p RunScriptPayload
		if err := unmarshalPayload(req.Payload, &p); err != nil {
			return nil, err
		}
		return router.RunScript{Source: p.Source}, nil

	case CommandGetStatus:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command: %s", req.Command)
	}
}

func unmarshalPayload(raw json.RawMessage, v interface{}) error {
	if raw == nil {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

// sendError sends an error response on the connection
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	respData, err := resp.Marshal()
	if err != nil {
		return
	}
	respData = append(respData, '\n')
	conn.Write(respData)
}
