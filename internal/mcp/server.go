// Package mcp exposes the player's control surface as MCP tools over stdio,
// forwarding every call to the running daemon through the IPC client.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mlindgren/vitrine/internal/ipc"
)

const (
	ServerName    = "vitrine"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for driving the display.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server talking to the daemon socket.
func NewServer() *Server {
	s := &Server{client: ipc.NewClient()}

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
		Name:        "navigate",
		Description: "Load a layout page into the renderer. The path is resolved against the content server root; layout pages are named <id>.xlf.html.",
	}, s.handleNavigate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "screenshot",
		Description: "Request an asynchronous PNG capture of the content surface. The image is written to the daemon's configured screenshot path once the renderer delivers it.",
	}, s.handleScreenshot)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Set the display window title.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_size",
		Description: "Apply window geometry. All-zero values enter fullscreen on the whole screen; a zero width or height is replaced with the screen dimension.",
	}, s.handleSetSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_scale",
		Description: "Set the logical layout canvas size the content surface is scaled against.",
	}, s.handleSetScale)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_script",
		Description: "Inject JavaScript into the content context. Fire-and-forget; no return value.",
	}, s.handleRunScript)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Read the current window geometry, layout canvas and renderer connection state.",
	}, s.handleGetStatus)
}

func (s *Server) handleNavigate(_ context.Context, _ *mcpsdk.CallToolRequest, args NavigateInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.Navigate(args.Path); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleScreenshot(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.Screenshot(); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleSetTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.SetTitle(args.Title); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleSetSize(_ context.Context, _ *mcpsdk.CallToolRequest, args SetSizeInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.SetSize(args.PosX, args.PosY, args.SizeX, args.SizeY); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleSetScale(_ context.Context, _ *mcpsdk.CallToolRequest, args SetScaleInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.SetScale(args.Width, args.Height); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleRunScript(_ context.Context, _ *mcpsdk.CallToolRequest, args RunScriptInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.client.RunScript(args.Source); err != nil {
		return nil, AckOutput{}, err
	}
	return nil, AckOutput{Queued: true}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Fullscreen:        status.Fullscreen,
		PosX:              status.PosX,
		PosY:              status.PosY,
		Width:             status.Width,
		Height:            status.Height,
		LayoutWidth:       status.LayoutWidth,
		LayoutHeight:      status.LayoutHeight,
		RendererConnected: status.RendererConnected,
		UptimeSeconds:     status.UptimeSeconds,
	}, nil
}
