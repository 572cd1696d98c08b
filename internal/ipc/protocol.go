package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandNavigate   CommandType = "NAVIGATE"
	CommandScreenshot CommandType = "SCREENSHOT"
	CommandSetTitle   CommandType = "SET_TITLE"
	CommandSetSize    CommandType = "SET_SIZE"
	CommandSetScale   CommandType = "SET_SCALE"
	CommandRunScript  CommandType = "RUN_SCRIPT"
	CommandGetStatus  CommandType = "GET_STATUS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// NavigatePayload represents the payload for NAVIGATE
type NavigatePayload struct {
	Path string `json:"path"`
}

// SetTitlePayload represents the payload for SET_TITLE
type SetTitlePayload struct {
	Title string `json:"title"`
}

// SetSizePayload represents the payload for SET_SIZE. All-zero values
// request fullscreen at the screen bounds.
type SetSizePayload struct {
	PosX  int `json:"pos_x"`
	PosY  int `json:"pos_y"`
	SizeX int `json:"size_x"`
	SizeY int `json:"size_y"`
}

// SetScalePayload represents the payload for SET_SCALE
type SetScalePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RunScriptPayload represents the payload for RUN_SCRIPT
type RunScriptPayload struct {
	Source string `json:"source"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Fullscreen        bool  `json:"fullscreen"`
	PosX              int   `json:"pos_x"`
	PosY              int   `json:"pos_y"`
	Width             int   `json:"width"`
	Height            int   `json:"height"`
	LayoutWidth       int   `json:"layout_width"`
	LayoutHeight      int   `json:"layout_height"`
	RendererConnected bool  `json:"renderer_connected"`
	UptimeSeconds     int64 `json:"uptime_seconds"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
