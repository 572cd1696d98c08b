package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/mlindgren/vitrine/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) sendWithPayload(cmd CommandType, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = data
	}

	_, err := c.sendRequest(&Request{Command: cmd, Payload: raw})
	return err
}

// Navigate asks the daemon to load a layout path into the renderer.
func (c *Client) Navigate(path string) error {
	return c.sendWithPayload(CommandNavigate, NavigatePayload{Path: path})
}

// Screenshot requests an asynchronous PNG capture.
func (c *Client) Screenshot() error {
	return c.sendWithPayload(CommandScreenshot, nil)
}

// SetTitle updates the window title.
func (c *Client) SetTitle(title string) error {
	return c.sendWithPayload(CommandSetTitle, SetTitlePayload{Title: title})
}

// SetSize applies window geometry. All-zero values request fullscreen.
func (c *Client) SetSize(posX, posY, sizeX, sizeY int) error {
	return c.sendWithPayload(CommandSetSize, SetSizePayload{
		PosX: posX, PosY: posY, SizeX: sizeX, SizeY: sizeY,
	})
}

// SetScale updates the logical layout canvas.
func (c *Client) SetScale(width, height int) error {
	return c.sendWithPayload(CommandSetScale, SetScalePayload{Width: width, Height: height})
}

// RunScript injects a script into the content context.
func (c *Client) RunScript(source string) error {
	return c.sendWithPayload(CommandRunScript, RunScriptPayload{Source: source})
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
