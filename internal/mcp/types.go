package mcp

// NavigateInput is the input for the navigate tool.
type NavigateInput struct {
	Path string `json:"path" jsonschema:"required,Layout path relative to the content server root (e.g. 3.xlf.html)"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	Title string `json:"title" jsonschema:"required,New window title"`
}

// SetSizeInput is the input for the set_size tool.
type SetSizeInput struct {
	PosX  int `json:"pos_x,omitempty" jsonschema:"Window X position"`
	PosY  int `json:"pos_y,omitempty" jsonschema:"Window Y position"`
	SizeX int `json:"size_x,omitempty" jsonschema:"Window width (0 = screen width)"`
	SizeY int `json:"size_y,omitempty" jsonschema:"Window height (0 = screen height)"`
}

// SetScaleInput is the input for the set_scale tool.
type SetScaleInput struct {
	Width  int `json:"width" jsonschema:"required,Logical layout canvas width"`
	Height int `json:"height" jsonschema:"required,Logical layout canvas height"`
}

// RunScriptInput is the input for the run_script tool.
type RunScriptInput struct {
	Source string `json:"source" jsonschema:"required,JavaScript source to run in the content context"`
}

// EmptyInput is used by tools without parameters.
type EmptyInput struct{}

// AckOutput is returned by fire-and-forget tools.
type AckOutput struct {
	Queued bool `json:"queued"`
}

// StatusOutput is the output of the get_status tool.
type StatusOutput struct {
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
