package x11

import "testing"

func TestPickMonitorPrefersPrimary(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "HDMI-1", X: 1920, Width: 1920, Height: 1080},
		{ID: 1, Name: "eDP-1", Width: 2560, Height: 1440, Primary: true},
	}

	m := pickMonitor(monitors)
	if m.Name != "eDP-1" || m.Width != 2560 {
		t.Fatalf("expected the primary monitor, got %+v", m)
	}
}

func TestPickMonitorFallsBackToFirst(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", Width: 1920, Height: 1080},
		{ID: 1, Name: "DP-2", X: 1920, Width: 1920, Height: 1080},
	}

	m := pickMonitor(monitors)
	if m.Name != "DP-1" {
		t.Fatalf("expected the first monitor without a primary, got %+v", m)
	}
}
