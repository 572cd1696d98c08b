package scale

import (
	"math"
	"testing"
)

func TestComputeExactMatch(t *testing.T) {
	r, ok := Compute(1920, 1080, 1920, 1080)
	if !ok {
		t.Fatalf("expected ok for non-zero inputs")
	}
	want := Result{X: 0, Y: 0, W: 1920, H: 1080, Zoom: 1.0}
	if r != want {
		t.Fatalf("expected %+v, got %+v", want, r)
	}
}

func TestComputeWiderWindowScalesByHeight(t *testing.T) {
	// Window aspect 1.778 > layout aspect 1.333: scale by height.
	r, ok := Compute(1920, 1080, 800, 600)
	if !ok {
		t.Fatalf("expected ok")
	}
	if r.Zoom != 1.8 {
		t.Fatalf("expected zoom 1.8, got %v", r.Zoom)
	}
	if r.X != 240 || r.Y != 0 {
		t.Fatalf("expected offset (240,0), got (%d,%d)", r.X, r.Y)
	}
	if r.W != 1440 || r.H != 1080 {
		t.Fatalf("expected size 1440x1080, got %dx%d", r.W, r.H)
	}
}

func TestComputeTallerWindowScalesByWidth(t *testing.T) {
	r, ok := Compute(800, 1200, 1920, 1080)
	if !ok {
		t.Fatalf("expected ok")
	}
	if math.Abs(r.Zoom-800.0/1920.0) > 1e-9 {
		t.Fatalf("expected zoom %.6f, got %v", 800.0/1920.0, r.Zoom)
	}
	if r.X != 0 || r.Y != 375 {
		t.Fatalf("expected offset (0,375), got (%d,%d)", r.X, r.Y)
	}
	if r.W != 800 || r.H != 450 {
		t.Fatalf("expected size 800x450, got %dx%d", r.W, r.H)
	}
}

func TestComputeZeroGuard(t *testing.T) {
	cases := [][4]int{
		{0, 1080, 1920, 1080},
		{1920, 0, 1920, 1080},
		{1920, 1080, 0, 1080},
		{1920, 1080, 1920, 0},
	}
	for _, c := range cases {
		if _, ok := Compute(c[0], c[1], c[2], c[3]); ok {
			t.Fatalf("expected ok=false for inputs %v", c)
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	a, _ := Compute(1366, 768, 1920, 1080)
	b, _ := Compute(1366, 768, 1920, 1080)
	if a != b {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestComputeViewportFitsWindow(t *testing.T) {
	dims := []int{1, 100, 768, 1080, 1440, 2560, 3840}
	for _, ww := range dims {
		for _, wh := range dims {
			for _, lw := range dims {
				for _, lh := range dims {
					r, ok := Compute(ww, wh, lw, lh)
					if !ok {
						t.Fatalf("unexpected guard for %dx%d / %dx%d", ww, wh, lw, lh)
					}
					if r.Zoom <= 0 {
						t.Fatalf("zoom must be positive, got %v", r.Zoom)
					}
					if r.X < 0 || r.Y < 0 {
						t.Fatalf("negative offset (%d,%d) for %dx%d / %dx%d", r.X, r.Y, ww, wh, lw, lh)
					}
					if r.X+r.W > ww || r.Y+r.H > wh {
						t.Fatalf("viewport (%d,%d %dx%d) exceeds window %dx%d", r.X, r.Y, r.W, r.H, ww, wh)
					}
				}
			}
		}
	}
}
