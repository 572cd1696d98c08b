// Package scale maps a logical layout canvas onto a physical window.
//
// Layouts are authored against a fixed canvas (e.g. 1920x1080). The window
// the player runs in can be any size, so the content surface is scaled
// uniformly and centered along the axis with slack.
package scale

// Result describes where the content surface sits inside the window and the
// zoom factor applied to its content.
type Result struct {
	X    int
	Y    int
	W    int
	H    int
	Zoom float64
}

// Compute derives the viewport placement and zoom for a layout canvas of
// layoutW x layoutH shown in a window of windowW x windowH.
//
// Returns ok=false when any dimension is zero; callers must skip applying
// the result in that case. The computation is pure: identical inputs yield
// identical output.
func Compute(windowW, windowH, layoutW, layoutH int) (Result, bool) {
	if windowW == 0 || windowH == 0 || layoutW == 0 || layoutH == 0 {
		return Result{}, false
	}

	// Direct match: no scaling cost.
	if windowW == layoutW && windowH == layoutH {
		return Result{X: 0, Y: 0, W: layoutW, H: layoutH, Zoom: 1.0}, true
	}

	windowAspect := float64(windowW) / float64(windowH)
	layoutAspect := float64(layoutW) / float64(layoutH)

	if windowAspect > layoutAspect {
		// Window is wider than the layout: scale by height, center
		// horizontally.
		zoom := float64(windowH) / float64(layoutH)
		w := int(float64(layoutW) * zoom)
		return Result{
			X:    (windowW - w) / 2,
			Y:    0,
			W:    w,
			H:    windowH,
			Zoom: zoom,
		}, true
	}

	// Window is narrower (or equal aspect): scale by width, center
	// vertically.
	zoom := float64(windowW) / float64(layoutW)
	h := int(float64(layoutH) * zoom)
	return Result{
		X:    0,
		Y:    (windowH - h) / 2,
		W:    windowW,
		H:    h,
		Zoom: zoom,
	}, true
}
