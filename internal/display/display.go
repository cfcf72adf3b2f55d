// Package display shows frames to the operator and polls for key presses.
package display

import (
	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// QuitKey ends a video or camera loop.
const QuitKey = 'q'

// NoKey is returned by WaitKey when no key was pressed in time.
const NoKey = -1

// Viewer shows named images and waits for operator input.
type Viewer interface {
	// Show displays img in the window called name, creating it on first use.
	Show(name string, img gocv.Mat)
	// WaitKey waits up to delayMs milliseconds for a key press (0 waits
	// forever) and returns its code, or NoKey.
	WaitKey(delayMs int) int
	Close() error
}

// IsQuit reports whether key is the quit key. Only the low byte is
// compared, as some platforms set modifier bits above it.
func IsQuit(key int) bool {
	return key != NoKey && key&0xFF == QuitKey
}

// Windows is a Viewer backed by OpenCV highgui windows.
type Windows struct {
	windows map[string]*gocv.Window
	order   []string
}

// NewWindows returns a Viewer that opens windows lazily.
func NewWindows() *Windows {
	return &Windows{windows: make(map[string]*gocv.Window)}
}

// Show implements Viewer.
func (w *Windows) Show(name string, img gocv.Mat) {
	win, ok := w.windows[name]
	if !ok {
		win = gocv.NewWindow(name)
		w.windows[name] = win
		w.order = append(w.order, name)
	}
	win.IMShow(img)
}

// WaitKey implements Viewer. With no window open there is nothing to
// receive key events, so it returns NoKey immediately.
func (w *Windows) WaitKey(delayMs int) int {
	if len(w.order) == 0 {
		return NoKey
	}
	return w.windows[w.order[0]].WaitKey(delayMs)
}

// Close destroys every window.
func (w *Windows) Close() error {
	var err error
	for _, name := range w.order {
		err = multierr.Append(err, w.windows[name].Close())
		delete(w.windows, name)
	}
	w.order = nil
	return err
}

// Headless is a Viewer with no output. WaitKey never reports a key, so loops
// run until their source is exhausted.
type Headless struct {
	// Shown counts Show calls per window name.
	Shown map[string]int
}

// NewHeadless returns a Viewer that displays nothing.
func NewHeadless() *Headless {
	return &Headless{Shown: make(map[string]int)}
}

// Show implements Viewer.
func (h *Headless) Show(name string, _ gocv.Mat) {
	h.Shown[name]++
}

// WaitKey implements Viewer.
func (h *Headless) WaitKey(int) int { return NoKey }

// Close implements Viewer.
func (h *Headless) Close() error { return nil }
