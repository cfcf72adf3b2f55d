package histogram

import (
	"context"
	"fmt"
	"io"

	"colorseg/internal/display"
	"colorseg/internal/logging"
	"colorseg/internal/source"

	"gocv.io/x/gocv"
	"gonum.org/v1/plot/vg"
)

// Window names and timing for the live visualizer.
const (
	WindowFrame     = "Frame"
	WindowHistogram = "Histogram"

	frameKeyDelayMs = 30
)

// DefaultInput is the video the visualizer opens when none is given.
const DefaultInput = "samples/video1.mp4"

// Options configures a Visualizer.
type Options struct {
	Viewer display.Viewer // defaults to display.Headless

	// Plot enables the rendered histogram window.
	Plot          bool
	Width, Height vg.Length

	// Text, when set, receives terminal histograms every Every frames.
	Text      io.Writer
	TextWidth int
	Every     int

	// WaitForKey holds a still image on screen until a key is pressed.
	WaitForKey bool

	Log logging.Logger
}

// Visualizer shows each frame next to its HSV histograms until the source
// ends or the operator quits.
type Visualizer struct {
	opts Options
	log  logging.Logger
}

// NewVisualizer fills in defaults for unset options.
func NewVisualizer(opts Options) *Visualizer {
	if opts.Viewer == nil {
		opts.Viewer = display.NewHeadless()
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.TextWidth < 1 {
		opts.TextWidth = 40
	}
	return &Visualizer{opts: opts, log: logging.OrNop(opts.Log)}
}

// Run processes src frame by frame and returns the number of frames shown.
func (v *Visualizer) Run(ctx context.Context, src source.Source) (int, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	frames := 0
	for {
		select {
		case <-ctx.Done():
			return frames, nil
		default:
		}

		if !src.Read(&frame) {
			break
		}

		if err := v.show(frame, frames); err != nil {
			return frames, err
		}
		frames++

		if display.IsQuit(v.opts.Viewer.WaitKey(frameKeyDelayMs)) {
			return frames, nil
		}
	}

	if frames == 0 {
		return 0, fmt.Errorf("%w: no frames in %s", source.ErrUnavailable, src.Name())
	}
	if src.Kind() == source.KindImage && v.opts.WaitForKey {
		v.opts.Viewer.WaitKey(0)
	}
	return frames, nil
}

func (v *Visualizer) show(frame gocv.Mat, index int) error {
	set, err := Compute(frame)
	if err != nil {
		return fmt.Errorf("frame %d: %w", index, err)
	}

	fields := []interface{}{"index", index}
	for _, ch := range Channels {
		sum := set.Summarize(ch)
		fields = append(fields, ch.Key(), fmt.Sprintf("peak=%d(%.0f) mean=%.1f", sum.Peak, sum.PeakCount, sum.Mean))
	}
	v.log.Debugw("frame", fields...)

	v.opts.Viewer.Show(WindowFrame, frame)

	if v.opts.Plot {
		panel, err := RenderMat(set, v.opts.Width, v.opts.Height)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
		v.opts.Viewer.Show(WindowHistogram, panel)
		panel.Close()
	}

	if v.opts.Text != nil && index%v.opts.Every == 0 {
		fmt.Fprintf(v.opts.Text, "== frame %d ==\n", index)
		if err := WriteText(v.opts.Text, frame, v.opts.TextWidth); err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
	}
	return nil
}
