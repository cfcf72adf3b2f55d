// Package pipeline drives the segmentation tool: it reads frames from a
// source, segments them, composites and saves the outputs, and shows them.
//
// Processing is strictly sequential. Each frame is read, segmented,
// composited, saved and displayed before the next one is read.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"colorseg/internal/composite"
	"colorseg/internal/display"
	"colorseg/internal/logging"
	"colorseg/internal/segment"
	"colorseg/internal/source"

	"gocv.io/x/gocv"
)

// Window names.
const (
	WindowOriginal = "Original"
	WindowResult   = "Result"
)

// streamKeyDelayMs is how long each video frame waits for the quit key.
const streamKeyDelayMs = 1

// Mode is the driver state chosen once from the input kind.
type Mode int

const (
	// ModeStaticImage processes one frame and waits for a key.
	ModeStaticImage Mode = iota
	// ModeVideoOrCamera processes frames until exhaustion or quit.
	ModeVideoOrCamera
)

func (m Mode) String() string {
	switch m {
	case ModeStaticImage:
		return "StaticImage"
	case ModeVideoOrCamera:
		return "VideoOrCamera"
	default:
		return "Unknown"
	}
}

// ModeFor returns the driver mode for an input kind.
func ModeFor(k source.Kind) Mode {
	if k.Streaming() {
		return ModeVideoOrCamera
	}
	return ModeStaticImage
}

// StopReason records why Run returned.
type StopReason int

const (
	StopExhausted StopReason = iota
	StopQuit
	StopInterrupted
)

func (s StopReason) String() string {
	switch s {
	case StopExhausted:
		return "exhausted"
	case StopQuit:
		return "quit"
	case StopInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Stats summarises a run.
type Stats struct {
	Mode   Mode
	Frames int
	Reason StopReason
}

// Options configures a Runner.
type Options struct {
	Config segment.Config
	Writer *composite.Writer // required
	Viewer display.Viewer    // defaults to display.Headless
	Out    io.Writer         // operator report; defaults to io.Discard
	Log    logging.Logger

	// WaitForKey makes static-image mode block until a key is pressed
	// after showing its results.
	WaitForKey bool
}

// Runner processes frames with one segmentation strategy chosen at
// construction.
type Runner struct {
	seg        segment.Segmenter
	writer     *composite.Writer
	viewer     display.Viewer
	out        io.Writer
	log        logging.Logger
	waitForKey bool
}

// New validates the configuration and selects the segmentation strategy.
func New(opts Options) (*Runner, error) {
	if opts.Writer == nil {
		return nil, fmt.Errorf("output writer is required")
	}
	seg, err := segment.New(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("invalid segmentation config: %w", err)
	}

	r := &Runner{
		seg:        seg,
		writer:     opts.Writer,
		viewer:     opts.Viewer,
		out:        opts.Out,
		log:        logging.OrNop(opts.Log),
		waitForKey: opts.WaitForKey,
	}
	if r.viewer == nil {
		r.viewer = display.NewHeadless()
	}
	if r.out == nil {
		r.out = io.Discard
	}
	return r, nil
}

// Frame is the outcome of processing one frame. The caller must Close it.
type Frame struct {
	Mask     gocv.Mat
	Overlay  gocv.Mat
	Coverage float64
	Took     time.Duration
	Saved    bool
}

// Close releases the Mats.
func (f *Frame) Close() {
	if f == nil {
		return
	}
	f.Mask.Close()
	f.Overlay.Close()
}

// Process segments one frame, reports coverage and duration, builds the
// overlay and saves mask and overlay under basename.
func (r *Runner) Process(frame gocv.Mat, basename string) (*Frame, error) {
	start := time.Now()
	seg, err := r.seg.Segment(frame)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	took := time.Since(start)
	defer seg.Result.Close()

	coverage := seg.Coverage()
	composite.WriteSummary(r.out, r.seg.Method().String(), coverage, took)
	if len(seg.Centers) > 0 {
		r.log.Debugw("clusters", "centers", seg.Centers, "target", seg.TargetIndex)
	}

	overlay, err := composite.Overlay(frame, seg.Result)
	if err != nil {
		seg.Mask.Close()
		return nil, fmt.Errorf("overlay failed: %w", err)
	}

	out := &Frame{Mask: seg.Mask, Overlay: overlay, Coverage: coverage, Took: took}
	if err := r.writer.Save(basename, seg.Mask, overlay); err != nil {
		r.log.Warnw("could not save results", "basename", basename, "error", err)
	} else {
		out.Saved = true
		composite.WriteSaved(r.out, r.writer.Pattern(basename))
	}
	return out, nil
}

// Run processes src in the mode its kind selects. Closing src and the
// viewer is left to the caller.
func (r *Runner) Run(ctx context.Context, src source.Source) (Stats, error) {
	stats := Stats{Mode: ModeFor(src.Kind())}
	r.log.Debugw("starting", "mode", stats.Mode.String(), "source", src.Name(), "method", r.seg.Method().String())

	frame := gocv.NewMat()
	defer frame.Close()

	if stats.Mode == ModeStaticImage {
		if !src.Read(&frame) {
			return stats, fmt.Errorf("%w: no frame in %s", source.ErrUnavailable, src.Name())
		}
		if err := r.step(frame, src.Name()); err != nil {
			return stats, err
		}
		stats.Frames = 1
		if r.waitForKey {
			r.viewer.WaitKey(0)
		}
		return stats, nil
	}

	for {
		select {
		case <-ctx.Done():
			stats.Reason = StopInterrupted
			return stats, nil
		default:
		}

		if !src.Read(&frame) {
			if stats.Frames == 0 {
				return stats, fmt.Errorf("%w: no frames in %s", source.ErrUnavailable, src.Name())
			}
			stats.Reason = StopExhausted
			return stats, nil
		}
		if err := r.step(frame, src.Name()); err != nil {
			return stats, err
		}
		stats.Frames++

		if display.IsQuit(r.viewer.WaitKey(streamKeyDelayMs)) {
			fmt.Fprintln(r.out, "Exiting...")
			stats.Reason = StopQuit
			return stats, nil
		}
	}
}

func (r *Runner) step(frame gocv.Mat, basename string) error {
	res, err := r.Process(frame, basename)
	if err != nil {
		return err
	}
	defer res.Close()

	r.viewer.Show(WindowOriginal, frame)
	r.viewer.Show(WindowResult, res.Overlay)
	return nil
}
