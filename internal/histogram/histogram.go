// Package histogram computes per-channel HSV histograms of frames and
// renders them as plots or terminal text.
package histogram

import (
	"fmt"
	"image/color"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Channel is one HSV channel.
type Channel int

const (
	Hue Channel = iota
	Saturation
	Value
)

// Channels lists the channels in plotting order.
var Channels = []Channel{Hue, Saturation, Value}

func (c Channel) String() string {
	switch c {
	case Hue:
		return "Hue (H)"
	case Saturation:
		return "Saturation (S)"
	case Value:
		return "Value (V)"
	default:
		return "Unknown"
	}
}

// Key is the short channel name used in log fields.
func (c Channel) Key() string {
	switch c {
	case Hue:
		return "h"
	case Saturation:
		return "s"
	case Value:
		return "v"
	default:
		return "?"
	}
}

// Bins returns the number of bins, which equals the channel's value range:
// [0,180) for hue and [0,256) otherwise.
func (c Channel) Bins() int {
	if c == Hue {
		return 180
	}
	return 256
}

// Color is the line color used when plotting the channel.
func (c Channel) Color() color.RGBA {
	switch c {
	case Hue:
		return color.RGBA{R: 255, A: 255}
	case Saturation:
		return color.RGBA{G: 160, A: 255}
	default:
		return color.RGBA{B: 255, A: 255}
	}
}

// Set holds one histogram per channel for a single frame.
type Set struct {
	Counts [3][]float64
	Pixels int
}

// Compute converts a BGR frame to HSV and counts each channel.
func Compute(frame gocv.Mat) (*Set, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}
	if frame.Channels() != 3 {
		return nil, fmt.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	noMask := gocv.NewMat()
	defer noMask.Close()

	set := &Set{Pixels: frame.Rows() * frame.Cols()}
	for _, ch := range Channels {
		bins := ch.Bins()
		hist := gocv.NewMat()
		gocv.CalcHist([]gocv.Mat{hsv}, []int{int(ch)}, noMask, &hist, []int{bins}, []float64{0, float64(bins)}, false)

		counts := make([]float64, bins)
		for i := range counts {
			counts[i] = float64(hist.GetFloatAt(i, 0))
		}
		hist.Close()
		set.Counts[ch] = counts
	}
	return set, nil
}

// Summary describes the shape of one channel histogram.
type Summary struct {
	Peak      int     // most populated bin
	PeakCount float64 // pixels in that bin
	Mean      float64 // mean channel value
}

// Summarize returns the peak and mean of channel ch.
func (s *Set) Summarize(ch Channel) Summary {
	counts := s.Counts[ch]
	if len(counts) == 0 || floats.Sum(counts) == 0 {
		return Summary{}
	}

	values := make([]float64, len(counts))
	for i := range values {
		values[i] = float64(i)
	}
	peak := floats.MaxIdx(counts)
	return Summary{
		Peak:      peak,
		PeakCount: counts[peak],
		Mean:      stat.Mean(values, counts),
	}
}
