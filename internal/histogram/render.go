package histogram

import (
	"fmt"
	"image"
	"io"

	"colorseg/internal/imgconv"

	uniplot "github.com/aybabtme/uniplot/histogram"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Default panel size for the plotted histograms.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// Render draws the three channel histograms as stacked line plots, each
// with its x axis fixed to the channel's full range.
func Render(s *Set, width, height vg.Length) (image.Image, error) {
	plots := make([][]*plot.Plot, len(Channels))
	for i, ch := range Channels {
		p, err := channelPlot(ch, s.Counts[ch])
		if err != nil {
			return nil, err
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(Channels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 3,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
	}

	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		plots[j][0].Draw(canvases[j][0])
	}

	return img.Image(), nil
}

func channelPlot(ch Channel, counts []float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Histogram - " + ch.String()
	p.Y.Label.Text = "Pixels"

	pts := make(plotter.XYs, len(counts))
	for i, c := range counts {
		pts[i] = plotter.XY{X: float64(i), Y: c}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to plot %s: %w", ch, err)
	}
	line.Color = ch.Color()
	line.Width = vg.Points(1)
	p.Add(line)

	p.X.Min = 0
	p.X.Max = float64(ch.Bins())
	p.Y.Min = 0
	return p, nil
}

// RenderMat is Render converted to a BGR Mat for display. The caller must
// Close the result.
func RenderMat(s *Set, width, height vg.Length) (gocv.Mat, error) {
	img, err := Render(s, width, height)
	if err != nil {
		return gocv.NewMat(), err
	}
	return imgconv.ImageToMat(img)
}

// textBins is the bucket count for terminal histograms.
const textBins = 16

// Samples returns every pixel's value for each HSV channel.
func Samples(frame gocv.Mat) ([3][]float64, error) {
	var out [3][]float64
	if frame.Empty() || frame.Channels() != 3 {
		return out, fmt.Errorf("expected non-empty 3-channel BGR frame")
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	planes := gocv.Split(hsv)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()

	for _, ch := range Channels {
		raw := planes[ch].ToBytes()
		values := make([]float64, len(raw))
		for i, b := range raw {
			values[i] = float64(b)
		}
		out[ch] = values
	}
	return out, nil
}

// WriteText prints a terminal histogram for each channel of frame, with
// bars scaled to at most width characters.
func WriteText(w io.Writer, frame gocv.Mat, width int) error {
	samples, err := Samples(frame)
	if err != nil {
		return err
	}
	for _, ch := range Channels {
		if _, err := fmt.Fprintf(w, "Histogram - %s\n", ch); err != nil {
			return err
		}
		values := samples[ch]
		if lo, hi := floats.Min(values), floats.Max(values); lo == hi {
			// A single value has no spread to bucket.
			if _, err := fmt.Fprintf(w, "%g: %d pixels\n", lo, len(values)); err != nil {
				return err
			}
			continue
		}
		h := uniplot.Hist(textBins, values)
		if err := uniplot.Fprint(w, h, uniplot.Linear(width)); err != nil {
			return fmt.Errorf("failed to print %s histogram: %w", ch, err)
		}
	}
	return nil
}
