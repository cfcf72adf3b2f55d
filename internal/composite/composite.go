// Package composite blends segmentation results over the original frame and
// persists masks and overlays.
package composite

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Overlay weights. Pixels outside the mask contribute nothing through the
// result term, so they appear as the original attenuated to OriginalWeight.
const (
	OriginalWeight = 0.7
	ResultWeight   = 0.3
)

// Blend is a fixed-weight linear blend: dst = a*Alpha + b*Beta + Gamma,
// saturated to 8 bits per channel.
type Blend struct {
	Alpha float64
	Beta  float64
	Gamma float64
}

// DefaultBlend is the overlay blend used by the segmentation tool.
var DefaultBlend = Blend{Alpha: OriginalWeight, Beta: ResultWeight}

// Apply blends a and b, which must have the same size and type. The caller
// must Close the result.
func (bl Blend) Apply(a, b gocv.Mat) (gocv.Mat, error) {
	if a.Empty() || b.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot blend empty image")
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Type() != b.Type() {
		return gocv.NewMat(), fmt.Errorf("blend size mismatch: %dx%d (type %v) vs %dx%d (type %v)",
			a.Cols(), a.Rows(), a.Type(), b.Cols(), b.Rows(), b.Type())
	}

	dst := gocv.NewMat()
	gocv.AddWeighted(a, bl.Alpha, b, bl.Beta, bl.Gamma, &dst)
	return dst, nil
}

// Overlay blends the original frame with its segmentation result using
// DefaultBlend.
func Overlay(frame, result gocv.Mat) (gocv.Mat, error) {
	return DefaultBlend.Apply(frame, result)
}
