// Package segment isolates pixels of a target color in a BGR frame, either
// by HSV thresholding or by k-means clustering of pixel colors.
package segment

import (
	"fmt"

	"colorseg/pkg/colorutil"

	"gocv.io/x/gocv"
)

// Segmentation is the output of one segmenter run. Mask is single-channel
// (0 or 255) and Result is the frame with excluded pixels zeroed. Both
// share the frame's dimensions. The caller owns the Mats and must Close.
type Segmentation struct {
	Mask   gocv.Mat
	Result gocv.Mat

	// Centers and TargetIndex are set by the clustering segmenter only.
	Centers     []colorutil.BGR
	TargetIndex int
}

// Close releases the Mats.
func (s *Segmentation) Close() {
	if s == nil {
		return
	}
	s.Mask.Close()
	s.Result.Close()
}

// Coverage returns the percentage of mask pixels that are included.
func (s *Segmentation) Coverage() float64 {
	total := s.Mask.Rows() * s.Mask.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(s.Mask)) / float64(total) * 100
}

// Segmenter produces a mask and masked result for one BGR frame.
type Segmenter interface {
	Segment(frame gocv.Mat) (*Segmentation, error)
	Method() Method
}

// New returns the segmenter selected by cfg.Method.
func New(cfg Config) (Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Method {
	case MethodHSV:
		return NewThreshold(cfg.HSV), nil
	case MethodKMeans:
		return NewCluster(cfg.K, cfg.Target), nil
	default:
		return nil, fmt.Errorf("unsupported method %v", cfg.Method)
	}
}

// applyMask returns frame with every pixel outside mask set to zero.
func applyMask(frame, mask gocv.Mat) gocv.Mat {
	result := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), frame.Rows(), frame.Cols(), frame.Type())
	gocv.BitwiseAndWithMask(frame, frame, &result, mask)
	return result
}

func checkFrame(frame gocv.Mat) error {
	if frame.Empty() {
		return fmt.Errorf("empty frame")
	}
	if frame.Channels() != 3 {
		return fmt.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}
	return nil
}
