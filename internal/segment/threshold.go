package segment

import (
	"gocv.io/x/gocv"
)

// Threshold segments a frame by testing each pixel's HSV value against a
// closed range. It is deterministic.
type Threshold struct {
	Range HSVRange
}

// NewThreshold returns a threshold segmenter for r.
func NewThreshold(r HSVRange) *Threshold {
	return &Threshold{Range: r}
}

// Method implements Segmenter.
func (t *Threshold) Method() Method { return MethodHSV }

// Segment converts frame to HSV and keeps the pixels whose hue, saturation
// and value all fall within the range.
func (t *Threshold) Segment(frame gocv.Mat) (*Segmentation, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV)

	lower := gocv.NewScalar(float64(t.Range.HMin), float64(t.Range.SMin), float64(t.Range.VMin), 0)
	upper := gocv.NewScalar(float64(t.Range.HMax), float64(t.Range.SMax), float64(t.Range.VMax), 0)

	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	return &Segmentation{
		Mask:        mask,
		Result:      applyMask(frame, mask),
		TargetIndex: -1,
	}, nil
}
