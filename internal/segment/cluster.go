package segment

import (
	"fmt"

	"colorseg/pkg/colorutil"

	"gocv.io/x/gocv"
)

// K-means tuning. Each attempt starts from random centers and stops after
// clusterMaxIter iterations or when centers move less than clusterEpsilon;
// the attempt with the lowest compactness wins.
const (
	clusterAttempts = 10
	clusterMaxIter  = 10
	clusterEpsilon  = 1.0
)

// Cluster segments a frame by k-means clustering of BGR pixel values and
// keeping the cluster whose center is nearest the target color.
//
// Initialization is random, so repeated runs on the same frame can pick a
// different partition. Keeping the best of several attempts narrows this
// but does not remove it.
type Cluster struct {
	K      int
	Target Target
}

// NewCluster returns a clustering segmenter with k clusters.
func NewCluster(k int, target Target) *Cluster {
	return &Cluster{K: k, Target: target}
}

// Method implements Segmenter.
func (c *Cluster) Method() Method { return MethodKMeans }

// Segment clusters the frame's pixels and masks the target cluster.
func (c *Cluster) Segment(frame gocv.Mat) (*Segmentation, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}

	rows, cols := frame.Rows(), frame.Cols()
	n := rows * cols
	if c.K < 1 || c.K > n {
		return nil, fmt.Errorf("cluster count %d out of range for %d pixels", c.K, n)
	}

	// One row per pixel, one column per channel, as float32 samples.
	continuous := frame.Clone()
	defer continuous.Close()
	samples := continuous.Reshape(1, n)
	defer samples.Close()
	data := gocv.NewMat()
	defer data.Close()
	samples.ConvertTo(&data, gocv.MatTypeCV32F)

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.EPS|gocv.MaxIter, clusterMaxIter, clusterEpsilon)
	gocv.KMeans(data, c.K, &labels, criteria, clusterAttempts, gocv.KMeansRandomCenters, &centers)

	if centers.Rows() != c.K || labels.Rows() != n {
		return nil, fmt.Errorf("kmeans returned %d centers and %d labels, want %d and %d",
			centers.Rows(), labels.Rows(), c.K, n)
	}

	// Centers are truncated to 8 bits before the distance test.
	palette := make([]colorutil.BGR, c.K)
	for i := range palette {
		palette[i] = colorutil.BGR{
			B: uint8(centers.GetFloatAt(i, 0)),
			G: uint8(centers.GetFloatAt(i, 1)),
			R: uint8(centers.GetFloatAt(i, 2)),
		}
	}
	target := colorutil.Nearest(palette, c.Target.Color())

	mask, err := labelMask(labels, target, rows, cols)
	if err != nil {
		return nil, err
	}

	return &Segmentation{
		Mask:        mask,
		Result:      applyMask(frame, mask),
		Centers:     palette,
		TargetIndex: target,
	}, nil
}

// labelMask returns a rows x cols mask that is 255 where labels equals
// target. labels holds one int32 label per pixel in row-major order.
func labelMask(labels gocv.Mat, target, rows, cols int) (gocv.Mat, error) {
	ids, err := labels.DataPtrInt32()
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to read cluster labels: %w", err)
	}
	if len(ids) != rows*cols {
		return gocv.NewMat(), fmt.Errorf("got %d cluster labels for %d pixels", len(ids), rows*cols)
	}

	buf := make([]byte, len(ids))
	for i, id := range ids {
		if int(id) == target {
			buf[i] = 255
		}
	}

	wrapped, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to build mask: %w", err)
	}
	defer wrapped.Close()
	// wrapped borrows buf; the clone owns its pixels.
	return wrapped.Clone(), nil
}
