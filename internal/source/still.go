package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"colorseg/internal/imgconv"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// still yields a single decoded image once.
type still struct {
	name     string
	frame    gocv.Mat
	consumed bool
}

// OpenImage loads the image at path as a one-frame source.
func OpenImage(path string) (Source, error) {
	frame, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return &still{name: Basename(path), frame: frame}, nil
}

func (s *still) Read(dst *gocv.Mat) bool {
	if s.consumed {
		return false
	}
	s.consumed = true
	s.frame.CopyTo(dst)
	return true
}

func (s *still) Kind() Kind   { return KindImage }
func (s *still) Name() string { return s.name }

func (s *still) Close() error {
	return s.frame.Close()
}

// LoadImage reads a BGR image with OpenCV, falling back to the Go decoders
// for formats the OpenCV build cannot read.
func LoadImage(path string) (gocv.Mat, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if !mat.Empty() {
		return mat, nil
	}
	mat.Close()

	mat, err := decodeFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: cannot decode %s: %v", ErrUnavailable, path, err)
	}
	return mat, nil
}

func decodeFile(path string) (gocv.Mat, error) {
	file, err := os.Open(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to decode image: %w", err)
	}

	return imgconv.ImageToMat(img)
}
