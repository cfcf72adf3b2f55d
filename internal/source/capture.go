package source

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// capture reads frames from an OpenCV video capture.
type capture struct {
	kind Kind
	name string
	vc   *gocv.VideoCapture
}

func openCamera(device int) (Source, error) {
	vc, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("%w: camera %d: %v", ErrUnavailable, device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: camera %d did not open", ErrUnavailable, device)
	}
	return &capture{kind: KindCamera, name: cameraBasename, vc: vc}, nil
}

func openVideo(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s did not open", ErrUnavailable, path)
	}
	return &capture{kind: KindVideo, name: Basename(path), vc: vc}, nil
}

func (c *capture) Read(dst *gocv.Mat) bool {
	if ok := c.vc.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

func (c *capture) Kind() Kind   { return c.kind }
func (c *capture) Name() string { return c.name }

func (c *capture) Close() error {
	return c.vc.Close()
}
