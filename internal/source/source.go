// Package source yields frames from a still image, a video file or a camera.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"colorseg/internal/logging"

	"gocv.io/x/gocv"
)

// ErrUnavailable is wrapped by every failure to open or decode an input.
var ErrUnavailable = errors.New("input source unavailable")

// CameraSelector is the input token that selects the default camera.
const CameraSelector = "0"

// cameraBasename names outputs produced from camera frames.
const cameraBasename = "webcam"

var videoExtensions = []string{".mp4", ".avi", ".mov"}

// Kind identifies the type of input.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
	KindCamera
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Streaming reports whether the source yields more than one frame.
func (k Kind) Streaming() bool {
	return k == KindVideo || k == KindCamera
}

// Classify decides the input kind from its identifier: the camera selector,
// a video by file extension, or otherwise a still image.
func Classify(input string) Kind {
	if input == CameraSelector {
		return KindCamera
	}
	ext := strings.ToLower(filepath.Ext(input))
	for _, v := range videoExtensions {
		if ext == v {
			return KindVideo
		}
	}
	return KindImage
}

// Basename returns the identifier used to name outputs for input.
func Basename(input string) string {
	if input == CameraSelector {
		return cameraBasename
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Source yields successive BGR frames.
type Source interface {
	// Read fills dst with the next frame. It returns false once the source
	// is exhausted or can no longer deliver frames.
	Read(dst *gocv.Mat) bool
	Kind() Kind
	// Name is the basename used for output files.
	Name() string
	Close() error
}

// Open opens input as a frame source. Failures wrap ErrUnavailable.
func Open(input string, log logging.Logger) (Source, error) {
	log = logging.OrNop(log)

	switch kind := Classify(input); kind {
	case KindCamera:
		return openCamera(0)
	case KindVideo:
		if info, err := Probe(input); err != nil {
			log.Debugw("video probe unavailable", "path", input, "error", err)
		} else {
			log.Infow("video", "path", input, "width", info.Width, "height", info.Height,
				"frames", info.Frames, "fps", fmt.Sprintf("%.2f", info.FPS))
		}
		return openVideo(input)
	default:
		return OpenImage(input)
	}
}
