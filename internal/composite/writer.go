package composite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocv.io/x/gocv"
)

// DefaultOutputDir is where the segmentation tool writes its images.
const DefaultOutputDir = "outputs"

// Writer persists masks and overlays as PNG files under Dir. Files for the
// same basename are overwritten on every save.
type Writer struct {
	Dir string
}

// NewWriter creates dir if needed and returns a Writer for it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Writer{Dir: dir}, nil
}

// Paths returns the mask and overlay file paths for basename.
func (w *Writer) Paths(basename string) (mask, overlay string) {
	return filepath.Join(w.Dir, basename+"_mask.png"), filepath.Join(w.Dir, basename+"_overlay.png")
}

// Pattern returns a glob describing both outputs for basename.
func (w *Writer) Pattern(basename string) string {
	return filepath.Join(w.Dir, basename+"_*.png")
}

// Save writes mask and overlay for basename.
func (w *Writer) Save(basename string, mask, overlay gocv.Mat) error {
	maskPath, overlayPath := w.Paths(basename)
	if ok := gocv.IMWrite(maskPath, mask); !ok {
		return fmt.Errorf("failed to write %s", maskPath)
	}
	if ok := gocv.IMWrite(overlayPath, overlay); !ok {
		return fmt.Errorf("failed to write %s", overlayPath)
	}
	return nil
}

// WriteSummary prints the per-frame segmentation line, e.g.
// "[HSV] 42.10% segmented in 0.01s".
func WriteSummary(out io.Writer, method string, coverage float64, took time.Duration) {
	fmt.Fprintf(out, "[%s] %.2f%% segmented in %.2fs\n", strings.ToUpper(method), coverage, took.Seconds())
}

// WriteSaved prints where the outputs for a frame were written.
func WriteSaved(out io.Writer, pattern string) {
	fmt.Fprintf(out, "[+] Results saved to %s\n", pattern)
}
