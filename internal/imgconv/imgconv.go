// Package imgconv converts Go images to OpenCV Mats.
package imgconv

import (
	"fmt"
	"image"
	"runtime"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image.Image to a 3-channel BGR gocv.Mat.
// The caller must Close the result.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image %dx%d", width, height)
	}

	// Fast path for the decoders' common output type
	if rgba, ok := img.(*image.RGBA); ok {
		return rgbaToMat(rgba)
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// OpenCV uses BGR format
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}

func rgbaToMat(img *image.RGBA) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pix := img.Pix
	if img.Stride != w*4 || bounds.Min != (image.Point{}) {
		// Sub-image: repack rows so the buffer is contiguous.
		pix = make([]byte, 0, w*h*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := img.PixOffset(bounds.Min.X, y)
			pix = append(pix, img.Pix[off:off+w*4]...)
		}
	}

	rgba, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to wrap RGBA pixels: %w", err)
	}
	defer rgba.Close()

	mat := gocv.NewMat()
	gocv.CvtColor(rgba, &mat, gocv.ColorRGBAToBGR)
	runtime.KeepAlive(pix)
	return mat, nil
}
