// Package colorutil provides shared color utilities for the segmentation tools.
//
// Colors are expressed in OpenCV's channel order (blue, green, red) unless a
// function name says otherwise.
package colorutil

import (
	"math"
)

// BGR is an 8-bit color triple in OpenCV channel order.
type BGR struct {
	B, G, R uint8
}

// Pure colors used as clustering targets.
var (
	Green = BGR{B: 0, G: 255, R: 0}
	Blue  = BGR{B: 255, G: 0, R: 0}
)

// Distance returns the Euclidean distance between two colors in BGR space.
func Distance(a, b BGR) float64 {
	db := float64(a.B) - float64(b.B)
	dg := float64(a.G) - float64(b.G)
	dr := float64(a.R) - float64(b.R)
	return math.Sqrt(db*db + dg*dg + dr*dr)
}

// Nearest returns the index of the color in candidates closest to target.
// Ties resolve to the lowest index. Returns -1 for an empty slice.
func Nearest(candidates []BGR, target BGR) int {
	best := -1
	bestDist := math.MaxFloat64
	for i, c := range candidates {
		d := Distance(c, target)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// HSV converts the color to OpenCV 8-bit HSV (H 0-180, S 0-255, V 0-255),
// rounding each channel the way OpenCV's 8-bit conversion does.
func (c BGR) HSV() (h, s, v uint8) {
	hf, sf, vf := RGBToHSV(float64(c.R), float64(c.G), float64(c.B))
	return uint8(math.Round(hf)) % 180, uint8(math.Round(sf)), uint8(math.Round(vf))
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	switch {
	case diff == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/diff, 6)
	case maxC == g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // OpenCV's 0-180 range

	return h, s, v
}
