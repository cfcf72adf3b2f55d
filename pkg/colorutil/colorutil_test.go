package colorutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	black = BGR{}
	white = BGR{B: 255, G: 255, R: 255}
	red   = BGR{R: 255}
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"dark green", 0, 128, 0, 60, 255, 128},
		{"magenta", 255, 0, 255, 150, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.h, h, 1e-9)
			assert.InDelta(t, tt.s, s, 1e-9)
			assert.InDelta(t, tt.v, v, 1e-9)
		})
	}
}

func TestBGRHSV(t *testing.T) {
	h, s, v := Green.HSV()
	assert.Equal(t, [3]uint8{60, 255, 255}, [3]uint8{h, s, v})

	h, s, v = Blue.HSV()
	assert.Equal(t, [3]uint8{120, 255, 255}, [3]uint8{h, s, v})
}

func TestDistance(t *testing.T) {
	assert.Zero(t, Distance(Green, Green))
	assert.InDelta(t, 255*math.Sqrt2, Distance(Green, Blue), 1e-9)
	assert.Equal(t, Distance(red, Blue), Distance(Blue, red))
}

func TestNearest(t *testing.T) {
	centers := []BGR{{B: 250, G: 3, R: 1}, {B: 2, G: 240, R: 10}, {B: 128, G: 128, R: 128}}

	assert.Equal(t, 1, Nearest(centers, Green))
	assert.Equal(t, 0, Nearest(centers, Blue))
	assert.Equal(t, -1, Nearest(nil, Green))

	// ties go to the first candidate
	assert.Equal(t, 0, Nearest([]BGR{black, black}, white))
}
