package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, IsQuit('q'))
	assert.True(t, IsQuit(0x100000|'q'))
	assert.False(t, IsQuit('Q'))
	assert.False(t, IsQuit(27))
	assert.False(t, IsQuit(NoKey))
}

func TestHeadless(t *testing.T) {
	h := NewHeadless()
	img := gocv.NewMat()
	defer img.Close()

	h.Show("Original", img)
	h.Show("Original", img)
	h.Show("Result", img)

	assert.Equal(t, 2, h.Shown["Original"])
	assert.Equal(t, 1, h.Shown["Result"])
	assert.Equal(t, NoKey, h.WaitKey(0))
	assert.NoError(t, h.Close())
}

func TestWindowsWithoutWindows(t *testing.T) {
	w := NewWindows()
	assert.Equal(t, NoKey, w.WaitKey(10))
	assert.NoError(t, w.Close())
}
