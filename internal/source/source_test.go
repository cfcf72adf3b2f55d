package source

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"0", KindCamera},
		{"clip.mp4", KindVideo},
		{"dir/clip.AVI", KindVideo},
		{"/abs/clip.Mov", KindVideo},
		{"leaf.png", KindImage},
		{"leaf.jpg", KindImage},
		{"clip.mkv", KindImage},
		{"00", KindImage},
		{"noext", KindImage},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestKindStreaming(t *testing.T) {
	assert.False(t, KindImage.Streaming())
	assert.True(t, KindVideo.Streaming())
	assert.True(t, KindCamera.Streaming())
	assert.Equal(t, "camera", KindCamera.String())
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "webcam", Basename("0"))
	assert.Equal(t, "leaf", Basename("samples/leaf.png"))
	assert.Equal(t, "video1", Basename("/data/video1.mp4"))
	assert.Equal(t, "archive.tar", Basename("archive.tar.gz"))
}

func TestOpenMissingInput(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"missing.png", "missing.mp4"} {
		_, err := Open(filepath.Join(dir, name), nil)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnavailable), name)
	}
}

func TestOpenCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Open(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStillYieldsOneFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "green.png")
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 255, 0, 0), 8, 6, gocv.MatTypeCV8UC3)
	require.True(t, gocv.IMWrite(path, frame))
	frame.Close()

	src, err := Open(path, nil)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, KindImage, src.Kind())
	assert.Equal(t, "green", src.Name())

	dst := gocv.NewMat()
	defer dst.Close()
	require.True(t, src.Read(&dst))
	assert.Equal(t, 8, dst.Rows())
	assert.Equal(t, 6, dst.Cols())
	assert.Equal(t, uint8(255), dst.GetUCharAt(0, 1))

	assert.False(t, src.Read(&dst))
}

func writeGoImage(t *testing.T, path string, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 0, B: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadImageFormats(t *testing.T) {
	dir := t.TempDir()
	tiffPath := filepath.Join(dir, "blue.tiff")
	bmpPath := filepath.Join(dir, "blue.bmp")
	writeGoImage(t, tiffPath, func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) })
	writeGoImage(t, bmpPath, func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	for _, path := range []string{tiffPath, bmpPath} {
		mat, err := LoadImage(path)
		require.NoError(t, err, path)
		assert.Equal(t, 4, mat.Rows())
		assert.Equal(t, uint8(255), mat.GetUCharAt(0, 0), "blue channel of %s", path)
		assert.Equal(t, uint8(0), mat.GetUCharAt(0, 2), "red channel of %s", path)
		mat.Close()

		// the Go decoder path must agree with OpenCV's
		mat, err = decodeFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, uint8(255), mat.GetUCharAt(3, 3*3))
		mat.Close()
	}
}

func TestParseProbe(t *testing.T) {
	out := `{"streams":[
		{"codec_type":"audio","nb_frames":"100"},
		{"codec_type":"video","width":640,"height":480,"nb_frames":"300","avg_frame_rate":"30000/1001"}
	]}`
	info, err := parseProbe(out)
	require.NoError(t, err)
	assert.Equal(t, 640, info.Width)
	assert.Equal(t, 480, info.Height)
	assert.Equal(t, 300, info.Frames)
	assert.InDelta(t, 29.97, info.FPS, 0.01)

	info, err = parseProbe(`{"streams":[{"codec_type":"video","avg_frame_rate":"0/0"}]}`)
	require.NoError(t, err)
	assert.Zero(t, info.Frames)
	assert.Zero(t, info.FPS)

	_, err = parseProbe(`{"streams":[{"codec_type":"audio"}]}`)
	assert.Error(t, err)

	_, err = parseProbe(`not json`)
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	assert.InDelta(t, 25.0, parseRate("25/1"), 1e-9)
	assert.InDelta(t, 24.0, parseRate("24"), 1e-9)
	assert.Zero(t, parseRate("x/y"))
	assert.Zero(t, parseRate(""))
}
