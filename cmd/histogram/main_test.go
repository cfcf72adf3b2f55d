package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"colorseg/internal/histogram"
	"colorseg/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
	"gocv.io/x/gocv"
)

func parse(t *testing.T, args ...string) (options, error) {
	t.Helper()
	var opts options
	var parseErr error
	app := &cli.App{
		Name:      "histogram",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Flags:     flags(),
		Action: func(c *cli.Context) error {
			opts, parseErr = optionsFromContext(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"histogram"}, args...)); err != nil {
		return options{}, err
	}
	return opts, parseErr
}

func TestOptions(t *testing.T) {
	opts, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, options{input: histogram.DefaultInput, every: 30, width: 40}, opts)

	opts, err = parse(t, "--input", "0", "--headless", "--every", "5")
	require.NoError(t, err)
	assert.Equal(t, "0", opts.input)
	assert.True(t, opts.headless)
	assert.Equal(t, 5, opts.every)

	_, err = parse(t, "--every", "0")
	assert.Error(t, err)
}

func TestRunHeadlessImage(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 100, 50, 0), 12, 12, gocv.MatTypeCV8UC3)
	input := filepath.Join(t.TempDir(), "frame.png")
	require.True(t, gocv.IMWrite(input, img))
	img.Close()

	var stdout bytes.Buffer
	err := run(context.Background(), options{input: input, headless: true, every: 1, width: 20},
		&stdout, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Histogram - Hue (H)")
	assert.Contains(t, stdout.String(), "Histogram - Value (V)")
}

func TestRunMissingInput(t *testing.T) {
	err := run(context.Background(), options{input: filepath.Join(t.TempDir(), "nope.png"), headless: true, every: 1, width: 20},
		io.Discard, zaptest.NewLogger(t).Sugar())
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrUnavailable))
}
