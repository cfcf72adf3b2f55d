// Command histogram shows a video, image or camera stream next to live
// hue, saturation and value histograms of each frame.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"colorseg/internal/display"
	"colorseg/internal/histogram"
	"colorseg/internal/logging"
	"colorseg/internal/source"
	"colorseg/internal/version"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

const envPrefix = "COLORSEG_"

const (
	flagInput    = "input"
	flagHeadless = "headless"
	flagEvery    = "every"
	flagWidth    = "width"
	flagDebug    = "debug"
)

func env(flag string) []string {
	return []string{envPrefix + strings.ToUpper(flag)}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagInput,
			Aliases: []string{"i"},
			Value:   histogram.DefaultInput,
			Usage:   "video or image `PATH`, or 0 for the default camera",
			EnvVars: env(flagInput),
		},
		&cli.BoolFlag{
			Name:    flagHeadless,
			Usage:   "print text histograms instead of opening windows",
			EnvVars: env(flagHeadless),
		},
		&cli.IntFlag{
			Name:    flagEvery,
			Value:   30,
			Usage:   "in headless mode, print histograms every `N` frames",
			EnvVars: env(flagEvery),
		},
		&cli.IntFlag{
			Name:    flagWidth,
			Value:   40,
			Usage:   "width of text histogram bars",
			EnvVars: env(flagWidth),
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Usage:   "enable debug logging",
			EnvVars: env(flagDebug),
		},
	}
}

type options struct {
	input    string
	headless bool
	every    int
	width    int
	debug    bool
}

func optionsFromContext(c *cli.Context) (options, error) {
	opts := options{
		input:    c.String(flagInput),
		headless: c.Bool(flagHeadless),
		every:    c.Int(flagEvery),
		width:    c.Int(flagWidth),
		debug:    c.Bool(flagDebug),
	}
	if opts.every < 1 {
		return options{}, fmt.Errorf("--%s must be at least 1, got %d", flagEvery, opts.every)
	}
	if opts.width < 1 {
		return options{}, fmt.Errorf("--%s must be at least 1, got %d", flagWidth, opts.width)
	}
	return opts, nil
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "histogram",
		Usage:     "plot live HSV channel histograms",
		Version:   version.String(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags(),
		Action: func(c *cli.Context) error {
			opts, err := optionsFromContext(c)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logging.New(opts.debug)
			defer log.Sync() //nolint:errcheck

			if err := run(ctx, opts, c.App.Writer, log); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			return nil
		},
	}
}

func run(ctx context.Context, opts options, stdout io.Writer, log logging.Logger) (err error) {
	src, err := source.Open(opts.input, log)
	if err != nil {
		return err
	}

	hopts := histogram.Options{
		TextWidth: opts.width,
		Every:     opts.every,
		Log:       log,
	}
	if opts.headless {
		hopts.Viewer = display.NewHeadless()
		hopts.Text = stdout
	} else {
		hopts.Viewer = display.NewWindows()
		hopts.Plot = true
		hopts.WaitForKey = true
	}
	defer func() {
		err = multierr.Combine(err, src.Close(), hopts.Viewer.Close())
	}()

	frames, err := histogram.NewVisualizer(hopts).Run(ctx, src)
	if err != nil {
		return err
	}
	log.Debugw("finished", "input", src.Name(), "frames", frames)
	return nil
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
