// Command segment isolates pixels of a target color in an image, video file
// or camera stream and writes mask and overlay images for each frame.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"colorseg/internal/composite"
	"colorseg/internal/display"
	"colorseg/internal/logging"
	"colorseg/internal/pipeline"
	"colorseg/internal/segment"
	"colorseg/internal/source"
	"colorseg/internal/version"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

const envPrefix = "COLORSEG_"

// Flags.
const (
	flagInput    = "input"
	flagMethod   = "method"
	flagTarget   = "target"
	flagK        = "k"
	flagHMin     = "hmin"
	flagHMax     = "hmax"
	flagSMin     = "smin"
	flagSMax     = "smax"
	flagVMin     = "vmin"
	flagVMax     = "vmax"
	flagOutput   = "output"
	flagHeadless = "headless"
	flagDebug    = "debug"
)

func env(flag string) []string {
	return []string{envPrefix + strings.ToUpper(flag)}
}

func flags() []cli.Flag {
	def := segment.DefaultConfig()
	intFlag := func(name string, value int, usage string) cli.Flag {
		return &cli.IntFlag{Name: name, Value: value, Usage: usage, EnvVars: env(name)}
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagInput,
			Aliases:  []string{"i"},
			Usage:    "image or video `PATH`, or 0 for the default camera",
			Required: true,
			EnvVars:  env(flagInput),
		},
		&cli.StringFlag{
			Name:    flagMethod,
			Value:   def.Method.String(),
			Usage:   "segmentation method: hsv or kmeans",
			EnvVars: env(flagMethod),
		},
		&cli.StringFlag{
			Name:    flagTarget,
			Value:   def.Target.String(),
			Usage:   "target color for kmeans: green or blue",
			EnvVars: env(flagTarget),
		},
		intFlag(flagK, def.K, "number of kmeans clusters"),
		intFlag(flagHMin, def.HSV.HMin, "lower hue bound (0-180)"),
		intFlag(flagHMax, def.HSV.HMax, "upper hue bound (0-180)"),
		intFlag(flagSMin, def.HSV.SMin, "lower saturation bound (0-255)"),
		intFlag(flagSMax, def.HSV.SMax, "upper saturation bound (0-255)"),
		intFlag(flagVMin, def.HSV.VMin, "lower value bound (0-255)"),
		intFlag(flagVMax, def.HSV.VMax, "upper value bound (0-255)"),
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Value:   composite.DefaultOutputDir,
			Usage:   "output `DIR` for mask and overlay images",
			EnvVars: env(flagOutput),
		},
		&cli.BoolFlag{
			Name:    flagHeadless,
			Usage:   "do not open windows or wait for key presses",
			EnvVars: env(flagHeadless),
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Usage:   "enable debug logging",
			EnvVars: env(flagDebug),
		},
	}
}

// options is the parsed command line.
type options struct {
	input    string
	output   string
	cfg      segment.Config
	headless bool
	debug    bool
}

func optionsFromContext(c *cli.Context) (options, error) {
	method, err := segment.ParseMethod(c.String(flagMethod))
	if err != nil {
		return options{}, err
	}
	target, err := segment.ParseTarget(c.String(flagTarget))
	if err != nil {
		return options{}, err
	}

	cfg := segment.DefaultConfig().
		WithMethod(method).
		WithHSV(c.Int(flagHMin), c.Int(flagHMax), c.Int(flagSMin), c.Int(flagSMax), c.Int(flagVMin), c.Int(flagVMax)).
		WithClusters(c.Int(flagK), target)
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	return options{
		input:    c.String(flagInput),
		output:   c.String(flagOutput),
		cfg:      cfg,
		headless: c.Bool(flagHeadless),
		debug:    c.Bool(flagDebug),
	}, nil
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "segment",
		Usage:     "segment a target color by HSV range or k-means clustering",
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
	log.Debugw("config", "method", opts.cfg.Method.String(), "hsv", opts.cfg.HSV.String(),
		"k", opts.cfg.K, "target", opts.cfg.Target.String())
	warnConfig(opts.cfg, log)

	writer, err := composite.NewWriter(opts.output)
	if err != nil {
		return err
	}

	src, err := source.Open(opts.input, log)
	if err != nil {
		return err
	}

	var viewer display.Viewer
	if opts.headless {
		viewer = display.NewHeadless()
	} else {
		viewer = display.NewWindows()
	}
	defer func() {
		err = multierr.Combine(err, src.Close(), viewer.Close())
	}()

	runner, err := pipeline.New(pipeline.Options{
		Config:     opts.cfg,
		Writer:     writer,
		Viewer:     viewer,
		Out:        stdout,
		Log:        log,
		WaitForKey: !opts.headless,
	})
	if err != nil {
		return err
	}

	stats, err := runner.Run(ctx, src)
	if err != nil {
		return err
	}
	log.Debugw("finished", "mode", stats.Mode.String(), "frames", stats.Frames, "reason", stats.Reason.String())
	return nil
}

// warnConfig logs settings that run but cannot give a useful mask.
func warnConfig(cfg segment.Config, log logging.Logger) {
	switch {
	case cfg.Method == segment.MethodHSV && cfg.HSV.Empty():
		log.Warnw("HSV range is inverted, every mask will be empty", "hsv", cfg.HSV.String())
	case !cfg.TargetInRange():
		log.Warnw("target color is outside the HSV range", "target", cfg.Target.String(), "hsv", cfg.HSV.String())
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
