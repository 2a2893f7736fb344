package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"vectrace/pkg/batch"
	"vectrace/pkg/cfg"
	"vectrace/pkg/color"
	"vectrace/pkg/convert"
	"vectrace/pkg/imageio"
	"vectrace/pkg/log"
	"vectrace/pkg/vectorize"
)

const helpBanner = `
vectrace - raster to SVG vectorizer
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version = "dev"

var (
	source      = flag.String("in", pipeName, "Source image or directory")
	destination = flag.String("out", pipeName, "Destination SVG file or directory")
	configPath  = flag.String("config", "", "YAML configuration file")
	numColors   = flag.Int("colors", 0, "Palette size (0 picks one from the image)")
	curveTol    = flag.Float64("curve-tol", 2, "Curve fitting tolerance in pixels")
	simplifyTol = flag.Float64("simplify-tol", 1.5, "Outline simplification tolerance in pixels")
	corner      = flag.Float64("corner", 60, "Corner threshold in degrees")
	edgeThresh  = flag.Int("edge", 25, "Edge strength that protects pixels from smoothing")
	passes      = flag.Int("passes", 2, "Majority-vote smoothing passes")
	window      = flag.Int("window", 3, "Outline smoothing window")
	preprocessF = flag.Bool("preprocess", true, "Pre-filter images with many colors")
	recolor     = flag.Bool("recolor", true, "Paint regions with their mean source color")
	seed        = flag.Int64("seed", cfg.QuantizeSeed, "Palette seed")
	maxSize     = flag.Int("max-size", 4096, "Downscale inputs larger than this before tracing")
	workers     = flag.Int("conc", 0, "Number of files to process concurrently")
	tracer      = flag.String("tracer", string(vectorize.TracerMarching), "Tracer backend: marching or potrace")
	probe       = flag.String("probe", "", "Print the paths near x,y of a single output")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn or error")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	conf, err := cfg.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	applyFlags(&conf)

	log.Init(log.Options{
		Level:     conf.Logging.Level,
		Format:    conf.Logging.Format,
		AddSource: conf.Logging.Source,
		File:      conf.Logging.File,
	})

	c := &convert.Converter{
		Options: vectorize.FromConfig(conf.Vectorize, 0),
		MaxSize: conf.Vectorize.MaxSize,
	}
	if err := c.Options.Validate(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now()
	if err := run(ctx, c, conf.Batch.Workers); err != nil {
		stop()
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", decorate(time.Since(now).Round(time.Millisecond).String(), successColor))
}

// applyFlags copies the flags given on the command line over conf.
func applyFlags(conf *cfg.Config) {
	v := &conf.Vectorize
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "colors":
			v.Colors = *numColors
		case "curve-tol":
			v.CurveTolerance = *curveTol
		case "simplify-tol":
			v.SimplifyTolerance = *simplifyTol
		case "corner":
			v.CornerThreshold = *corner
		case "edge":
			v.EdgeThreshold = *edgeThresh
		case "passes":
			v.SmoothingPasses = *passes
		case "window":
			v.SmoothWindow = *window
		case "preprocess":
			v.Preprocess = preprocessF
		case "recolor":
			v.Recolor = recolor
		case "seed":
			v.Seed = *seed
		case "max-size":
			v.MaxSize = *maxSize
		case "tracer":
			v.Tracer = *tracer
		case "conc":
			conf.Batch.Workers = *workers
		case "log-level":
			conf.Logging.Level = *logLevel
		}
	})
}

func run(ctx context.Context, c *convert.Converter, conc int) error {
	var (
		fs  os.FileInfo
		err error
	)
	if *source == pipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(*source)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	if fs.IsDir() {
		if *destination == pipeName {
			return errors.New("a directory source needs a destination directory")
		}
		return batch.Run(ctx, batch.Ops{Src: *source, Dst: *destination, Workers: conc}, c.ConvertFile, printStatus)
	}

	src, dst, closeAll, err := openPipes(*source, *destination)
	if err != nil {
		return err
	}
	res, err := c.Convert(ctx, src, dst)
	if cerr := closeAll(); err == nil {
		err = cerr
	}
	if err != nil {
		if *destination != pipeName {
			os.Remove(*destination)
		}
		return err
	}
	if *destination != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s (%d paths)\n",
			decorate(filepath.Base(*destination), successColor), res.Stats.Paths)
	}
	if *probe != "" {
		return printProbe(res, *probe)
	}
	return nil
}

// openPipes resolves the source and destination names, refusing pipes
// that are attached to a terminal.
func openPipes(in, out string) (io.Reader, io.Writer, func() error, error) {
	var (
		src     io.Reader
		dst     io.Writer
		closers []io.Closer
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		if !imageio.IsSupported(in) {
			return nil, nil, nil, fmt.Errorf("%s: file type not supported", filepath.Ext(in))
		}
		f, err := os.Open(in)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		src = f
		closers = append(closers, f)
	}

	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			closeAll()
			return nil, nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
		dst = f
		closers = append(closers, f)
	}
	return src, dst, closeAll, nil
}

func printStatus(res batch.Result) {
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n\tReason: %v\n",
			decorate("✘", errorColor), filepath.Base(res.Src), res.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", decorate("✔", successColor), decorate(res.Dst, statusColor))
}

func printProbe(res *vectorize.Result, at string) error {
	x, y, err := parseProbe(at)
	if err != nil {
		return err
	}
	radius := float64(max(res.Width, res.Height)) / 20
	near := vectorize.NewIndex(res).Near(x, y, radius)
	fmt.Fprintf(os.Stderr, "%d path(s) within %.1f of %g,%g\n", len(near), radius, x, y)
	for _, p := range near {
		fmt.Fprintf(os.Stderr, "  %s area=%d curves=%d\n", color.Hex(p.Color), p.Area, len(p.Curves))
	}
	return nil
}

// Colors used on a terminal.
const (
	defaultColor = "\x1b[0m"
	statusColor  = "\x1b[36m"
	successColor = "\x1b[32m"
	errorColor   = "\x1b[31m"
)

func decorate(s, c string) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return s
	}
	return c + s + defaultColor
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, decorate("vectrace: "+err.Error(), errorColor))
	os.Exit(1)
}
