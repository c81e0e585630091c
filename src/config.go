package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	romExtension         = ".ch8"
	defaultTicksPerFrame = 7
	defaultScale         = 10
)

type options struct {
	rom           string
	ticksPerFrame int

	scale    int
	terminal bool
	frames   int
	shiftVY  bool
	debug    bool
	quiet    bool
}

// usageError is returned when the command line cannot be understood at all.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: ch8emu [options] <game%s> [ticks-per-frame: default=%d]\n\n", romExtension, defaultTicksPerFrame)
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

func parseArgs(args []string) (options, error) {
	flags := flag.NewFlagSet("ch8emu", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options{ticksPerFrame: defaultTicksPerFrame}
	flags.IntVar(&opts.scale, "scale", defaultScale, "window size multiplier")
	flags.BoolVar(&opts.terminal, "term", false, "render in the terminal instead of opening a window")
	flags.IntVar(&opts.frames, "frames", 0, "stop after this many frames (0 runs until closed)")
	flags.BoolVar(&opts.shiftVY, "shift-vy", false, "8xy6/8xyE shift VY into VX (COSMAC VIP behavior)")
	flags.BoolVar(&opts.debug, "debug", false, "trace every executed instruction")
	flags.BoolVar(&opts.quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return opts, &usageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) == 0 || len(rest) > 2 {
		return opts, &usageError{flags: flags}
	}
	for _, arg := range rest[1:] {
		if strings.HasPrefix(arg, "-") {
			return opts, &usageError{
				flags: flags,
				msg:   fmt.Sprintf("option %s found after the ROM path, pass options first", arg),
			}
		}
	}

	opts.rom = rest[0]
	if !strings.HasSuffix(opts.rom, romExtension) {
		return opts, errors.Errorf("%s: game files must end with %q", opts.rom, romExtension)
	}

	if len(rest) == 2 {
		n, err := strconv.Atoi(strings.TrimSpace(rest[1]))
		if err != nil {
			return opts, errors.Wrapf(err, "parsing ticks per frame %q", rest[1])
		}
		if n < 1 {
			return opts, errors.Errorf("ticks per frame must be positive, got %d", n)
		}
		opts.ticksPerFrame = n
	}

	if opts.scale < 1 {
		return opts, errors.Errorf("scale must be positive, got %d", opts.scale)
	}
	if opts.frames < 0 {
		return opts, errors.Errorf("frames must not be negative, got %d", opts.frames)
	}
	return opts, nil
}

func createLogger(w io.Writer, debug, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
