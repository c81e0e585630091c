// Command ch8emu runs CHIP-8 games in a window or in the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/pkg/errors"

	"ch8emu/chip8"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called from the main thread.
	runtime.LockOSThread()
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := createLogger(os.Stderr, opts.debug, opts.quiet)
	if err := run(opts, logger); err != nil {
		logger.Error("emulation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	rom, err := readROM(opts.rom)
	if err != nil {
		return err
	}

	vm := chip8.New(
		chip8.WithLogger(logger),
		chip8.WithShiftQuirk(opts.shiftVY),
	)
	emu, err := newEmulator(vm, rom, opts.ticksPerFrame, logger)
	if err != nil {
		return err
	}
	logger.Info("game loaded",
		slog.String("path", opts.rom),
		slog.Int("bytes", len(rom)),
		slog.Int("ticks_per_frame", opts.ticksPerFrame))

	if opts.terminal {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return runTerminal(ctx, emu, opts.frames)
	}
	return runWindow(emu, opts, logger)
}
