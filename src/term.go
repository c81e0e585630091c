package main

import (
	"context"
	"strings"

	tm "github.com/buger/goterm"

	"ch8emu/chip8"
)

// renderTerminal draws the display with half-block characters, two pixel
// rows per text line.
func renderTerminal(d chip8.Display) string {
	var sb strings.Builder
	sb.Grow((chip8.ScreenWidth*3 + 1) * chip8.ScreenHeight / 2)
	for y := 0; y < chip8.ScreenHeight; y += 2 {
		for x := 0; x < chip8.ScreenWidth; x++ {
			top := d[x+chip8.ScreenWidth*y]
			bottom := d[x+chip8.ScreenWidth*(y+1)]
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// runTerminal runs the emulator without a window. There is no keyboard input,
// so it suits demos and test ROMs. It stops after frames frames (0 = never),
// on cancellation, or when the machine faults.
func runTerminal(ctx context.Context, emu *emulator, frames int) error {
	clock := newFrameClock(frameDuration)
	tm.Clear()
	for frame := 0; frames == 0 || frame < frames; frame++ {
		if ctx.Err() != nil {
			return nil
		}
		if err := emu.runFrame(); err != nil {
			return err
		}

		tm.MoveCursor(1, 1)
		tm.Print(renderTerminal(emu.vm.Display()))
		tm.Flush()

		clock.wait()
	}
	return nil
}
