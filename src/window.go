package main

import (
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	mathp "github.com/golangplus/math"
	"github.com/pkg/errors"

	"ch8emu/chip8"
)

const windowTitle = "ch8emu"

const (
	pixelOn  = 255
	pixelOff = 10
)

type window struct {
	win    *glfw.Window
	emu    *emulator
	buzzer *buzzer
	logger *slog.Logger

	textureID uint32
	fboID     uint32
	texture   []byte

	fullscreen  bool
	windowState [4]int // x, y, width, height before going fullscreen
}

func runWindow(emu *emulator, opts options, logger *slog.Logger) error {
	setTimerResolution(1)

	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "initializing glfw")
	}
	defer glfw.Terminate()

	win, err := glfw.CreateWindow(chip8.ScreenWidth*opts.scale, chip8.ScreenHeight*opts.scale, windowTitle, nil, nil)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	win.MakeContextCurrent()
	// Enable VSync
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "initializing OpenGL")
	}

	w := &window{
		win:     win,
		emu:     emu,
		buzzer:  newBuzzer(logger),
		logger:  logger,
		texture: make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*4),
	}
	defer w.buzzer.close()
	gl.GenTextures(1, &w.textureID)
	gl.GenFramebuffers(1, &w.fboID)
	win.SetKeyCallback(w.onKey)

	clock := newFrameClock(frameDuration)
	for frame := 0; !win.ShouldClose(); frame++ {
		if opts.frames > 0 && frame >= opts.frames {
			break
		}

		if err := emu.runFrame(); err != nil {
			win.SetTitle(windowTitle + " - halted: " + err.Error() + " (P to restart)")
		}
		w.buzzer.update(!emu.halted() && emu.vm.SoundTimer() > 0)

		// Stop rendering so we don't crash when minimized
		if win.GetAttrib(glfw.Iconified) == 0 {
			w.render()
			win.SwapBuffers()
		}

		glfw.PollEvents()
		clock.wait()
	}
	return nil
}

func (w *window) render() {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	fillTexture(w.texture, w.emu.vm.Display())
	gl.BindTexture(gl.TEXTURE_2D, w.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, chip8.ScreenWidth, chip8.ScreenHeight, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(w.texture))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.fboID)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, w.textureID, 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0) // if not already bound

	x0, y0, x1, y1 := letterbox(w.win.GetFramebufferSize())
	gl.BlitFramebuffer(0, 0, chip8.ScreenWidth, chip8.ScreenHeight, x0, y0, x1, y1, gl.COLOR_BUFFER_BIT, gl.NEAREST)
}

// fillTexture converts the display to RGBA rows, bottom row first as GL expects.
func fillTexture(dst []byte, d chip8.Display) {
	for y := 0; y < chip8.ScreenHeight; y++ {
		row := (chip8.ScreenHeight - 1 - y) * chip8.ScreenWidth * 4
		for x := 0; x < chip8.ScreenWidth; x++ {
			var c byte = pixelOff
			if d[x+chip8.ScreenWidth*y] {
				c = pixelOn
			}
			p := dst[row+x*4 : row+x*4+4]
			p[0], p[1], p[2], p[3] = c, c, c, 255
		}
	}
}

// letterbox returns the largest centered rectangle with the display's 2:1
// aspect ratio that fits a width×height framebuffer.
func letterbox(width, height int) (x0, y0, x1, y1 int32) {
	scaledWidth, scaledHeight := width, height
	if width*chip8.ScreenHeight > height*chip8.ScreenWidth {
		scaledWidth = height * chip8.ScreenWidth / chip8.ScreenHeight
	} else {
		scaledHeight = width * chip8.ScreenHeight / chip8.ScreenWidth
	}
	left := (width - scaledWidth) / 2
	bottom := (height - scaledHeight) / 2
	return int32(left), int32(bottom), int32(left + scaledWidth), int32(bottom + scaledHeight)
}

func (w *window) onKey(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// shortcuts
	if action == glfw.Press {
		switch {
		case key == glfw.KeyEnter && mods&glfw.ModAlt != 0:
			w.setFullscreen(!w.fullscreen)
			return
		case key == glfw.KeyEscape:
			win.SetShouldClose(true)
			return
		case key == glfw.KeyP:
			w.restart()
			return
		}
	}

	// Chip8 key handling
	k, ok := keypadIndex(key)
	if !ok || action == glfw.Repeat {
		return
	}
	w.emu.vm.KeyPressed(k, action == glfw.Press)
}

func (w *window) restart() {
	if err := w.emu.reset(); err != nil {
		w.logger.Error("restart failed", slog.Any("error", err))
		return
	}
	w.win.SetTitle(windowTitle)
	w.logger.Info("machine reset")
}

func (w *window) setFullscreen(set bool) {
	if set == w.fullscreen {
		return
	}

	if set {
		mon := windowMonitor(w.win)
		if mon == nil {
			return
		}
		mode := mon.GetVideoMode()
		w.windowState[0], w.windowState[1] = w.win.GetPos()
		w.windowState[2], w.windowState[3] = w.win.GetSize()
		w.win.SetMonitor(mon, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
		w.win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
	} else {
		w.win.SetMonitor(nil, w.windowState[0], w.windowState[1], w.windowState[2], w.windowState[3], 0)
		w.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.fullscreen = set

	glfw.SwapInterval(1)
}

// windowMonitor returns the monitor that shows the largest part of the window.
func windowMonitor(win *glfw.Window) *glfw.Monitor {
	wx, wy := win.GetPos()
	ww, wh := win.GetSize()

	var best *glfw.Monitor
	bestOverlap := 0
	for _, mon := range glfw.GetMonitors() {
		mode := mon.GetVideoMode()
		mx, my := mon.GetPos()
		if o := overlap(wx, wy, ww, wh, mx, my, mode.Width, mode.Height); o > bestOverlap {
			bestOverlap = o
			best = mon
		}
	}
	return best
}

// overlap returns the intersection area of two rectangles given as x, y, width, height.
func overlap(ax, ay, aw, ah, bx, by, bw, bh int) int {
	dx := mathp.MaxI(0, mathp.MinI(ax+aw, bx+bw)-mathp.MaxI(ax, bx))
	dy := mathp.MaxI(0, mathp.MinI(ay+ah, by+bh)-mathp.MaxI(ay, by))
	return dx * dy
}
