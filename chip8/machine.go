// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, display buffer and keypad, driven one instruction per
// Tick by the host.
package chip8

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
)

const (
	MemorySize     = 4096
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	ScreenWidth  = 64
	ScreenHeight = 32

	flagRegister = 0xF
)

// ErrProgramTooLarge is returned by Load for programs that do not fit above 0x200.
var ErrProgramTooLarge = errors.New("program does not fit in memory")

// Display is the monochrome framebuffer, row-major: index = x + 64*y.
type Display [ScreenWidth * ScreenHeight]bool

// Machine owns the complete CHIP-8 state. The zero value is not usable; use New.
type Machine struct {
	pc     uint16
	memory [MemorySize]byte
	v      [RegisterCount]byte
	i      uint16

	sp    int
	stack [StackSize]uint16

	dt byte
	st byte

	display Display
	keys    [KeyCount]bool

	// configuration, kept across Reset
	rng         *rand.Rand
	logger      *slog.Logger
	shiftUsesVY bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithRand sets the random source used by 0xCxnn.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) {
		m.rng = r
	}
}

// WithLogger enables a per-instruction debug trace.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithShiftQuirk makes 8xy6 and 8xyE shift VY into VX instead of shifting VX
// in place, as the original COSMAC VIP interpreter did.
func WithShiftQuirk(enabled bool) Option {
	return func(m *Machine) {
		m.shiftUsesVY = enabled
	}
}

// New returns a machine with the fontset loaded and the program counter at 0x200.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	m.Reset()
	return m
}

// Reset restores the freshly constructed state. Options are kept.
func (m *Machine) Reset() {
	m.pc = ProgramStart
	m.memory = [MemorySize]byte{}
	m.v = [RegisterCount]byte{}
	m.i = 0
	m.sp = 0
	m.stack = [StackSize]uint16{}
	m.dt = 0
	m.st = 0
	m.display = Display{}
	m.keys = [KeyCount]bool{}

	copy(m.memory[:], fontset[:])
}

// Load copies a raw program image to 0x200. Programs larger than
// MaxProgramSize are rejected and memory is left untouched.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes, limit is %d", len(program), MaxProgramSize)
	}
	copy(m.memory[ProgramStart:], program)
	return nil
}

// TickTimers decrements the delay and sound timers, stopping at zero.
// Hosts call it once per frame.
func (m *Machine) TickTimers() {
	if m.dt > 0 {
		m.dt--
	}
	if m.st > 0 {
		m.st--
	}
}

// Display returns a snapshot of the framebuffer.
func (m *Machine) Display() Display {
	return m.display
}

// Pixel reports whether the pixel at (x, y) is lit. Out of range coordinates are unlit.
func (m *Machine) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return m.display[x+ScreenWidth*y]
}

// KeyPressed sets the state of key 0x0-0xF. Other indices are ignored.
func (m *Machine) KeyPressed(key int, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	m.keys[key] = pressed
}

// PC returns the program counter.
func (m *Machine) PC() uint16 { return m.pc }

// Index returns the I register.
func (m *Machine) Index() uint16 { return m.i }

// Register returns Vx for x in 0x0-0xF.
func (m *Machine) Register(x int) byte { return m.v[x&0xF] }

func (m *Machine) DelayTimer() byte { return m.dt }

func (m *Machine) SoundTimer() byte { return m.st }

// StackDepth returns the number of pending return addresses.
func (m *Machine) StackDepth() int { return m.sp }

// Opcode returns the word at the program counter, or 0 if it lies outside memory.
func (m *Machine) Opcode() uint16 {
	if int(m.pc)+1 >= MemorySize {
		return 0
	}
	return uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])
}
