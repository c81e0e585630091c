package chip8

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// newMachine returns a machine with a fixed random seed and the given
// instruction words loaded at 0x200.
func newMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()
	m := New(WithRand(rand.New(rand.NewPCG(1, 2))))
	if err := m.Load(encode(words...)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func encode(words ...uint16) []byte {
	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

// poke writes instruction words at addr.
func poke(m *Machine, addr uint16, words ...uint16) {
	copy(m.memory[addr:], encode(words...))
}

// run executes n instructions and fails the test on the first fault.
func run(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.Tick(); err != nil {
			t.Fatalf("tick %d: unexpected error: %v", i, err)
		}
	}
}

// assertFresh compares every piece of machine state against a new machine.
func assertFresh(t *testing.T, m *Machine) {
	t.Helper()
	fresh := New()
	if m.memory != fresh.memory {
		t.Error("memory differs from a fresh machine")
	}
	if m.v != fresh.v {
		t.Errorf("registers: expected all zero, got %v", m.v)
	}
	if m.pc != ProgramStart {
		t.Errorf("pc: expected 0x200, got 0x%04X", m.pc)
	}
	if m.i != 0 || m.sp != 0 || m.dt != 0 || m.st != 0 {
		t.Errorf("i/sp/dt/st: expected zero, got 0x%04X/%d/%d/%d", m.i, m.sp, m.dt, m.st)
	}
	if m.stack != fresh.stack {
		t.Errorf("stack: expected all zero, got %v", m.stack)
	}
	if m.display != fresh.display {
		t.Error("display: expected all pixels off")
	}
	if m.keys != fresh.keys {
		t.Errorf("keys: expected all released, got %v", m.keys)
	}
}

func TestNewLoadsFontset(t *testing.T) {
	m := New()
	for i, b := range fontset {
		if m.memory[i] != b {
			t.Fatalf("memory[%d]: expected 0x%02X, got 0x%02X", i, b, m.memory[i])
		}
	}
	if m.memory[len(fontset)] != 0 {
		t.Errorf("memory after fontset: expected 0, got 0x%02X", m.memory[len(fontset)])
	}
	if m.PC() != ProgramStart {
		t.Errorf("PC: expected 0x200, got 0x%04X", m.PC())
	}
}

func TestLoad(t *testing.T) {
	m := New()
	if err := m.Load([]byte{0x12, 0x34, 0x56}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Opcode(); got != 0x1234 {
		t.Errorf("Opcode: expected 0x1234, got 0x%04X", got)
	}
	if m.memory[0x202] != 0x56 {
		t.Errorf("memory[0x202]: expected 0x56, got 0x%02X", m.memory[0x202])
	}

	// a second load overwrites the program region from 0x200
	if err := m.Load([]byte{0xAB}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.memory[0x200] != 0xAB || m.memory[0x201] != 0x34 {
		t.Errorf("reload: expected AB 34, got %02X %02X", m.memory[0x200], m.memory[0x201])
	}
}

func TestLoadSizeLimit(t *testing.T) {
	m := New()
	full := make([]byte, MaxProgramSize)
	full[len(full)-1] = 0x7F
	if err := m.Load(full); err != nil {
		t.Fatalf("Load of %d bytes: %v", len(full), err)
	}
	if m.memory[MemorySize-1] != 0x7F {
		t.Errorf("last byte: expected 0x7F, got 0x%02X", m.memory[MemorySize-1])
	}

	m = New()
	err := m.Load(make([]byte, MaxProgramSize+1))
	if !errors.Is(err, ErrProgramTooLarge) {
		t.Fatalf("Load oversized: expected ErrProgramTooLarge, got %v", err)
	}
	assertFresh(t, m)
}

func TestResetRestoresFreshState(t *testing.T) {
	m := newMachine(t,
		0x6A2A, // LD VA, $2A
		0xA0F0, // LD I, $0F0
		0xFA33, // LD B, VA
		0xFA15, // LD DT, VA
		0xFA18, // LD ST, VA
		0xD005, // DRW V0, V0, 5
		0x2300, // CALL $300
	)
	m.KeyPressed(3, true)
	run(t, m, 7)
	if m.StackDepth() != 1 || m.DelayTimer() == 0 {
		t.Fatalf("program did not run: sp=%d dt=%d", m.StackDepth(), m.DelayTimer())
	}

	m.Reset()
	assertFresh(t, m)
}

func TestTickTimers(t *testing.T) {
	m := New()
	m.TickTimers()
	if m.DelayTimer() != 0 || m.SoundTimer() != 0 {
		t.Errorf("timers at zero: expected 0/0, got %d/%d", m.DelayTimer(), m.SoundTimer())
	}

	m.dt = 3
	m.st = 1
	m.TickTimers()
	if m.DelayTimer() != 2 {
		t.Errorf("DelayTimer: expected 2, got %d", m.DelayTimer())
	}
	if m.SoundTimer() != 0 {
		t.Errorf("SoundTimer: expected 0, got %d", m.SoundTimer())
	}
	m.TickTimers()
	if m.SoundTimer() != 0 {
		t.Errorf("SoundTimer underflow: expected 0, got %d", m.SoundTimer())
	}
}

func TestKeyPressed(t *testing.T) {
	m := New()
	m.KeyPressed(0xF, true)
	if !m.keys[0xF] {
		t.Error("key F: expected pressed")
	}
	m.KeyPressed(0xF, false)
	if m.keys[0xF] {
		t.Error("key F: expected released")
	}

	m.KeyPressed(-1, true)
	m.KeyPressed(KeyCount, true)
	if m.keys != [KeyCount]bool{} {
		t.Errorf("out of range keys: expected no change, got %v", m.keys)
	}
}

func TestPixelBounds(t *testing.T) {
	m := New()
	m.display[ScreenWidth-1+ScreenWidth*(ScreenHeight-1)] = true
	if !m.Pixel(ScreenWidth-1, ScreenHeight-1) {
		t.Error("Pixel(63, 31): expected lit")
	}
	if m.Pixel(ScreenWidth, 0) || m.Pixel(0, -1) {
		t.Error("out of range Pixel: expected unlit")
	}
	if snapshot := m.Display(); !snapshot[len(snapshot)-1] {
		t.Error("Display snapshot: expected last pixel lit")
	}
}

func TestOpcodeAtEndOfMemory(t *testing.T) {
	m := New()
	m.pc = MemorySize - 1
	if got := m.Opcode(); got != 0 {
		t.Errorf("Opcode at 0xFFF: expected 0, got 0x%04X", got)
	}
}
