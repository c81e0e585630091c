package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"ch8emu/chip8"
)

func readROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading game file %s", path)
	}
	if len(data) == 0 {
		return nil, errors.Errorf("game file %s is empty", path)
	}
	return data, nil
}

// emulator couples a machine with the ROM it runs and the frame cadence.
type emulator struct {
	vm            *chip8.Machine
	rom           []byte
	ticksPerFrame int
	logger        *slog.Logger

	fault error
}

func newEmulator(vm *chip8.Machine, rom []byte, ticksPerFrame int, logger *slog.Logger) (*emulator, error) {
	e := &emulator{
		vm:            vm,
		rom:           rom,
		ticksPerFrame: ticksPerFrame,
		logger:        logger,
	}
	if err := e.reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// reset restarts the ROM on a freshly reset machine and clears a halt.
func (e *emulator) reset() error {
	e.vm.Reset()
	e.fault = nil
	return errors.Wrap(e.vm.Load(e.rom), "loading game")
}

// runFrame executes ticksPerFrame instructions followed by one timer tick.
// The fault that halts the machine is returned once; later frames are no-ops
// until reset.
func (e *emulator) runFrame() error {
	if e.fault != nil {
		return nil
	}
	for i := 0; i < e.ticksPerFrame; i++ {
		if err := e.vm.Tick(); err != nil {
			e.fault = err
			e.logger.Error("machine halted", slog.Any("error", err))
			return err
		}
	}
	e.vm.TickTimers()
	return nil
}

func (e *emulator) halted() bool {
	return e.fault != nil
}
