package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrOutOfBoundsFetch = errors.New("fetch beyond end of memory")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrUnknownOpcode    = errors.New("unknown opcode")
)

// Fault is the error returned by Tick. Kind is one of the Err* sentinels.
type Fault struct {
	Kind   error
	PC     uint16 // address of the faulting instruction
	Opcode uint16
}

func (f *Fault) Error() string {
	if f.Kind == ErrOutOfBoundsFetch {
		return fmt.Sprintf("%s: pc=0x%04X", f.Kind, f.PC)
	}
	return fmt.Sprintf("%s: 0x%04X (%s) at 0x%03X", f.Kind, f.Opcode, Disassemble(f.Opcode), f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}
