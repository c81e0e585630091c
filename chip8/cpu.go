package chip8

import (
	"context"
	"fmt"
	"log/slog"
)

// Tick fetches and executes one instruction. A returned *Fault leaves the
// machine in the state reached before the failing step; the host decides
// whether to stop, reset or keep ticking.
func (m *Machine) Tick() error {
	addr := m.pc
	instr, err := m.fetch()
	if err != nil {
		return err
	}

	if m.logger != nil && m.logger.Enabled(context.Background(), slog.LevelDebug) {
		m.logger.Debug("exec",
			slog.String("pc", fmt.Sprintf("0x%03X", addr)),
			slog.String("opcode", fmt.Sprintf("0x%04X", instr)),
			slog.String("instr", Disassemble(instr)))
	}

	if kind := m.execute(instr); kind != nil {
		return &Fault{Kind: kind, PC: addr, Opcode: instr}
	}
	return nil
}

func (m *Machine) fetch() (uint16, error) {
	if int(m.pc)+1 >= MemorySize {
		return 0, &Fault{Kind: ErrOutOfBoundsFetch, PC: m.pc}
	}
	instr := uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])

	// increment the PC as a default case; may be modified later
	m.pc += 2
	return instr, nil
}

func (m *Machine) push(addr uint16) error {
	if m.sp == StackSize {
		return ErrStackOverflow
	}
	m.stack[m.sp] = addr
	m.sp++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.sp == 0 {
		return 0, ErrStackUnderflow
	}
	m.sp--
	return m.stack[m.sp], nil
}

func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc += 2
	}
}

// execute runs a decoded instruction and returns the fault kind, if any.
func (m *Machine) execute(instr uint16) error {
	x := registerX(instr)
	y := registerY(instr)
	n := instr & 0xF
	nn := byte(instr & 0xFF)
	nnn := instr & 0xFFF

	switch instr >> 12 {
	case 0x0:
		switch instr {
		case 0x0000:
		case 0x00E0: // clear screen
			m.display = Display{}
		case 0x00EE:
			ret, err := m.pop()
			if err != nil {
				return err
			}
			m.pc = ret
		default:
			return ErrUnknownOpcode
		}
	case 0x1: // jump
		m.pc = nnn
	case 0x2:
		if err := m.push(m.pc); err != nil {
			return err
		}
		m.pc = nnn
	case 0x3:
		m.skipIf(m.v[x] == nn)
	case 0x4:
		m.skipIf(m.v[x] != nn)
	case 0x5:
		if n != 0 {
			return ErrUnknownOpcode
		}
		m.skipIf(m.v[x] == m.v[y])
	case 0x6:
		m.v[x] = nn
	case 0x7:
		m.v[x] += nn
	case 0x8:
		return m.executeALU(x, y, n)
	case 0x9:
		if n != 0 {
			return ErrUnknownOpcode
		}
		m.skipIf(m.v[x] != m.v[y])
	case 0xA:
		m.i = nnn
	case 0xB:
		m.pc = uint16(m.v[0]) + nnn
	case 0xC:
		m.v[x] = byte(m.rng.UintN(256)) & nn
	case 0xD:
		m.draw(m.v[x], m.v[y], n)
	case 0xE:
		key := m.keys[m.v[x]&0xF]
		switch nn {
		case 0x9E:
			m.skipIf(key)
		case 0xA1:
			m.skipIf(!key)
		default:
			return ErrUnknownOpcode
		}
	case 0xF:
		return m.executeMisc(x, nn)
	}
	return nil
}

// executeALU handles the 8xyN register arithmetic group. VF is written after
// the result so that x == 0xF ends up holding the flag.
func (m *Machine) executeALU(x, y, n uint16) error {
	vx, vy := m.v[x], m.v[y]
	switch n {
	case 0x0:
		m.v[x] = vy
	case 0x1:
		m.v[x] = vx | vy
	case 0x2:
		m.v[x] = vx & vy
	case 0x3:
		m.v[x] = vx ^ vy
	case 0x4:
		sum := uint16(vx) + uint16(vy)
		m.v[x] = byte(sum)
		// VF is 1 when the addition did not overflow
		m.v[flagRegister] = boolToByte(sum <= 0xFF)
	case 0x5:
		m.v[x] = vx - vy
		m.v[flagRegister] = boolToByte(vx >= vy)
	case 0x6:
		if m.shiftUsesVY {
			vx = vy
		}
		m.v[x] = vx >> 1
		m.v[flagRegister] = vx & 0x1
	case 0x7:
		m.v[x] = vy - vx
		m.v[flagRegister] = boolToByte(vy >= vx)
	case 0xE:
		if m.shiftUsesVY {
			vx = vy
		}
		m.v[x] = vx << 1
		m.v[flagRegister] = vx >> 7
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (m *Machine) executeMisc(x uint16, nn byte) error {
	switch nn {
	case 0x07:
		m.v[x] = m.dt
	case 0x0A:
		m.waitKey(x)
	case 0x15:
		m.dt = m.v[x]
	case 0x18:
		m.st = m.v[x]
	case 0x1E:
		m.i += uint16(m.v[x])
	case 0x29:
		m.i = uint16(m.v[x]) * glyphSize
	case 0x33:
		vx := m.v[x]
		m.memory[m.addr(0)] = vx / 100
		m.memory[m.addr(1)] = (vx / 10) % 10
		m.memory[m.addr(2)] = vx % 10
	case 0x55:
		for r := uint16(0); r <= x; r++ {
			m.memory[m.addr(r)] = m.v[r]
		}
	case 0x65:
		for r := uint16(0); r <= x; r++ {
			m.v[r] = m.memory[m.addr(r)]
		}
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// waitKey stores the lowest pressed key in Vx, or rewinds the PC so the
// instruction is fetched again on the next tick.
func (m *Machine) waitKey(x uint16) {
	for k, pressed := range m.keys {
		if pressed {
			m.v[x] = byte(k)
			return
		}
	}
	m.pc -= 2
}

// draw XORs an n-row sprite from memory at I onto the display. Each pixel
// wraps around the screen edges on its own. VF reports whether any lit pixel
// was turned off.
func (m *Machine) draw(vx, vy byte, rows uint16) {
	collision := false
	for row := uint16(0); row < rows; row++ {
		line := m.memory[m.addr(row)]
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}
			px := (int(vx) + col) % ScreenWidth
			py := (int(vy) + int(row)) % ScreenHeight
			idx := px + ScreenWidth*py
			if m.display[idx] {
				collision = true
			}
			m.display[idx] = !m.display[idx]
		}
	}
	m.v[flagRegister] = boolToByte(collision)
}

// addr returns I+offset wrapped to the memory size.
func (m *Machine) addr(offset uint16) uint16 {
	return (m.i + offset) % MemorySize
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
