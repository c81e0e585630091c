package chip8

import "testing"

func TestDisassemble(t *testing.T) {
	tests := []struct {
		instr uint16
		want  string
	}{
		{0x0000, "NOP"},
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, ".word $0123"},
		{0x1ABC, "JP $ABC"},
		{0x2300, "CALL $300"},
		{0x3A42, "SE VA, $42"},
		{0x4B00, "SNE VB, $00"},
		{0x5120, "SE V1, V2"},
		{0x5121, ".word $5121"},
		{0x6F01, "LD VF, $01"},
		{0x7C0A, "ADD VC, $0A"},
		{0x8120, "LD V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8127, "SUBN V1, V2"},
		{0x8126, "SHR V1"},
		{0x812E, "SHL V1"},
		{0x8129, ".word $8129"},
		{0x9DE0, "SNE VD, VE"},
		{0xA2F0, "LD I, $2F0"},
		{0xB123, "JP V0, $123"},
		{0xC3FF, "RND V3, $FF"},
		{0xD125, "DRW V1, V2, $5"},
		{0xE59E, "SKP V5"},
		{0xE5A1, "SKNP V5"},
		{0xE5A2, ".word $E5A2"},
		{0xF407, "LD V4, DT"},
		{0xF40A, "LD V4, K"},
		{0xF415, "LD DT, V4"},
		{0xF418, "LD ST, V4"},
		{0xF41E, "ADD I, V4"},
		{0xF429, "LD F, V4"},
		{0xF433, "LD B, V4"},
		{0xF455, "LD [I], V4"},
		{0xF465, "LD V4, [I]"},
		{0xF466, ".word $F466"},
	}

	for _, tt := range tests {
		if got := Disassemble(tt.instr); got != tt.want {
			t.Errorf("Disassemble(0x%04X): expected %q, got %q", tt.instr, tt.want, got)
		}
	}
}
