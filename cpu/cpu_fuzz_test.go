package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// aluReference computes the 8xyN family independently of the interpreter.
func aluReference(n uint16, vx, vy uint8) (result uint8, flag uint8, flagged bool) {
	flagged = true
	switch n {
	case 0x0:
		result, flagged = vy, false
	case 0x1:
		result = vx | vy
	case 0x2:
		result = vx & vy
	case 0x3:
		result = vx ^ vy
	case 0x4:
		sum := int(vx) + int(vy)
		result = uint8(sum % 256)
		if sum > 255 {
			flag = 1
		}
	case 0x5:
		result = uint8((int(vx) - int(vy) + 256) % 256)
		if vx >= vy {
			flag = 1
		}
	case 0x6:
		result = vy / 2
		flag = vy % 2
	case 0x7:
		result = uint8((int(vy) - int(vx) + 256) % 256)
		if vy >= vx {
			flag = 1
		}
	case 0xe:
		result = uint8((int(vy) * 2) % 256)
		flag = vy / 128
	}
	return
}

func FuzzCpu(f *testing.F) {
	for word := range 0x10 {
		f.Add(uint16(word<<12), false, uint8(0))
		f.Add(uint16(word<<12|0x0fff), true, uint8(0xff))
	}
	f.Add(uint16(0x00e0), false, uint8(0))
	f.Add(uint16(0x00ee), true, uint8(0))
	f.Add(uint16(0xf00a), false, uint8(3))

	f.Fuzz(func(t *testing.T, word uint16, stack bool, seed uint8) {
		assert := assert.New(t)

		cpu := newTestCpu()
		cpu.Seed(uint64(seed))
		cpu.I = 0x300
		for n := range cpu.V {
			// Keep values in key range, and vary them with the seed.
			cpu.V[n] = (uint8(n) ^ seed) & 0xf
		}
		cpu.V[REGISTER_FLAG] = 0x0c
		if stack {
			cpu.Stack.Push(0x246)
		}
		cpu.Memory.WriteBlock(cpu.PC, []byte{byte(word >> 8), byte(word)})

		pre := cpu.Registers
		next_pc := pre.PC + 2

		err := cpu.Step()

		code_str := fmt.Sprintf("0x%04x stack:%v seed:%v\ncpu:%v", word, stack, seed, cpu.String())

		inst, decode_err := Decode(word)
		if decode_err != nil {
			var eo ErrOpcode
			assert.True(errors.As(err, &eo), code_str)
			assert.Equal(ErrOpcode{Word: word, Addr: pre.PC}, eo, code_str)
			assert.Equal(next_pc, cpu.PC, code_str)
			assert.Equal(pre.V, cpu.V, code_str)
			return
		}

		assert.NoError(err, code_str)
		assert.Equal(word, inst.Encode(), code_str)

		x, y := inst.X, inst.Y
		vx, vy := pre.V[x], pre.V[y]

		switch inst.Op {
		case OP_JP:
			assert.Equal(inst.NNN, cpu.PC, code_str)
		case OP_CALL:
			assert.Equal(inst.NNN, cpu.PC, code_str)
			top, ok := cpu.Stack.Peek()
			assert.True(ok, code_str)
			assert.Equal(next_pc, top, code_str)
		case OP_RET:
			if stack {
				assert.Equal(uint16(0x246), cpu.PC, code_str)
			} else {
				assert.Equal(uint16(0), cpu.PC, code_str)
			}
		case OP_JP_V0:
			assert.Equal(inst.NNN+uint16(pre.V[0]), cpu.PC, code_str)
		case OP_LD_VX_K:
			assert.Equal(pre.PC, cpu.PC, code_str)
			assert.Equal(STATE_AWAIT_KEY, cpu.State, code_str)
		case OP_SE_IMM, OP_SNE_IMM, OP_SE_REG, OP_SNE_REG, OP_SKP, OP_SKNP:
			assert.Contains([]uint16{next_pc, next_pc + 2}, cpu.PC, code_str)
		default:
			assert.Equal(next_pc, cpu.PC, code_str)
		}

		switch inst.Op {
		case OP_LD_REG, OP_OR, OP_AND, OP_XOR, OP_ADD_REG, OP_SUB, OP_SHR, OP_SUBN, OP_SHL:
			result, flag, flagged := aluReference(word&0xf, vx, vy)
			switch {
			case !flagged:
				assert.Equal(result, cpu.V[x], code_str)
			case x == REGISTER_FLAG:
				assert.Equal(flag, cpu.V[REGISTER_FLAG], code_str)
			default:
				assert.Equal(result, cpu.V[x], code_str)
				assert.Equal(flag, cpu.V[REGISTER_FLAG], code_str)
			}
		case OP_LD_IMM:
			assert.Equal(inst.NN, cpu.V[x], code_str)
		case OP_ADD_IMM:
			assert.Equal(vx+inst.NN, cpu.V[x], code_str)
			if x != REGISTER_FLAG {
				assert.Equal(pre.V[REGISTER_FLAG], cpu.V[REGISTER_FLAG], code_str)
			}
		case OP_RND:
			assert.Equal(uint8(0), cpu.V[x]&^inst.NN, code_str)
		case OP_LD_I:
			assert.Equal(inst.NNN, cpu.I, code_str)
		case OP_ADD_I_VX:
			assert.Equal(pre.I+uint16(vx), cpu.I, code_str)
		case OP_LD_B_VX:
			assert.Equal([]byte{vx / 100, (vx / 10) % 10, vx % 10}, cpu.Memory.ReadBlock(pre.I, 3), code_str)
		case OP_LD_MEM_VX:
			assert.Equal(pre.V[:x+1], cpu.Memory.ReadBlock(pre.I, int(x)+1), code_str)
			assert.Equal(pre.I+uint16(x)+1, cpu.I, code_str)
		case OP_LD_VX_MEM:
			assert.Equal(cpu.Memory.ReadBlock(pre.I, int(x)+1), cpu.V[:x+1], code_str)
			assert.Equal(pre.I+uint16(x)+1, cpu.I, code_str)
		case OP_LD_DT_VX:
			assert.Equal(vx, cpu.DT, code_str)
		case OP_LD_ST_VX:
			assert.Equal(vx, cpu.ST, code_str)
		case OP_DRW:
			assert.Contains([]uint8{0, 1}, cpu.V[REGISTER_FLAG], code_str)
		}
	})
}
