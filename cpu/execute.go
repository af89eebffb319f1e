package cpu

import (
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/memory"
)

// execute holds the semantics of each Op.
var execute = [OP_COUNT]func(cpu *Cpu, inst Instruction) error{
	OP_SYS:       (*Cpu).opSys,
	OP_CLS:       (*Cpu).opCls,
	OP_RET:       (*Cpu).opRet,
	OP_JP:        (*Cpu).opJp,
	OP_CALL:      (*Cpu).opCall,
	OP_SE_IMM:    (*Cpu).opSeImm,
	OP_SNE_IMM:   (*Cpu).opSneImm,
	OP_SE_REG:    (*Cpu).opSeReg,
	OP_LD_IMM:    (*Cpu).opLdImm,
	OP_ADD_IMM:   (*Cpu).opAddImm,
	OP_LD_REG:    (*Cpu).opLdReg,
	OP_OR:        (*Cpu).opOr,
	OP_AND:       (*Cpu).opAnd,
	OP_XOR:       (*Cpu).opXor,
	OP_ADD_REG:   (*Cpu).opAddReg,
	OP_SUB:       (*Cpu).opSub,
	OP_SHR:       (*Cpu).opShr,
	OP_SUBN:      (*Cpu).opSubn,
	OP_SHL:       (*Cpu).opShl,
	OP_SNE_REG:   (*Cpu).opSneReg,
	OP_LD_I:      (*Cpu).opLdI,
	OP_JP_V0:     (*Cpu).opJpV0,
	OP_RND:       (*Cpu).opRnd,
	OP_DRW:       (*Cpu).opDrw,
	OP_SKP:       (*Cpu).opSkp,
	OP_SKNP:      (*Cpu).opSknp,
	OP_LD_VX_DT:  (*Cpu).opLdVxDt,
	OP_LD_VX_K:   (*Cpu).opLdVxK,
	OP_LD_DT_VX:  (*Cpu).opLdDtVx,
	OP_LD_ST_VX:  (*Cpu).opLdStVx,
	OP_ADD_I_VX:  (*Cpu).opAddIVx,
	OP_LD_F_VX:   (*Cpu).opLdFVx,
	OP_LD_B_VX:   (*Cpu).opLdBVx,
	OP_LD_MEM_VX: (*Cpu).opLdMemVx,
	OP_LD_VX_MEM: (*Cpu).opLdVxMem,
}

// skipIf skips the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.PC += 2
	}
}

// setFlag writes VF. It is always the last register written by an instruction.
func (cpu *Cpu) setFlag(cond bool) {
	if cond {
		cpu.V[REGISTER_FLAG] = 1
	} else {
		cpu.V[REGISTER_FLAG] = 0
	}
}

func (cpu *Cpu) opSys(inst Instruction) (err error) {
	return
}

func (cpu *Cpu) opCls(inst Instruction) (err error) {
	cpu.Display.Clear()
	return
}

func (cpu *Cpu) opRet(inst Instruction) (err error) {
	addr, ok := cpu.Stack.Pop()
	if ok {
		cpu.PC = addr
		return
	}

	switch cpu.Quirks.StackUnderflow {
	case UNDERFLOW_ERROR:
		err = ErrStackEmpty
	default:
		cpu.PC = 0
	}

	return
}

func (cpu *Cpu) opJp(inst Instruction) (err error) {
	cpu.PC = inst.NNN
	return
}

func (cpu *Cpu) opCall(inst Instruction) (err error) {
	err = cpu.Stack.Push(cpu.PC)
	if err != nil {
		return
	}

	cpu.PC = inst.NNN

	return
}

func (cpu *Cpu) opSeImm(inst Instruction) (err error) {
	cpu.skipIf(cpu.V[inst.X] == inst.NN)
	return
}

func (cpu *Cpu) opSneImm(inst Instruction) (err error) {
	cpu.skipIf(cpu.V[inst.X] != inst.NN)
	return
}

func (cpu *Cpu) opSeReg(inst Instruction) (err error) {
	cpu.skipIf(cpu.V[inst.X] == cpu.V[inst.Y])
	return
}

func (cpu *Cpu) opSneReg(inst Instruction) (err error) {
	cpu.skipIf(cpu.V[inst.X] != cpu.V[inst.Y])
	return
}

func (cpu *Cpu) opLdImm(inst Instruction) (err error) {
	cpu.V[inst.X] = inst.NN
	return
}

func (cpu *Cpu) opAddImm(inst Instruction) (err error) {
	cpu.V[inst.X] += inst.NN
	return
}

func (cpu *Cpu) opLdReg(inst Instruction) (err error) {
	cpu.V[inst.X] = cpu.V[inst.Y]
	return
}

// logic stores a bitwise result, clearing VF if the quirk asks for it.
func (cpu *Cpu) logic(inst Instruction, value uint8) {
	cpu.V[inst.X] = value
	if cpu.Quirks.LogicResetsVF {
		cpu.setFlag(false)
	}
}

func (cpu *Cpu) opOr(inst Instruction) (err error) {
	cpu.logic(inst, cpu.V[inst.X]|cpu.V[inst.Y])
	return
}

func (cpu *Cpu) opAnd(inst Instruction) (err error) {
	cpu.logic(inst, cpu.V[inst.X]&cpu.V[inst.Y])
	return
}

func (cpu *Cpu) opXor(inst Instruction) (err error) {
	cpu.logic(inst, cpu.V[inst.X]^cpu.V[inst.Y])
	return
}

func (cpu *Cpu) opAddReg(inst Instruction) (err error) {
	vx, vy := cpu.V[inst.X], cpu.V[inst.Y]
	sum := uint16(vx) + uint16(vy)
	cpu.V[inst.X] = uint8(sum)
	cpu.setFlag(sum > 0xff)
	return
}

func (cpu *Cpu) opSub(inst Instruction) (err error) {
	vx, vy := cpu.V[inst.X], cpu.V[inst.Y]
	cpu.V[inst.X] = vx - vy
	cpu.setFlag(vx >= vy)
	return
}

func (cpu *Cpu) opSubn(inst Instruction) (err error) {
	vx, vy := cpu.V[inst.X], cpu.V[inst.Y]
	cpu.V[inst.X] = vy - vx
	cpu.setFlag(vy >= vx)
	return
}

func (cpu *Cpu) opShr(inst Instruction) (err error) {
	value := cpu.V[inst.Y]
	cpu.V[inst.X] = value >> 1
	cpu.setFlag(value&0x01 != 0)
	return
}

func (cpu *Cpu) opShl(inst Instruction) (err error) {
	value := cpu.V[inst.Y]
	cpu.V[inst.X] = value << 1
	cpu.setFlag(value&0x80 != 0)
	return
}

func (cpu *Cpu) opLdI(inst Instruction) (err error) {
	cpu.I = inst.NNN
	return
}

func (cpu *Cpu) opJpV0(inst Instruction) (err error) {
	cpu.PC = inst.NNN + uint16(cpu.V[0])
	return
}

func (cpu *Cpu) opRnd(inst Instruction) (err error) {
	cpu.V[inst.X] = uint8(cpu.rand.UintN(256)) & inst.NN
	return
}

// opDrw XORs an 8 pixel wide sprite of N rows from memory at I onto the
// framebuffer, wrapping at the edges. VF is set if any pixel was erased.
func (cpu *Cpu) opDrw(inst Instruction) (err error) {
	x0, y0 := int(cpu.V[inst.X]), int(cpu.V[inst.Y])

	sprite := cpu.Memory.ReadBlock(cpu.I, int(inst.N))

	collision := false
	for row, bits := range sprite {
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			x, y := x0+col, y0+row
			pixel := cpu.Display.Pixel(x, y)
			if pixel != 0 {
				collision = true
			}
			cpu.Display.SetPixel(x, y, pixel^1)
		}
	}

	cpu.setFlag(collision)

	return
}

func (cpu *Cpu) opSkp(inst Instruction) (err error) {
	cpu.skipIf(cpu.Keypad.IsPressed(keypad.Key(cpu.V[inst.X])))
	return
}

func (cpu *Cpu) opSknp(inst Instruction) (err error) {
	cpu.skipIf(!cpu.Keypad.IsPressed(keypad.Key(cpu.V[inst.X])))
	return
}

func (cpu *Cpu) opLdVxDt(inst Instruction) (err error) {
	cpu.V[inst.X] = cpu.DT
	return
}

// opLdVxK arms the keypad wait, and holds PC on this instruction until
// a key is released.
func (cpu *Cpu) opLdVxK(inst Instruction) (err error) {
	cpu.Keypad.ArmWait()
	cpu.State = STATE_AWAIT_KEY
	cpu.WaitRegister = inst.X
	cpu.PC -= 2
	return
}

func (cpu *Cpu) opLdDtVx(inst Instruction) (err error) {
	cpu.DT = cpu.V[inst.X]
	return
}

func (cpu *Cpu) opLdStVx(inst Instruction) (err error) {
	cpu.ST = cpu.V[inst.X]
	return
}

func (cpu *Cpu) opAddIVx(inst Instruction) (err error) {
	cpu.I += uint16(cpu.V[inst.X])
	return
}

func (cpu *Cpu) opLdFVx(inst Instruction) (err error) {
	cpu.I = memory.FontAddress(cpu.V[inst.X])
	return
}

func (cpu *Cpu) opLdBVx(inst Instruction) (err error) {
	value := cpu.V[inst.X]
	cpu.Memory.WriteBlock(cpu.I, []byte{value / 100, (value / 10) % 10, value % 10})
	return
}

func (cpu *Cpu) opLdMemVx(inst Instruction) (err error) {
	count := int(inst.X) + 1
	cpu.Memory.WriteBlock(cpu.I, cpu.V[:count])
	if cpu.Quirks.storeIncrements() {
		cpu.I += uint16(count)
	}
	return
}

func (cpu *Cpu) opLdVxMem(inst Instruction) (err error) {
	count := int(inst.X) + 1
	copy(cpu.V[:count], cpu.Memory.ReadBlock(cpu.I, count))
	if cpu.Quirks.loadIncrements() {
		cpu.I += uint16(count)
	}
	return
}
