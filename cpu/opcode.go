package cpu

import (
	"fmt"
	"strings"
)

// Op is a decoded instruction variant.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_SYS       = Op(0)  // sys
	OP_CLS       = Op(1)  // cls
	OP_RET       = Op(2)  // ret
	OP_JP        = Op(3)  // jp
	OP_CALL      = Op(4)  // call
	OP_SE_IMM    = Op(5)  // se
	OP_SNE_IMM   = Op(6)  // sne
	OP_SE_REG    = Op(7)  // se
	OP_LD_IMM    = Op(8)  // ld
	OP_ADD_IMM   = Op(9)  // add
	OP_LD_REG    = Op(10) // ld
	OP_OR        = Op(11) // or
	OP_AND       = Op(12) // and
	OP_XOR       = Op(13) // xor
	OP_ADD_REG   = Op(14) // add
	OP_SUB       = Op(15) // sub
	OP_SHR       = Op(16) // shr
	OP_SUBN      = Op(17) // subn
	OP_SHL       = Op(18) // shl
	OP_SNE_REG   = Op(19) // sne
	OP_LD_I      = Op(20) // ld
	OP_JP_V0     = Op(21) // jp
	OP_RND       = Op(22) // rnd
	OP_DRW       = Op(23) // drw
	OP_SKP       = Op(24) // skp
	OP_SKNP      = Op(25) // sknp
	OP_LD_VX_DT  = Op(26) // ld
	OP_LD_VX_K   = Op(27) // ld
	OP_LD_DT_VX  = Op(28) // ld
	OP_LD_ST_VX  = Op(29) // ld
	OP_ADD_I_VX  = Op(30) // add
	OP_LD_F_VX   = Op(31) // ld
	OP_LD_B_VX   = Op(32) // ld
	OP_LD_MEM_VX = Op(33) // ld
	OP_LD_VX_MEM = Op(34) // ld
	OP_COUNT     = Op(35) // -
)

// Operand tokens. Anything else in a pattern's argument list is a literal.
const (
	ARG_VX  = "vx"  // Register selected by bits 11..8.
	ARG_VY  = "vy"  // Register selected by bits 7..4.
	ARG_N   = "n"   // 4-bit immediate, bits 3..0.
	ARG_NN  = "nn"  // 8-bit immediate, bits 7..0.
	ARG_NNN = "nnn" // 12-bit address, bits 11..0.
)

// pattern describes the encoding of one Op.
type pattern struct {
	Mask  uint16
	Match uint16
	Args  []string
}

// patterns is indexed by Op. Decode tries them in order, so exact
// encodings precede the wider ones that would otherwise shadow them.
var patterns = [OP_COUNT]pattern{
	OP_CLS:       {0xffff, 0x00e0, nil},
	OP_RET:       {0xffff, 0x00ee, nil},
	OP_SYS:       {0xf000, 0x0000, []string{ARG_NNN}},
	OP_JP:        {0xf000, 0x1000, []string{ARG_NNN}},
	OP_CALL:      {0xf000, 0x2000, []string{ARG_NNN}},
	OP_SE_IMM:    {0xf000, 0x3000, []string{ARG_VX, ARG_NN}},
	OP_SNE_IMM:   {0xf000, 0x4000, []string{ARG_VX, ARG_NN}},
	OP_SE_REG:    {0xf00f, 0x5000, []string{ARG_VX, ARG_VY}},
	OP_LD_IMM:    {0xf000, 0x6000, []string{ARG_VX, ARG_NN}},
	OP_ADD_IMM:   {0xf000, 0x7000, []string{ARG_VX, ARG_NN}},
	OP_LD_REG:    {0xf00f, 0x8000, []string{ARG_VX, ARG_VY}},
	OP_OR:        {0xf00f, 0x8001, []string{ARG_VX, ARG_VY}},
	OP_AND:       {0xf00f, 0x8002, []string{ARG_VX, ARG_VY}},
	OP_XOR:       {0xf00f, 0x8003, []string{ARG_VX, ARG_VY}},
	OP_ADD_REG:   {0xf00f, 0x8004, []string{ARG_VX, ARG_VY}},
	OP_SUB:       {0xf00f, 0x8005, []string{ARG_VX, ARG_VY}},
	OP_SHR:       {0xf00f, 0x8006, []string{ARG_VX, ARG_VY}},
	OP_SUBN:      {0xf00f, 0x8007, []string{ARG_VX, ARG_VY}},
	OP_SHL:       {0xf00f, 0x800e, []string{ARG_VX, ARG_VY}},
	OP_SNE_REG:   {0xf00f, 0x9000, []string{ARG_VX, ARG_VY}},
	OP_LD_I:      {0xf000, 0xa000, []string{"i", ARG_NNN}},
	OP_JP_V0:     {0xf000, 0xb000, []string{"v0", ARG_NNN}},
	OP_RND:       {0xf000, 0xc000, []string{ARG_VX, ARG_NN}},
	OP_DRW:       {0xf000, 0xd000, []string{ARG_VX, ARG_VY, ARG_N}},
	OP_SKP:       {0xf0ff, 0xe09e, []string{ARG_VX}},
	OP_SKNP:      {0xf0ff, 0xe0a1, []string{ARG_VX}},
	OP_LD_VX_DT:  {0xf0ff, 0xf007, []string{ARG_VX, "dt"}},
	OP_LD_VX_K:   {0xf0ff, 0xf00a, []string{ARG_VX, "k"}},
	OP_LD_DT_VX:  {0xf0ff, 0xf015, []string{"dt", ARG_VX}},
	OP_LD_ST_VX:  {0xf0ff, 0xf018, []string{"st", ARG_VX}},
	OP_ADD_I_VX:  {0xf0ff, 0xf01e, []string{"i", ARG_VX}},
	OP_LD_F_VX:   {0xf0ff, 0xf029, []string{"f", ARG_VX}},
	OP_LD_B_VX:   {0xf0ff, 0xf033, []string{"b", ARG_VX}},
	OP_LD_MEM_VX: {0xf0ff, 0xf055, []string{"[i]", ARG_VX}},
	OP_LD_VX_MEM: {0xf0ff, 0xf065, []string{ARG_VX, "[i]"}},
}

// decodeOrder lists the ops so that exact encodings are tried first.
var decodeOrder = []Op{OP_CLS, OP_RET}

func init() {
	for op := range OP_COUNT {
		if op != OP_CLS && op != OP_RET {
			decodeOrder = append(decodeOrder, op)
		}
	}
}

// Instruction is a decoded instruction word.
// Only the fields named by the Op's operands are set.
type Instruction struct {
	Op   Op
	Word uint16 // Raw instruction word.
	X    uint8
	Y    uint8
	N    uint8
	NN   uint8
	NNN  uint16
}

// Decode decodes an instruction word.
func Decode(word uint16) (inst Instruction, err error) {
	for _, op := range decodeOrder {
		pat := &patterns[op]
		if word&pat.Mask != pat.Match {
			continue
		}

		inst = Instruction{Op: op, Word: word}
		for _, arg := range pat.Args {
			switch arg {
			case ARG_VX:
				inst.X = uint8((word >> 8) & 0xf)
			case ARG_VY:
				inst.Y = uint8((word >> 4) & 0xf)
			case ARG_N:
				inst.N = uint8(word & 0xf)
			case ARG_NN:
				inst.NN = uint8(word & 0xff)
			case ARG_NNN:
				inst.NNN = word & 0xfff
			}
		}
		return
	}

	err = ErrOpcode{Word: word}

	return
}

// MakeInstruction builds an instruction from its operands, in the order
// they appear in the assembly syntax. Literal operands are not passed.
func MakeInstruction(op Op, values ...uint16) (inst Instruction, err error) {
	if op < 0 || op >= OP_COUNT {
		err = ErrOpcodeInvalid
		return
	}

	pat := &patterns[op]
	inst = Instruction{Op: op}

	for _, arg := range pat.Args {
		if !isOperand(arg) {
			continue
		}
		if len(values) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		value := values[0]
		values = values[1:]
		if value > operandLimit(arg) {
			err = ErrOperandRange{Operand: arg, Value: int(value)}
			return
		}
		switch arg {
		case ARG_VX:
			inst.X = uint8(value)
		case ARG_VY:
			inst.Y = uint8(value)
		case ARG_N:
			inst.N = uint8(value)
		case ARG_NN:
			inst.NN = uint8(value)
		case ARG_NNN:
			inst.NNN = value
		}
	}

	if len(values) != 0 {
		err = ErrOpcodeExtraArgs
		return
	}

	inst.Word = inst.Encode()

	return
}

func isOperand(arg string) bool {
	switch arg {
	case ARG_VX, ARG_VY, ARG_N, ARG_NN, ARG_NNN:
		return true
	}
	return false
}

func operandLimit(arg string) uint16 {
	switch arg {
	case ARG_NN:
		return 0xff
	case ARG_NNN:
		return 0xfff
	default:
		return 0xf
	}
}

// Valid returns true if the Op is a defined instruction.
func (inst Instruction) Valid() bool {
	return inst.Op >= 0 && inst.Op < OP_COUNT
}

// Encode returns the instruction word for the instruction's Op and operands.
// Instructions that are not Valid return their raw Word.
func (inst Instruction) Encode() (word uint16) {
	if !inst.Valid() {
		return inst.Word
	}

	pat := &patterns[inst.Op]
	word = pat.Match

	for _, arg := range pat.Args {
		switch arg {
		case ARG_VX:
			word |= uint16(inst.X&0xf) << 8
		case ARG_VY:
			word |= uint16(inst.Y&0xf) << 4
		case ARG_N:
			word |= uint16(inst.N & 0xf)
		case ARG_NN:
			word |= uint16(inst.NN)
		case ARG_NNN:
			word |= inst.NNN & 0xfff
		}
	}

	return
}

// Args returns the formatted operands of the instruction.
func (inst Instruction) Args() (args []string) {
	if !inst.Valid() {
		return
	}

	for _, arg := range patterns[inst.Op].Args {
		var text string
		switch arg {
		case ARG_VX:
			text = fmt.Sprintf("v%x", inst.X)
		case ARG_VY:
			text = fmt.Sprintf("v%x", inst.Y)
		case ARG_N:
			text = fmt.Sprintf("%d", inst.N)
		case ARG_NN:
			text = fmt.Sprintf("$%02x", inst.NN)
		case ARG_NNN:
			text = fmt.Sprintf("$%03x", inst.NNN)
		default:
			text = arg
		}
		args = append(args, text)
	}

	return
}

// String returns the assembly language form of the instruction.
// Instructions that are not Valid are shown as a data word.
func (inst Instruction) String() string {
	if !inst.Valid() {
		return fmt.Sprintf("dw $%04x", inst.Word)
	}

	args := inst.Args()
	if len(args) == 0 {
		return inst.Op.String()
	}

	return inst.Op.String() + " " + strings.Join(args, ", ")
}
