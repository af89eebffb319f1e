package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Words: []string{"ld", "v0", "0x10"}, Bytes: []byte{0x60, 0x10}},
			{LineNo: 2, Addr: 0x202, Words: []string{"db", "1", "2", "3"}, Bytes: []byte{1, 2, 3}},
			{LineNo: 4, Addr: 0x205, Words: []string{"db", "4"}, Bytes: []byte{4}},
		},
	}

	dbg := prog.Debug(0x200)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Offset)

	dbg = prog.Debug(0x201)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(1, dbg.Offset)

	dbg = prog.Debug(0x204)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(2, dbg.Offset)

	assert.Equal(4, prog.LineNo(0x205))
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Words: []string{"cls"}, Bytes: []byte{0x00, 0xe0}},
		},
	}

	dbg := prog.Debug(0x202)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Offset)
	assert.Equal(0, prog.LineNo(0x1fe))

	empty := &Program{}
	assert.Nil(empty.Debug(0x200).Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Addr: 0x200, Bytes: []byte{0x00, 0xe0}},
			{LineNo: 2, Addr: 0x202},
			{LineNo: 3, Addr: 0x202, Bytes: []byte{0x12, 0x02}},
			{LineNo: 4, Addr: 0x206, Bytes: []byte{0xff}},
		},
	}

	assert.Equal([]byte{0x00, 0xe0, 0x12, 0x02, 0x00, 0x00, 0xff}, prog.Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("cls\nlabel:\nret\n"))
	assert.NoError(err)

	addrs := []uint16{}
	for addr, data := range prog.Codes() {
		addrs = append(addrs, addr)
		assert.Equal(2, len(data))
	}
	assert.Equal([]uint16{0x200, 0x202}, addrs)

	// Early termination
	count := 0
	for range prog.Codes() {
		count++
		break
	}
	assert.Equal(1, count)
}
