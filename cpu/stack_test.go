package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.NoError(s.Push(0x202))
	assert.False(s.Empty())
	assert.Equal(1, s.Depth())
	assert.Equal(uint16(0x202), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x202)
	s.Push(0x40e)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x40e), val)
	assert.Equal(1, s.Depth())

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x202), val)
	assert.Equal(0, s.Depth())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x202)
	s.Push(0x40e)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x40e), val)
	assert.Equal(2, s.Depth())

	s.Reset()
	val, ok = s.Peek()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	for n := range STACK_LIMIT {
		assert.False(s.Full())
		assert.NoError(s.Push(uint16(0x200 + 2*n)))
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, s.Depth())

	// A full stack refuses further pushes, and is left unchanged.
	assert.ErrorIs(s.Push(0xfff), ErrStackFull)
	assert.Equal(STACK_LIMIT, s.Depth())

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x200+2*(STACK_LIMIT-1)), val)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Reset()
	assert.True(s.Empty())

	s.Push(0x202)
	s.Push(0x204)
	s.Reset()
	assert.True(s.Empty())
	assert.Equal(0, s.Depth())
}
