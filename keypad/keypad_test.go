package keypad

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad_PressRelease(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	for key := range Key(KEY_COUNT) {
		assert.False(kp.IsPressed(key))
	}

	kp.Press(0xa)
	assert.True(kp.IsPressed(0xa))
	assert.False(kp.IsPressed(0xb))

	kp.Release(0xa)
	assert.False(kp.IsPressed(0xa))
}

func TestKeypad_Range(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	assert.PanicsWithValue(ErrKeyRange(0x10), func() { kp.IsPressed(0x10) })
	assert.PanicsWithValue(ErrKeyRange(0xff), func() { kp.Press(0xff) })
	assert.PanicsWithValue(ErrKeyRange(0x20), func() { kp.Release(0x20) })
}

func TestKeypad_Wait(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	// Nothing is resolved until armed.
	kp.Press(0x3)
	kp.Release(0x3)
	_, ok := kp.PollWaited()
	assert.False(ok)

	kp.ArmWait()
	assert.True(kp.Waiting())

	// A press alone does not resolve the wait.
	kp.Press(0x7)
	_, ok = kp.PollWaited()
	assert.False(ok)
	assert.True(kp.Waiting())

	kp.Release(0x7)
	assert.False(kp.Waiting())

	key, ok := kp.PollWaited()
	assert.True(ok)
	assert.Equal(Key(0x7), key)

	// Polling clears the resolution.
	_, ok = kp.PollWaited()
	assert.False(ok)
}

func TestKeypad_WaitHeldBeforeArm(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	kp.Press(0xe)
	kp.ArmWait()
	kp.Release(0xe)

	key, ok := kp.PollWaited()
	assert.True(ok)
	assert.Equal(Key(0xe), key)
}

func TestKeypad_ArmDiscardsStale(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	kp.ArmWait()
	kp.Press(0x1)
	kp.Release(0x1)

	kp.ArmWait()
	_, ok := kp.PollWaited()
	assert.False(ok)
}

func TestKeypad_Reset(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	kp.Press(0x1)
	kp.ArmWait()

	kp.Reset()
	assert.False(kp.IsPressed(0x1))
	assert.False(kp.Waiting())
}

func TestKeypad_Concurrent(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}

	var wg sync.WaitGroup
	for key := range Key(KEY_COUNT) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				kp.Press(key)
				kp.IsPressed(key)
				kp.Release(key)
			}
		}()
	}
	wg.Wait()

	for key := range Key(KEY_COUNT) {
		assert.False(kp.IsPressed(key))
	}
}

func TestKeypad_Defines(t *testing.T) {
	assert := assert.New(t)

	kp := &Keypad{}
	defines := map[string]string{}
	for key, value := range kp.Defines() {
		defines[key] = value
	}

	assert.Equal(KEY_COUNT, len(defines))
	assert.Equal("0x0", defines["KEY_0"])
	assert.Equal("0xf", defines["KEY_F"])
}
