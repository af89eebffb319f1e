package cpu

// StackUnderflow selects what a return with an empty stack does.
type StackUnderflow int

//go:generate go tool stringer -linecomment -type=StackUnderflow
const (
	UNDERFLOW_RESET = StackUnderflow(0) // reset
	UNDERFLOW_ERROR = StackUnderflow(1) // error
)

// IndexIncrement selects which of the bulk register transfers advance I.
type IndexIncrement int

//go:generate go tool stringer -linecomment -type=IndexIncrement
const (
	INDEX_INCREMENT_BOTH = IndexIncrement(0) // both
	INDEX_INCREMENT_LOAD = IndexIncrement(1) // load
	INDEX_INCREMENT_NONE = IndexIncrement(2) // none
)

// Quirks are the behaviors that differ between CHIP-8 interpreters.
type Quirks struct {
	StackUnderflow StackUnderflow // Return with an empty stack.
	IndexIncrement IndexIncrement // I after 'ld [i], vx' and 'ld vx, [i]'.
	LogicResetsVF  bool           // 'or', 'and' and 'xor' clear VF.
}

// DefaultQuirks returns the quirks of the reference machine.
func DefaultQuirks() Quirks {
	return Quirks{
		StackUnderflow: UNDERFLOW_RESET,
		IndexIncrement: INDEX_INCREMENT_BOTH,
		LogicResetsVF:  true,
	}
}

// ParseStackUnderflow returns the policy with the given name.
func ParseStackUnderflow(name string) (policy StackUnderflow, err error) {
	for value := range UNDERFLOW_ERROR + 1 {
		if value.String() == name {
			policy = value
			return
		}
	}

	err = ErrQuirk(name)

	return
}

// ParseIndexIncrement returns the policy with the given name.
func ParseIndexIncrement(name string) (policy IndexIncrement, err error) {
	for value := range INDEX_INCREMENT_NONE + 1 {
		if value.String() == name {
			policy = value
			return
		}
	}

	err = ErrQuirk(name)

	return
}

// storeIncrements returns true if 'ld [i], vx' advances I.
func (q Quirks) storeIncrements() bool {
	return q.IndexIncrement == INDEX_INCREMENT_BOTH
}

// loadIncrements returns true if 'ld vx, [i]' advances I.
func (q Quirks) loadIncrements() bool {
	return q.IndexIncrement != INDEX_INCREMENT_NONE
}
