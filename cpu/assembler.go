// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var labelRe = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// isLabel returns true if the word could name a label.
func isLabel(word string) bool {
	if _, ok := registerOf(word); ok {
		return false
	}
	return labelRe.MatchString(word)
}

// registerOf returns the index of a 'vX' register name.
func registerOf(word string) (reg uint16, ok bool) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		return
	}

	value, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	reg, ok = uint16(value), true

	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}

	text := word
	base := 0
	if strings.HasPrefix(text, "$") {
		text = text[1:]
		base = 16
	}

	v64, err := strconv.ParseInt(text, base, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var equ int
		equ, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(equ)
	}
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// splitWords splits a line into words at spaces, tabs and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' makes labels unique to this expansion.
		asm.expansions++
		unique := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", unique)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, macro.LineNo+n)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the load address of the next opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return memory.PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.expansions = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Bytes) < 2 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		word := uint16(op.Bytes[0])<<8 | uint16(op.Bytes[1])
		word = (word &^ op.LinkMask) | (uint16(addr) & op.LinkMask)
		op.Bytes[0] = byte(word >> 8)
		op.Bytes[1] = byte(word)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Labels:  make(map[string]uint16, len(asm.Label)),
	}
	for label, addr := range asm.Label {
		prog.Labels[label] = uint16(addr)
	}

	return
}

// emit appends an opcode at the current address.
func (asm *Assembler) emit(lineno int, words []string, data []byte, label string, mask uint16) {
	opcode := Opcode{
		LineNo:    lineno,
		Addr:      asm.currentAddr(),
		Words:     words,
		Bytes:     data,
		LinkLabel: label,
		LinkMask:  mask,
	}
	asm.Opcode = append(asm.Opcode, opcode)
}

// parseData handles the 'db' and 'dw' data directives.
func (asm *Assembler) parseData(words []string, lineno int) (err error) {
	if len(words) < 2 {
		err = ErrOpcodeValueMissing
		return
	}

	switch words[0] {
	case "db":
		var data []byte
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if value < -0x80 || value > 0xff {
				err = ErrOperandRange{Operand: "db", Value: value}
				return
			}
			data = append(data, byte(value))
		}
		asm.emit(lineno, words, data, "", 0)
	case "dw":
		// Each word is its own opcode, so each may link a label.
		for _, word := range words[1:] {
			var label string
			value, perr := asm.valueOf(word)
			switch {
			case perr == nil:
				if value < -0x8000 || value > 0xffff {
					err = ErrOperandRange{Operand: "dw", Value: value}
					return
				}
			case isLabel(word):
				label = word
			default:
				err = perr
				return
			}
			asm.emit(lineno, []string{"dw", word}, []byte{byte(value >> 8), byte(value)}, label, 0xffff)
		}
	}

	return
}

// matchOperands attempts to match words against the operand pattern of op.
// The returned ok is false if the words are not a form of op.
func (asm *Assembler) matchOperands(op Op, words []string) (values []uint16, label string, ok bool, err error) {
	pat := &patterns[op]
	if len(pat.Args) != len(words) {
		return
	}

	for n, arg := range pat.Args {
		word := words[n]
		switch arg {
		case ARG_VX, ARG_VY:
			reg, is_reg := registerOf(word)
			if !is_reg {
				return
			}
			values = append(values, reg)
		case ARG_N, ARG_NN, ARG_NNN:
			value, verr := asm.valueOf(word)
			if verr != nil {
				if arg != ARG_NNN || !isLabel(word) {
					return
				}
				label = word
				value = 0
			}
			if value < 0 {
				err = ErrOperandRange{Operand: arg, Value: value}
				return
			}
			values = append(values, uint16(value))
		default:
			if strings.ToLower(word) != arg {
				return
			}
		}
	}

	ok = true

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words
	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	// Alternate syntax substitutions
	switch {
	case len(args) == 1 && (mnemonic == "shr" || mnemonic == "shl"):
		// shr vx => shr vx, vx
		args = []string{args[0], args[0]}
	default:
		// unchanged
	}

	switch mnemonic {
	case "db", "dw":
		err = asm.parseData(words, lineno)
		return
	case ".align":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		if asm.currentAddr()%2 != 0 {
			asm.emit(lineno, initial_words, []byte{0}, "", 0)
		}
		return
	}

	known := false
	for op := range OP_COUNT {
		if op.String() != mnemonic {
			continue
		}
		known = true

		var values []uint16
		var label string
		var ok bool
		values, label, ok, err = asm.matchOperands(op, args)
		if err != nil {
			return
		}
		if !ok {
			continue
		}

		var inst Instruction
		inst, err = MakeInstruction(op, values...)
		if err != nil {
			return
		}

		var mask uint16
		if len(label) != 0 {
			mask = 0x0fff
		}

		asm.emit(lineno, initial_words, []byte{byte(inst.Word >> 8), byte(inst.Word)}, label, mask)
		return
	}

	if !known {
		err = ErrInstructionInvalid
		return
	}

	err = ErrOperand{Mnemonic: mnemonic, Args: strings.Join(args, ", ")}

	return
}
