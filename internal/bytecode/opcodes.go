package bytecode

import "fmt"

type OpCode byte

const (
	OP_END OpCode = iota
	OP_RETURN
	OP_CALL
	OP_TAILCALL
	OP_PUSHNIL
	OP_POP
	OP_PUSHINT
	OP_PUSHSTRING
	OP_PUSHNUM
	OP_PUSHNEGNUM
	OP_PUSHUPVALUE
	OP_GETLOCAL
	OP_GETGLOBAL
	OP_GETTABLE
	OP_GETDOTTED
	OP_GETINDEXED
	OP_PUSHSELF
	OP_CREATETABLE
	OP_SETLOCAL
	OP_SETGLOBAL
	OP_SETTABLE
	OP_SETLIST
	OP_SETMAP
	OP_ADD
	OP_ADDI
	OP_SUB
	OP_MULT
	OP_DIV
	OP_POW
	OP_CONCAT
	OP_MINUS
	OP_NOT
	OP_JMPNE
	OP_JMPEQ
	OP_JMPLT
	OP_JMPLE
	OP_JMPGT
	OP_JMPGE
	OP_JMPT
	OP_JMPF
	OP_JMPONT
	OP_JMPONF
	OP_JMP
	OP_PUSHNILJMP
	OP_FORPREP
	OP_FORLOOP
	OP_LFORPREP
	OP_LFORLOOP
	OP_CLOSURE

	NUM_OPCODES
)

/**
 * instruction formats
 */
type OpMode byte

const (
	IO  OpMode = iota /* no argument */
	IU                /* unsigned argument */
	IS                /* signed argument */
	IAB               /* two arguments A and B */
)

/**
 * meaning of the unsigned argument
 */
type OpArgMode byte

const (
	OpArgN OpArgMode = iota /* argument is not used */
	OpArgU                  /* plain count or index */
	OpArgK                  /* string constant index */
	OpArgF                  /* number constant index */
	OpArgL                  /* local variable index */
	OpArgJ                  /* jump displacement */
)

type opInfo struct {
	name    string
	mode    OpMode
	argMode OpArgMode
}

var opInfos = [NUM_OPCODES]opInfo{
	OP_END:         {"END", IO, OpArgN},
	OP_RETURN:      {"RETURN", IU, OpArgU},
	OP_CALL:        {"CALL", IAB, OpArgU},
	OP_TAILCALL:    {"TAILCALL", IAB, OpArgU},
	OP_PUSHNIL:     {"PUSHNIL", IU, OpArgU},
	OP_POP:         {"POP", IU, OpArgU},
	OP_PUSHINT:     {"PUSHINT", IS, OpArgU},
	OP_PUSHSTRING:  {"PUSHSTRING", IU, OpArgK},
	OP_PUSHNUM:     {"PUSHNUM", IU, OpArgF},
	OP_PUSHNEGNUM:  {"PUSHNEGNUM", IU, OpArgF},
	OP_PUSHUPVALUE: {"PUSHUPVALUE", IU, OpArgU},
	OP_GETLOCAL:    {"GETLOCAL", IU, OpArgL},
	OP_GETGLOBAL:   {"GETGLOBAL", IU, OpArgK},
	OP_GETTABLE:    {"GETTABLE", IO, OpArgN},
	OP_GETDOTTED:   {"GETDOTTED", IU, OpArgK},
	OP_GETINDEXED:  {"GETINDEXED", IU, OpArgL},
	OP_PUSHSELF:    {"PUSHSELF", IU, OpArgK},
	OP_CREATETABLE: {"CREATETABLE", IU, OpArgU},
	OP_SETLOCAL:    {"SETLOCAL", IU, OpArgL},
	OP_SETGLOBAL:   {"SETGLOBAL", IU, OpArgK},
	OP_SETTABLE:    {"SETTABLE", IAB, OpArgU},
	OP_SETLIST:     {"SETLIST", IAB, OpArgU},
	OP_SETMAP:      {"SETMAP", IU, OpArgU},
	OP_ADD:         {"ADD", IO, OpArgN},
	OP_ADDI:        {"ADDI", IS, OpArgU},
	OP_SUB:         {"SUB", IO, OpArgN},
	OP_MULT:        {"MULT", IO, OpArgN},
	OP_DIV:         {"DIV", IO, OpArgN},
	OP_POW:         {"POW", IO, OpArgN},
	OP_CONCAT:      {"CONCAT", IU, OpArgU},
	OP_MINUS:       {"MINUS", IO, OpArgN},
	OP_NOT:         {"NOT", IO, OpArgN},
	OP_JMPNE:       {"JMPNE", IS, OpArgJ},
	OP_JMPEQ:       {"JMPEQ", IS, OpArgJ},
	OP_JMPLT:       {"JMPLT", IS, OpArgJ},
	OP_JMPLE:       {"JMPLE", IS, OpArgJ},
	OP_JMPGT:       {"JMPGT", IS, OpArgJ},
	OP_JMPGE:       {"JMPGE", IS, OpArgJ},
	OP_JMPT:        {"JMPT", IS, OpArgJ},
	OP_JMPF:        {"JMPF", IS, OpArgJ},
	OP_JMPONT:      {"JMPONT", IS, OpArgJ},
	OP_JMPONF:      {"JMPONF", IS, OpArgJ},
	OP_JMP:         {"JMP", IS, OpArgJ},
	OP_PUSHNILJMP:  {"PUSHNILJMP", IO, OpArgN},
	OP_FORPREP:     {"FORPREP", IS, OpArgJ},
	OP_FORLOOP:     {"FORLOOP", IS, OpArgJ},
	OP_LFORPREP:    {"LFORPREP", IS, OpArgJ},
	OP_LFORLOOP:    {"LFORLOOP", IS, OpArgJ},
	OP_CLOSURE:     {"CLOSURE", IAB, OpArgU},
}

func (op OpCode) String() string {
	if op >= NUM_OPCODES {
		return fmt.Sprintf("OP(%d)", int(op))
	}
	return opInfos[op].name
}

func (op OpCode) Mode() OpMode {
	if op >= NUM_OPCODES {
		return IO
	}
	return opInfos[op].mode
}

func (op OpCode) ArgMode() OpArgMode {
	if op >= NUM_OPCODES {
		return OpArgN
	}
	return opInfos[op].argMode
}

// IsCondJump reports whether op is a conditional jump.
func (op OpCode) IsCondJump() bool {
	return op >= OP_JMPNE && op <= OP_JMPONF
}

// NumCondArgs is the number of operands a conditional jump pops.
func (op OpCode) NumCondArgs() int {
	switch op {
	case OP_JMPNE, OP_JMPEQ, OP_JMPLT, OP_JMPLE, OP_JMPGT, OP_JMPGE:
		return 2
	case OP_JMPT, OP_JMPF, OP_JMPONT, OP_JMPONF:
		return 1
	default:
		return 0
	}
}
