package bytecode

/**
 * size and position of opcode arguments.
 *
 * An instruction is an unsigned 32-bit word. The opcode lives in the
 * first 6 bits; the remaining bits hold either one unsigned argument U,
 * one signed argument S (stored as U - MAXARG_S), or two arguments A
 * (upper 17 bits) and B (9 bits).
 */
const (
	SIZE_INSTRUCTION = 32
	SIZE_OP          = 6
	SIZE_B           = 9
	SIZE_U           = SIZE_INSTRUCTION - SIZE_OP
	SIZE_A           = SIZE_INSTRUCTION - (SIZE_OP + SIZE_B)

	POS_U = SIZE_OP
	POS_B = SIZE_OP
	POS_A = SIZE_OP + SIZE_B
)

const (
	MAXARG_U = 1<<SIZE_U - 1
	MAXARG_S = MAXARG_U >> 1
	MAXARG_A = 1<<SIZE_A - 1
	MAXARG_B = 1<<SIZE_B - 1
)

type Instruction uint32

func (i Instruction) Opcode() OpCode {
	return OpCode(i & (1<<SIZE_OP - 1))
}

func (i Instruction) OpName() string {
	return i.Opcode().String()
}

func (i Instruction) OpMode() OpMode {
	return i.Opcode().Mode()
}

func (i Instruction) U() int {
	return int(i >> POS_U)
}

func (i Instruction) S() int {
	return i.U() - MAXARG_S
}

func (i Instruction) A() int {
	return int(i >> POS_A)
}

func (i Instruction) B() int {
	return int(i>>POS_B) & MAXARG_B
}

func (i Instruction) AB() (a, b int) {
	return i.A(), i.B()
}

func Create0(op OpCode) Instruction {
	return Instruction(op)
}

func CreateU(op OpCode, u int) Instruction {
	return Instruction(op) | Instruction(u&MAXARG_U)<<POS_U
}

func CreateS(op OpCode, s int) Instruction {
	return CreateU(op, s+MAXARG_S)
}

func CreateAB(op OpCode, a, b int) Instruction {
	return Instruction(op) | Instruction(a&MAXARG_A)<<POS_A | Instruction(b&MAXARG_B)<<POS_B
}
