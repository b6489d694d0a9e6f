package decompiler

import (
	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/value"
)

func (fs *funcState) dispatch(i bytecode.Instruction) {
	switch op := i.Opcode(); op {
	case bytecode.OP_RETURN: /* U - (return) */
		fs.ret(i.U())
	case bytecode.OP_CALL: /* A B v_n-v_x(at a) r_b-r_1 f(v1,...,v_x) */
		fs.call(i.A(), i.B(), false)
	case bytecode.OP_TAILCALL: /* A B v_n-v_x(at a) (return) f(v1,...,v_x) */
		fs.call(i.A(), i.B(), true)
	case bytecode.OP_PUSHNIL: /* U - nil_1-nil_u */
		for n := i.U(); n > 0; n-- {
			fs.push("nil", value.Nil)
		}
	case bytecode.OP_POP: /* U a_u-a_1 - */
		fs.popLocals(i.U())
	case bytecode.OP_PUSHINT: /* S - (Number)s */
		fs.pushInt(i.S())
	case bytecode.OP_PUSHSTRING: /* K - KSTR[k] */
		fs.pushString(i.U())
	case bytecode.OP_PUSHNUM: /* N - KNUM[n] */
		fs.pushNum(i.U(), false)
	case bytecode.OP_PUSHNEGNUM: /* N - -KNUM[n] */
		fs.pushNum(i.U(), true)
	case bytecode.OP_PUSHUPVALUE: /* U - Closure[u] */
		fs.pushUpvalue(i.U())
	case bytecode.OP_GETLOCAL: /* L - LOC[l] */
		fs.push(fs.local(i.U()), value.StringLocal)
	case bytecode.OP_GETGLOBAL: /* K - VAR[KSTR[k]] */
		fs.push(fs.kstr(i.U()), value.StringGlobal)
	case bytecode.OP_GETTABLE: /* - i t t[i] */
		fs.getTable()
	case bytecode.OP_GETDOTTED: /* K t t[KSTR[k]] */
		fs.getDotted(i.U())
	case bytecode.OP_GETINDEXED: /* L t t[LOC[l]] */
		fs.getIndexed(i.U())
	case bytecode.OP_PUSHSELF: /* K t t t[KSTR[k]] */
		fs.push(":"+fs.kstr(i.U()), value.StringPushSelf)
	case bytecode.OP_CREATETABLE: /* U - newarray(size = u) */
		fs.createTable(i.U())
	case bytecode.OP_SETLOCAL: /* L x - LOC[l]=x */
		fs.setLocal(i.U())
	case bytecode.OP_SETGLOBAL: /* K x - VAR[KSTR[k]]=x */
		fs.setGlobal(i.U())
	case bytecode.OP_SETTABLE: /* A B v a_a-a_1 i t (pops b values) t[i]=v */
		fs.setTable(i.AB())
	case bytecode.OP_SETLIST: /* A B v_b-v_1 t t t[i+a*FPF]=v_i */
		fs.setList(i.AB())
	case bytecode.OP_SETMAP: /* U v_u k_u - v_1 k_1 t t t[k_i]=v_i */
		fs.setMap(i.U())
	case bytecode.OP_ADD: /* - y x x+y */
		fs.arith("+", false)
	case bytecode.OP_ADDI: /* S x x+s */
		fs.addi(i.S())
	case bytecode.OP_SUB: /* - y x x-y */
		fs.arith("-", false)
	case bytecode.OP_MULT: /* - y x x*y */
		fs.arith("*", true)
	case bytecode.OP_DIV: /* - y x x/y */
		fs.arith("/", true)
	case bytecode.OP_POW: /* - y x x^y */
		fs.arith("^", true)
	case bytecode.OP_CONCAT: /* U v_u-v_1 v1..-..v_u */
		fs.concat(i.U())
	case bytecode.OP_MINUS: /* - x -x */
		fs.unary("-")
	case bytecode.OP_NOT: /* - x (x==nil)? 1 : nil */
		fs.unary("not ")
	case bytecode.OP_JMPNE, bytecode.OP_JMPEQ, bytecode.OP_JMPLT, bytecode.OP_JMPLE,
		bytecode.OP_JMPGT, bytecode.OP_JMPGE, bytecode.OP_JMPT, bytecode.OP_JMPF,
		bytecode.OP_JMPONT, bytecode.OP_JMPONF:
		fs.condJump(op, i.S())
	case bytecode.OP_JMP: /* S - - pc+=s */
		fs.jump(i.S())
	case bytecode.OP_PUSHNILJMP: /* - - nil pc++ */
		fs.push("nil", value.Nil)
	case bytecode.OP_FORPREP: /* J */
		fs.forPrep()
	case bytecode.OP_FORLOOP: /* J */
		fs.forLoop()
	case bytecode.OP_LFORPREP: /* J */
		fs.lforPrep()
	case bytecode.OP_LFORLOOP: /* J */
		fs.lforLoop()
	case bytecode.OP_CLOSURE: /* A B v_b-v_1 closure(KPROTO[a], v_1-v_b) */
		fs.closure(i.AB())
	default:
		panic(debug.Unknown(op))
	}
}
