package decompiler

import (
	"errors"
	"testing"

	"github.com/uganh16/luadec/internal/binary"
	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/internal/debug"
)

var (
	end = bytecode.Create0(bytecode.OP_END)
	add = bytecode.Create0(bytecode.OP_ADD)
)

func u(op bytecode.OpCode, n int) bytecode.Instruction {
	return bytecode.CreateU(op, n)
}

func s(op bytecode.OpCode, n int) bytecode.Instruction {
	return bytecode.CreateS(op, n)
}

func ab(op bytecode.OpCode, a, b int) bytecode.Instruction {
	return bytecode.CreateAB(op, a, b)
}

func chunk(kstr []string, code ...bytecode.Instruction) *binary.Proto {
	return &binary.Proto{
		Source: "=test",
		KStr:   kstr,
		Code:   append(code, end),
	}
}

func decompile(t *testing.T, p *binary.Proto) *Result {
	t.Helper()
	res, err := New(Config{}).Decompile(p)
	if err != nil {
		t.Fatalf("Decompile: %v", err)
	}
	return res
}

func check(t *testing.T, p *binary.Proto, want string) *Result {
	t.Helper()
	res := decompile(t, p)
	if res.Text != want {
		t.Errorf("text:\n%q\nwant:\n%q", res.Text, want)
	}
	return res
}

func noWarnings(t *testing.T, res *Result) {
	t.Helper()
	for _, w := range res.Warnings {
		t.Errorf("unexpected warning: %v", w)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		p    *binary.Proto
		want string
	}{
		{"global", chunk([]string{"x"},
			s(bytecode.OP_PUSHINT, 5),
			u(bytecode.OP_SETGLOBAL, 0),
		), "x = 5\n"},
		{"literals", &binary.Proto{
			KStr: []string{"a", "b", "c", "d", "e", "hi", "a\nb"},
			KNum: []float64{3.5, 2},
			Code: []bytecode.Instruction{
				u(bytecode.OP_PUSHNUM, 0), u(bytecode.OP_SETGLOBAL, 0),
				u(bytecode.OP_PUSHNEGNUM, 1), u(bytecode.OP_SETGLOBAL, 1),
				u(bytecode.OP_PUSHSTRING, 5), u(bytecode.OP_SETGLOBAL, 2),
				u(bytecode.OP_PUSHSTRING, 6), u(bytecode.OP_SETGLOBAL, 3),
				u(bytecode.OP_PUSHNIL, 1), u(bytecode.OP_SETGLOBAL, 4),
				end,
			},
		}, "a = 3.5\nb = -2.\nc = \"hi\"\nd = [[a\nb]]\ne = nil\n"},
		{"arith", chunk([]string{"a", "b", "x", "y"},
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_GETGLOBAL, 1),
			bytecode.Create0(bytecode.OP_MULT),
			s(bytecode.OP_PUSHINT, 1),
			add,
			u(bytecode.OP_SETGLOBAL, 2),
			u(bytecode.OP_GETGLOBAL, 3),
			s(bytecode.OP_ADDI, -2),
			bytecode.Create0(bytecode.OP_MINUS),
			u(bytecode.OP_SETGLOBAL, 3),
		), "x = ( a * b ) + 1\ny = -y - 2\n"},
		{"concat", chunk([]string{"a", "b", "s"},
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_GETGLOBAL, 1),
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_CONCAT, 3),
			bytecode.Create0(bytecode.OP_NOT),
			u(bytecode.OP_SETGLOBAL, 2),
		), "s = not a .. b .. a\n"},
		{"index", chunk([]string{"t", "k", "x"},
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_GETDOTTED, 1),
			u(bytecode.OP_GETGLOBAL, 1),
			bytecode.Create0(bytecode.OP_GETTABLE),
			u(bytecode.OP_SETGLOBAL, 2),
		), "x = t.k[k]\n"},
		{"settable", chunk([]string{"t", "k"},
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_PUSHSTRING, 1),
			s(bytecode.OP_PUSHINT, 2),
			ab(bytecode.OP_SETTABLE, 3, 3),
		), "t[\"k\"] = 2\n"},
		{"call", chunk([]string{"f", "x"},
			u(bytecode.OP_GETGLOBAL, 0),
			ab(bytecode.OP_CALL, 0, 1),
			u(bytecode.OP_SETGLOBAL, 1),
			u(bytecode.OP_GETGLOBAL, 0),
			s(bytecode.OP_PUSHINT, 1),
			u(bytecode.OP_GETGLOBAL, 1),
			ab(bytecode.OP_CALL, 0, 0),
		), "x = f()\nf(1, x)\n"},
		{"method", chunk([]string{"obj", "m"},
			u(bytecode.OP_GETGLOBAL, 0),
			u(bytecode.OP_PUSHSELF, 1),
			s(bytecode.OP_PUSHINT, 1),
			ab(bytecode.OP_CALL, 0, 0),
		), "obj:m(1)\n"},
		{"tailcall", chunk([]string{"f"},
			u(bytecode.OP_GETGLOBAL, 0),
			s(bytecode.OP_PUSHINT, 1),
			ab(bytecode.OP_TAILCALL, 0, 1),
		), "return f(1)\n"},
		{"setlocal", chunk(nil,
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			u(bytecode.OP_SETLOCAL, 0),
		), "local loc1 = 1\nloc1 = 2\n"},
		{"slot reuse", chunk([]string{"x", "y"},
			s(bytecode.OP_PUSHINT, 1),
			u(bytecode.OP_GETLOCAL, 0),
			u(bytecode.OP_SETGLOBAL, 0),
			u(bytecode.OP_POP, 1),
			s(bytecode.OP_PUSHINT, 2),
			u(bytecode.OP_GETLOCAL, 0),
			u(bytecode.OP_SETGLOBAL, 1),
		), "local loc1 = 1\nx = loc1\nlocal loc1 = 2\ny = loc1\n"},
		{"main params", &binary.Proto{
			NumParams: 2,
			Code:      []bytecode.Instruction{u(bytecode.OP_RETURN, 0), end},
		}, "return arg1, arg2\n"},
		{"return", chunk([]string{"a"},
			u(bytecode.OP_GETGLOBAL, 0),
			s(bytecode.OP_PUSHINT, 1),
			u(bytecode.OP_RETURN, 0),
		), "return a, 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noWarnings(t, check(t, tt.p, tt.want))
		})
	}
}

func TestTables(t *testing.T) {
	tests := []struct {
		name string
		code []bytecode.Instruction
		want string
	}{
		{"empty", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 0),
		}, "t = {}\n"},
		{"list", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 2),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			ab(bytecode.OP_SETLIST, 0, 2),
		}, "t = { 1, 2 }\n"},
		{"chunked list", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 4),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			ab(bytecode.OP_SETLIST, 0, 2),
			s(bytecode.OP_PUSHINT, 3),
			s(bytecode.OP_PUSHINT, 4),
			ab(bytecode.OP_SETLIST, 0, 2),
		}, "t = { 1, 2; 3, 4 }\n"},
		{"map", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 2),
			u(bytecode.OP_PUSHSTRING, 1),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 3),
			u(bytecode.OP_PUSHSTRING, 2),
			u(bytecode.OP_SETMAP, 2),
		}, "t = { x = 1, [3] = \"y\" }\n"},
		{"bracketed string key", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 1),
			u(bytecode.OP_PUSHSTRING, 3),
			s(bytecode.OP_PUSHINT, 1),
			u(bytecode.OP_SETMAP, 1),
		}, "t = { [\"a b\"] = 1 }\n"},
		{"list then map", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 3),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			ab(bytecode.OP_SETLIST, 0, 2),
			u(bytecode.OP_PUSHSTRING, 1),
			s(bytecode.OP_PUSHINT, 3),
			u(bytecode.OP_SETMAP, 1),
		}, "t = { 1, 2; x = 3 }\n"},
		{"pending values before map", []bytecode.Instruction{
			u(bytecode.OP_CREATETABLE, 1),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			u(bytecode.OP_PUSHSTRING, 1),
			s(bytecode.OP_PUSHINT, 3),
			u(bytecode.OP_SETMAP, 1),
		}, "t = { 1, 2, x = 3 }\n"},
	}
	kstr := []string{"t", "x", "y", "a b"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := append(tt.code, u(bytecode.OP_SETGLOBAL, 0))
			noWarnings(t, check(t, chunk(kstr, code...), tt.want))
		})
	}
}

func TestSetListFlushBlock(t *testing.T) {
	res := check(t, chunk([]string{"t"},
		u(bytecode.OP_CREATETABLE, 4),
		s(bytecode.OP_PUSHINT, 1),
		s(bytecode.OP_PUSHINT, 2),
		ab(bytecode.OP_SETLIST, 0, 2),
		s(bytecode.OP_PUSHINT, 3),
		s(bytecode.OP_PUSHINT, 4),
		ab(bytecode.OP_SETLIST, 1, 2),
		u(bytecode.OP_SETGLOBAL, 0),
	), "t = { 1, 2; 3, 4 }\n")
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != debug.UnsupportedPattern {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if w := res.Warnings[0]; w.Line != 7 || w.Op != bytecode.OP_SETLIST {
		t.Errorf("warning at %d %s", w.Line, w.Op)
	}
}

func TestIf(t *testing.T) {
	p := chunk([]string{"x"},
		s(bytecode.OP_PUSHINT, 1),
		s(bytecode.OP_PUSHINT, 2),
		u(bytecode.OP_GETLOCAL, 0),
		u(bytecode.OP_GETLOCAL, 1),
		s(bytecode.OP_JMPEQ, 2),
		s(bytecode.OP_PUSHINT, 5),
		u(bytecode.OP_SETGLOBAL, 0),
	)
	noWarnings(t, check(t, p, "local loc1 = 1\nlocal loc2 = 2\nif testCOND then\nx = 5\nend\n"))

	res, err := New(Config{Condition: "loc1 == loc2"}).Decompile(p)
	if err != nil {
		t.Fatal(err)
	}
	if want := "local loc1 = 1\nlocal loc2 = 2\nif loc1 == loc2 then\nx = 5\nend\n"; res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
}

func TestNestedIf(t *testing.T) {
	p := chunk([]string{"a", "b", "x", "y"},
		u(bytecode.OP_GETGLOBAL, 0), /* 1 */
		s(bytecode.OP_JMPF, 6),      /* 2 -> 9 */
		u(bytecode.OP_GETGLOBAL, 1), /* 3 */
		s(bytecode.OP_JMPF, 2),      /* 4 -> 7 */
		s(bytecode.OP_PUSHINT, 1),   /* 5 */
		u(bytecode.OP_SETGLOBAL, 2), /* 6 */
		s(bytecode.OP_PUSHINT, 2),   /* 7 */
		u(bytecode.OP_SETGLOBAL, 3), /* 8 */
	)
	want := "if testCOND then\nif testCOND then\nx = 1\nend\ny = 2\nend\n"
	noWarnings(t, check(t, p, want))
}

func TestJoinedConditions(t *testing.T) {
	p := chunk([]string{"a", "b", "x"},
		u(bytecode.OP_GETGLOBAL, 0), /* 1 */
		s(bytecode.OP_JMPF, 4),      /* 2 -> 7 */
		u(bytecode.OP_GETGLOBAL, 1), /* 3 */
		s(bytecode.OP_JMPF, 2),      /* 4 -> 7 */
		s(bytecode.OP_PUSHINT, 1),   /* 5 */
		u(bytecode.OP_SETGLOBAL, 2), /* 6 */
	)
	noWarnings(t, check(t, p, "if testCOND then\nx = 1\nend\n"))
}

func TestWhile(t *testing.T) {
	p := chunk([]string{"x", "f"},
		u(bytecode.OP_GETGLOBAL, 0), /* 1 */
		s(bytecode.OP_JMPF, 3),      /* 2 -> 6 */
		u(bytecode.OP_GETGLOBAL, 1), /* 3 */
		ab(bytecode.OP_CALL, 0, 0),  /* 4 */
		s(bytecode.OP_JMP, -5),      /* 5 -> 1 */
	)
	noWarnings(t, check(t, p, "while testCOND do\nf()\nend\n"))
}

func TestFor(t *testing.T) {
	p := chunk([]string{"print"},
		s(bytecode.OP_PUSHINT, 1),
		s(bytecode.OP_PUSHINT, 10),
		s(bytecode.OP_PUSHINT, 2),
		s(bytecode.OP_FORPREP, 3),
		u(bytecode.OP_GETGLOBAL, 0),
		u(bytecode.OP_GETLOCAL, 0),
		ab(bytecode.OP_CALL, 3, 0),
		s(bytecode.OP_FORLOOP, -4),
		s(bytecode.OP_PUSHINT, 1),
		s(bytecode.OP_PUSHINT, 2),
		s(bytecode.OP_PUSHINT, 3),
		s(bytecode.OP_FORPREP, 0),
		s(bytecode.OP_FORLOOP, 0),
	)
	want := "for for0 = 1, 10, 2\ndo\nprint(for0)\nend\n" +
		"for for1 = 1, 2, 3\ndo\nend\n"
	noWarnings(t, check(t, p, want))
}

func TestGenericFor(t *testing.T) {
	p := chunk([]string{"t", "print"},
		u(bytecode.OP_GETGLOBAL, 0),
		s(bytecode.OP_LFORPREP, 4),
		u(bytecode.OP_GETGLOBAL, 1),
		u(bytecode.OP_GETLOCAL, 1),
		u(bytecode.OP_GETLOCAL, 2),
		ab(bytecode.OP_CALL, 3, 0),
		s(bytecode.OP_LFORLOOP, -5),
	)
	noWarnings(t, check(t, p, "for index, value in t\ndo\nprint(index, value)\nend\n"))
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		name string
		main []bytecode.Instruction
		kstr []string
		fn   *binary.Proto
		want string
	}{
		{
			name: "params",
			main: []bytecode.Instruction{
				ab(bytecode.OP_CLOSURE, 0, 0),
				u(bytecode.OP_SETGLOBAL, 0),
			},
			kstr: []string{"add"},
			fn: &binary.Proto{
				NumParams: 2,
				Code: []bytecode.Instruction{
					u(bytecode.OP_GETLOCAL, 0),
					u(bytecode.OP_GETLOCAL, 1),
					add,
					u(bytecode.OP_RETURN, 2),
					end,
				},
			},
			want: "function add(arg1, arg2)\nreturn arg1 + arg2\nend\n",
		},
		{
			name: "upvalue",
			main: []bytecode.Instruction{
				s(bytecode.OP_PUSHINT, 1),
				u(bytecode.OP_GETLOCAL, 0),
				ab(bytecode.OP_CLOSURE, 0, 1),
				u(bytecode.OP_SETGLOBAL, 0),
			},
			kstr: []string{"g"},
			fn: &binary.Proto{
				Code: []bytecode.Instruction{
					u(bytecode.OP_PUSHUPVALUE, 0),
					u(bytecode.OP_RETURN, 0),
					end,
				},
			},
			want: "local loc1 = 1\nfunction g()\nreturn %loc1\nend\n",
		},
		{
			name: "vararg",
			main: []bytecode.Instruction{
				ab(bytecode.OP_CLOSURE, 0, 0),
				u(bytecode.OP_SETGLOBAL, 0),
			},
			kstr: []string{"f"},
			fn: &binary.Proto{
				NumParams: 1,
				IsVararg:  true,
				Code: []bytecode.Instruction{
					u(bytecode.OP_GETLOCAL, 1),
					u(bytecode.OP_RETURN, 2),
					end,
				},
			},
			want: "function f(arg1, ...)\nreturn arg\nend\n",
		},
		{
			name: "anonymous",
			main: []bytecode.Instruction{
				ab(bytecode.OP_CLOSURE, 0, 0),
				u(bytecode.OP_GETLOCAL, 0),
				u(bytecode.OP_SETGLOBAL, 0),
			},
			kstr: []string{"g"},
			fn: &binary.Proto{
				Code: []bytecode.Instruction{end},
			},
			want: "local loc1 = function ()\nend\ng = loc1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := chunk(tt.kstr, tt.main...)
			p.KProto = []*binary.Proto{tt.fn}
			noWarnings(t, check(t, p, tt.want))
		})
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		code []bytecode.Instruction
		kind debug.Kind
		line int
		op   bytecode.OpCode
		want string
	}{
		{"underflow", []bytecode.Instruction{
			add,
			s(bytecode.OP_PUSHINT, 2),
			u(bytecode.OP_SETGLOBAL, 0),
		}, debug.StackUnderflow, 1, bytecode.OP_ADD, "x = 2\n"},
		{"settable shape", []bytecode.Instruction{
			u(bytecode.OP_GETGLOBAL, 0),
			s(bytecode.OP_PUSHINT, 1),
			s(bytecode.OP_PUSHINT, 2),
			ab(bytecode.OP_SETTABLE, 2, 2),
			u(bytecode.OP_SETGLOBAL, 0),
		}, debug.UnsupportedPattern, 4, bytecode.OP_SETTABLE, "x = x\n"},
		{"unbound local", []bytecode.Instruction{
			u(bytecode.OP_GETLOCAL, 5),
		}, debug.UnboundLocal, 1, bytecode.OP_GETLOCAL, ""},
		{"unbound upvalue", []bytecode.Instruction{
			u(bytecode.OP_PUSHUPVALUE, 0),
		}, debug.UnboundLocal, 1, bytecode.OP_PUSHUPVALUE, ""},
		{"forward jump", []bytecode.Instruction{
			s(bytecode.OP_JMP, 1),
			s(bytecode.OP_PUSHINT, 1),
			u(bytecode.OP_SETGLOBAL, 0),
		}, debug.UnsupportedPattern, 1, bytecode.OP_JMP, "x = 1\n"},
		{"unknown opcode", []bytecode.Instruction{
			bytecode.Instruction(60),
		}, debug.UnknownOpcode, 1, bytecode.OpCode(60), ""},
		{"missing constant", []bytecode.Instruction{
			u(bytecode.OP_GETGLOBAL, 9),
		}, debug.UnsupportedPattern, 1, bytecode.OP_GETGLOBAL, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := check(t, chunk([]string{"x"}, tt.code...), tt.want)
			if len(res.Warnings) != 1 {
				t.Fatalf("warnings = %v", res.Warnings)
			}
			w := res.Warnings[0]
			if w.Kind != tt.kind || w.Line != tt.line || w.Op != tt.op || w.Func != "main" {
				t.Errorf("warning = %+v", w)
			}
		})
	}
}

func TestUnterminated(t *testing.T) {
	p := chunk([]string{"x"},
		u(bytecode.OP_GETGLOBAL, 0),
		s(bytecode.OP_JMPT, 10),
	)
	_, err := New(Config{}).Decompile(p)
	var w *debug.Warning
	if !errors.As(err, &w) || w.Kind != debug.UnterminatedContext {
		t.Fatalf("err = %v", err)
	}

	outer := chunk(nil, ab(bytecode.OP_CLOSURE, 0, 0))
	outer.KProto = []*binary.Proto{p}
	_, err = New(Config{}).Decompile(outer)
	if !errors.As(err, &w) || w.Func != "main/0" {
		t.Fatalf("nested err = %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	p := chunk([]string{"t", "x"},
		u(bytecode.OP_CREATETABLE, 1),
		u(bytecode.OP_PUSHSTRING, 1),
		s(bytecode.OP_PUSHINT, 1),
		u(bytecode.OP_SETMAP, 1),
		u(bytecode.OP_GETLOCAL, 0),
		s(bytecode.OP_JMPT, 2),
		s(bytecode.OP_PUSHINT, 1),
		u(bytecode.OP_SETGLOBAL, 0),
	)
	d := New(Config{})
	first, err := d.Decompile(p)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Decompile(p)
	if err != nil {
		t.Fatal(err)
	}
	if first.Text != second.Text || len(second.Warnings) != 0 {
		t.Errorf("second run differs: %q vs %q", first.Text, second.Text)
	}
}
