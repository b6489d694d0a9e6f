// Package decompiler turns Lua 4.0 function prototypes back into source text.
//
// The instruction stream of a prototype is replayed once. Instead of values,
// the simulated operand stack holds the source text of the expressions that
// produced them; statements are emitted into a per-function buffer whenever
// an instruction consumes stack values for a side effect.
package decompiler

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/uganh16/luadec/internal/binary"
	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/flow"
	"github.com/uganh16/luadec/internal/scope"
	"github.com/uganh16/luadec/internal/value"
)

const DefaultCondition = "testCOND"

/* the keyword a decompiled function starts with */
const funcKeyword = "function "

type Config struct {
	// Condition is the text used for the condition of every
	// reconstructed if/while block.
	Condition string
}

type Decompiler struct {
	cfg      Config
	log      commonlog.Logger
	warnings []*debug.Warning
}

type Result struct {
	Text     string
	Warnings []*debug.Warning
}

func New(cfg Config) *Decompiler {
	if cfg.Condition == "" {
		cfg.Condition = DefaultCondition
	}
	return &Decompiler{
		cfg: cfg,
		log: commonlog.GetLogger("luadec.decompiler"),
	}
}

// Decompile returns the raw (unformatted) source of the main prototype p.
// Problems local to one instruction are returned as warnings on the result;
// a function whose blocks cannot be closed fails the whole chunk.
func (d *Decompiler) Decompile(p *binary.Proto) (*Result, error) {
	d.warnings = nil
	text, err := d.function(p, scope.New(true, p.NumParams), "main")
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Warnings: d.warnings}, nil
}

/* state of the function body being decompiled */
type funcState struct {
	d     *Decompiler
	proto *binary.Proto
	name  string
	scope *scope.Func
	stack value.Stack
	flow  flow.Stack
	buf   flow.Buffer

	line int /* 1-based position of the current instruction */
	op   bytecode.OpCode
}

/* fatal aborts the enclosing function: a nested function failed */
type fatal struct {
	err error
}

func (d *Decompiler) function(p *binary.Proto, sc *scope.Func, name string) (string, error) {
	d.log.Debugf("decompiling %s: %d instructions, %d params", name, len(p.Code), p.NumParams)
	fs := &funcState{
		d:     d,
		proto: p,
		name:  name,
		scope: sc,
	}
	fs.header()
	for pc, i := range p.Code {
		fs.line = pc + 1
		fs.closeBlocks()
		if i.Opcode() == bytecode.OP_END {
			break
		}
		if err := fs.step(i); err != nil {
			return "", err
		}
	}
	if top := fs.flow.Top(); top != nil {
		w := debug.Unterminated(fs.flow.Len(), top.Dest)
		w.Func, w.Line, w.Op = name, fs.line, bytecode.OP_END
		return "", w
	}
	if !sc.IsMain {
		fs.emit("end\n")
	}
	return fs.buf.String(), nil
}

/* parameters are already on the stack when the body starts */
func (fs *funcState) header() {
	params := make([]string, 0, fs.proto.NumParams+1)
	for i := 0; i < fs.proto.NumParams; i++ {
		params = append(params, scope.ParamName(i))
		fs.push(scope.ParamName(i), value.StringLocal)
	}
	if fs.proto.IsVararg && !fs.scope.IsMain {
		params = append(params, "...")
		fs.scope.Bind(fs.proto.NumParams, "arg")
		fs.push("arg", value.StringLocal)
	}
	if !fs.scope.IsMain {
		fs.emit(funcKeyword + "(" + strings.Join(params, ", ") + ")\n")
	}
}

func (fs *funcState) closeBlocks() {
	for ctx := fs.flow.Close(fs.line); ctx != nil; ctx = fs.flow.Close(fs.line) {
		fs.buf.Insert(ctx.Offset, ctx.Prologue(fs.d.cfg.Condition))
		fs.emit("end\n")
	}
}

func (fs *funcState) step(i bytecode.Instruction) (err error) {
	fs.op = i.Opcode()
	defer func() {
		switch x := recover().(type) {
		case nil:
			/* no panic */
		case *debug.Warning:
			fs.warn(x)
		case fatal:
			err = x.err
		default:
			panic(x)
		}
	}()
	fs.dispatch(i)
	return nil
}

func (fs *funcState) warn(w *debug.Warning) {
	w.Func, w.Line = fs.name, fs.line
	if w.Kind != debug.UnknownOpcode {
		w.Op = fs.op
	}
	fs.d.warnings = append(fs.d.warnings, w)
	fs.d.log.Warning(w.Error())
}

func (fs *funcState) emit(s string) {
	fs.buf.WriteString(s)
}

func (fs *funcState) push(text string, kind value.Kind) {
	fs.stack.Push(value.New(text, kind))
}

func (fs *funcState) pop() value.Value {
	v, err := fs.stack.Pop()
	if err != nil {
		panic(debug.Underflow("%s has no operand left", fs.op))
	}
	return v
}

/* popN pops n values and returns them bottom first */
func (fs *funcState) popN(n int) []value.Value {
	if n > fs.stack.Depth() {
		panic(debug.Underflow("%s needs %d operands, stack has %d", fs.op, n, fs.stack.Depth()))
	}
	vals := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = fs.pop()
	}
	return vals
}

func (fs *funcState) peek(n int) value.Value {
	v, err := fs.stack.Peek(n)
	if err != nil {
		panic(debug.Underflow("%s: %v", fs.op, err))
	}
	return v
}

func (fs *funcState) kstr(idx int) string {
	if idx < 0 || idx >= len(fs.proto.KStr) {
		panic(debug.Unsupported("string constant %d out of range", idx))
	}
	return fs.proto.KStr[idx]
}

func (fs *funcState) knum(idx int) float64 {
	if idx < 0 || idx >= len(fs.proto.KNum) {
		panic(debug.Unsupported("number constant %d out of range", idx))
	}
	return fs.proto.KNum[idx]
}

// local returns the name bound to slot. A slot seen for the first time is
// named and declared with the text it currently holds.
func (fs *funcState) local(slot int) string {
	if name, ok := fs.scope.Local(slot); ok {
		return name
	}
	v, err := fs.stack.At(slot)
	if err != nil {
		panic(debug.Unbound("local slot %d, stack depth %d", slot, fs.stack.Depth()))
	}
	name, _ := fs.scope.Name(slot)
	fs.emit(fmt.Sprintf("local %s = %s\n", name, v.Text))
	return name
}

func join(vals []value.Value, sep string) string {
	texts := make([]string, len(vals))
	for i, v := range vals {
		texts[i] = v.Text
	}
	return strings.Join(texts, sep)
}
