package debug

import (
	"fmt"
	"strings"

	"github.com/uganh16/luadec/internal/bytecode"
)

type Kind int

const (
	InvalidInput Kind = iota
	UnsupportedPattern
	StackUnderflow
	UnboundLocal
	UnterminatedContext
	UnknownOpcode
)

var kindNames = [...]string{
	"invalid input",
	"unsupported bytecode pattern",
	"stack underflow",
	"unbound local reference",
	"unterminated context",
	"unknown opcode",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Warning is a problem found while decompiling one instruction. Func and
// Line are filled in by the dispatcher when the warning is recorded.
type Warning struct {
	Kind Kind
	Func string
	Line int
	Op   bytecode.OpCode
	Msg  string
}

func (w *Warning) Error() string {
	var sb strings.Builder
	if w.Func != "" {
		fmt.Fprintf(&sb, "%s:%d: ", w.Func, w.Line)
	}
	if w.Line > 0 {
		fmt.Fprintf(&sb, "%s: ", w.Op)
	}
	sb.WriteString(w.Kind.String())
	if w.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(w.Msg)
	}
	return sb.String()
}

func Unsupported(format string, a ...any) *Warning {
	return &Warning{Kind: UnsupportedPattern, Msg: fmt.Sprintf(format, a...)}
}

func Underflow(format string, a ...any) *Warning {
	return &Warning{Kind: StackUnderflow, Msg: fmt.Sprintf(format, a...)}
}

func Unbound(format string, a ...any) *Warning {
	return &Warning{Kind: UnboundLocal, Msg: fmt.Sprintf(format, a...)}
}

func Unterminated(open, dest int) *Warning {
	return &Warning{Kind: UnterminatedContext, Msg: fmt.Sprintf("%d open block(s), innermost targets line %d", open, dest)}
}

func Unknown(op bytecode.OpCode) *Warning {
	return &Warning{Kind: UnknownOpcode, Op: op, Msg: op.String()}
}
