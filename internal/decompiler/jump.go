package decompiler

import (
	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/flow"
)

// condJump records a conditional jump. Its operands are consumed; the
// condition text itself is not rendered.
func (fs *funcState) condJump(op bytecode.OpCode, s int) {
	args := fs.popN(op.NumCondArgs())
	dest := s + fs.line + 1
	if dest <= fs.line {
		/* repeat-until */
		panic(debug.Unsupported("%s %+d: backward conditional jump", op, s))
	}
	c := flow.Cond{
		Args: make([]string, len(args)),
		Op:   op,
		Line: fs.line,
		Dest: dest,
		Next: flow.ChainNone,
	}
	for i, v := range args {
		c.Args[i] = v.Text
	}
	fs.flow.Jump(c, fs.buf.Len())
}

func (fs *funcState) jump(s int) {
	if s < 0 && fs.flow.Loop() {
		return
	}
	fs.warn(debug.Unsupported("JMP %+d", s))
}
