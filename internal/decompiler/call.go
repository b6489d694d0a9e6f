package decompiler

import (
	"slices"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/value"
	"github.com/uganh16/luadec/pkg/lua"
)

// call handles CALL and TAILCALL. The callee sits in slot base and its
// arguments above it.
func (fs *funcState) call(base, nResults int, tail bool) {
	n := fs.stack.Depth() - base - 1
	if n < 0 {
		panic(debug.Underflow("call base %d, stack depth %d", base, fs.stack.Depth()))
	}
	args := make([]value.Value, 0, n)
	for ; n > 0; n-- {
		v := fs.pop()
		if v.Kind == value.StringPushSelf {
			/* receiver and method name make up one target */
			recv := fs.pop()
			fs.push(recv.Text+v.Text, value.StringGlobal)
			continue
		}
		args = append(args, v)
	}
	slices.Reverse(args)
	callee := fs.pop()
	text := callee.Text + "(" + join(args, ", ") + ")"

	if tail {
		fs.emit("return " + text + "\n")
		if nResults == 0 {
			return
		}
	} else if nResults == 0 {
		fs.emit(text + "\n")
		return
	}

	count := nResults
	if nResults == lua.MULT_RET {
		count = 1
	}
	for ; count > 0; count-- {
		fs.push(text, value.StringGlobal)
	}
	if tail {
		fs.pop()
	}
}

func (fs *funcState) ret(base int) {
	n := fs.stack.Depth() - base
	if n < 0 {
		panic(debug.Underflow("return base %d, stack depth %d", base, fs.stack.Depth()))
	}
	if n == 0 {
		fs.emit("return\n")
		return
	}
	fs.emit("return " + join(fs.popN(n), ", ") + "\n")
}
