package decompiler

import (
	"fmt"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/value"
)

/* names of the hidden locals of a generic for-loop */
var lforNames = [...]string{"_t", "index", "value"}

// forPrep opens a numeric for-loop over the start, limit and step values on
// top of the stack. The loop variable lives in the start slot.
func (fs *funcState) forPrep() {
	step := fs.peek(0)
	limit := fs.peek(1)
	start := fs.peek(2)
	name := fs.scope.OpenForLoop(fs.stack.Depth() - 3)
	fs.emit(fmt.Sprintf("for %s = %s, %s, %s\ndo\n", name, start.Text, limit.Text, step.Text))
}

func (fs *funcState) forLoop() {
	if !fs.scope.CloseForLoop() {
		panic(debug.Unsupported("FORLOOP without FORPREP"))
	}
	fs.popN(3)
	fs.emit("end\n")
}

func (fs *funcState) lforPrep() {
	t := fs.pop()
	base := fs.stack.Depth()
	for i, name := range lforNames {
		fs.scope.Bind(base+i, name)
		fs.push(name, value.StringLocal)
	}
	fs.emit("for index, value in " + t.Text + "\ndo\n")
}

func (fs *funcState) lforLoop() {
	base := fs.stack.Depth() - len(lforNames)
	if base < 0 {
		panic(debug.Underflow("LFORLOOP with stack depth %d", fs.stack.Depth()))
	}
	for i := range lforNames {
		fs.scope.Unbind(base + i)
	}
	fs.popN(len(lforNames))
	fs.emit("end\n")
}
