package decompiler

import (
	"strings"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/value"
)

func (fs *funcState) getTable() {
	key := fs.pop()
	t := fs.pop()
	fs.push(t.Text+"["+key.Text+"]", value.StringGlobal)
}

func (fs *funcState) getDotted(idx int) {
	t := fs.pop()
	fs.push(t.Text+"."+fs.kstr(idx), value.StringGlobal)
}

func (fs *funcState) getIndexed(slot int) {
	t := fs.pop()
	fs.push(t.Text+"["+fs.local(slot)+"]", t.Kind)
}

func (fs *funcState) setLocal(slot int) {
	v := fs.pop()
	fs.emit(fs.local(slot) + " = " + v.Text + "\n")
}

func (fs *funcState) setGlobal(idx int) {
	v := fs.pop()
	name := fs.kstr(idx)
	if v.Kind == value.ClosureText && strings.HasPrefix(v.Text, funcKeyword) {
		fs.emit(funcKeyword + name + v.Text[len(funcKeyword):] + "\n")
		return
	}
	fs.emit(name + " = " + v.Text + "\n")
}

func (fs *funcState) setTable(a, b int) {
	if a != 3 || b != 3 {
		/* drop what the instruction would have consumed */
		fs.popN(min(b, fs.stack.Depth()))
		panic(debug.Unsupported("SETTABLE %d %d", a, b))
	}
	vals := fs.popN(3)
	fs.emit(vals[0].Text + "[" + vals[1].Text + "] = " + vals[2].Text + "\n")
}
