package decompiler

import (
	"strconv"

	"github.com/uganh16/luadec/internal/value"
)

func (fs *funcState) arith(op string, wrap bool) {
	y := fs.pop()
	x := fs.pop()
	text := x.Text + " " + op + " " + y.Text
	if wrap {
		text = "( " + text + " )"
	}
	fs.push(text, value.StringGlobal)
}

func (fs *funcState) addi(s int) {
	x := fs.pop()
	if s < 0 {
		fs.push(x.Text+" - "+strconv.Itoa(-s), value.StringGlobal)
		return
	}
	fs.push(x.Text+" + "+strconv.Itoa(s), value.StringGlobal)
}

func (fs *funcState) unary(op string) {
	x := fs.pop()
	fs.push(op+x.Text, value.StringGlobal)
}

func (fs *funcState) concat(n int) {
	fs.push(join(fs.popN(n), " .. "), value.StringGlobal)
}
