package decompiler

import (
	"strconv"
	"strings"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/number"
	"github.com/uganh16/luadec/internal/value"
)

func (fs *funcState) pushInt(s int) {
	fs.push(strconv.Itoa(s), value.Int)
}

func (fs *funcState) pushString(idx int) {
	fs.push(quote(fs.kstr(idx)), value.String)
}

func (fs *funcState) pushNum(idx int, neg bool) {
	text := number.Format(fs.knum(idx))
	if neg {
		text = "-" + text
	}
	fs.push(text, value.Int)
}

func (fs *funcState) pushUpvalue(idx int) {
	name, ok := fs.scope.Upvalue(idx)
	if !ok {
		panic(debug.Unbound("upvalue %d of %d", idx, fs.scope.NumUpvalues()))
	}
	fs.push("%"+name, value.StringGlobal)
}

// popLocals discards n values. Names bound to the released slots are
// dropped so that a reused slot is declared again.
func (fs *funcState) popLocals(n int) {
	fs.popN(n)
	base := fs.stack.Depth()
	for slot := base; slot < base+n; slot++ {
		fs.scope.Unbind(slot)
	}
}

/* strings spanning lines or holding tabs become long strings */
func quote(s string) string {
	if strings.ContainsAny(s, "\n\t") {
		return "[[" + s + "]]"
	}
	return `"` + s + `"`
}

// unquote returns the contents of a short string literal.
func unquote(text string) (string, bool) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", false
	}
	return text[1 : len(text)-1], true
}

var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "for": true, "function": true, "if": true, "in": true,
	"local": true, "nil": true, "not": true, "or": true, "repeat": true,
	"return": true, "then": true, "until": true, "while": true,
}

func isName(s string) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
