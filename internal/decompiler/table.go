package decompiler

import (
	"slices"
	"strings"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/value"
)

func (fs *funcState) createTable(n int) {
	if n == 0 {
		fs.push("{}", value.StringGlobal)
		return
	}
	fs.stack.Push(value.Value{Text: "{ ", Kind: value.TableBraceOpen, Count: n})
}

// setList stores n positional elements into the table literal below them.
func (fs *funcState) setList(block, n int) {
	if block != 0 {
		fs.warn(debug.Unsupported("SETLIST %d %d: flush block %d", block, n, block))
	}
	items := join(fs.popN(n), ", ")
	brace, err := fs.stack.Peek(0)
	if err != nil || brace.Kind != value.TableBraceOpen {
		fs.warn(debug.Unsupported("SETLIST %d %d without an open table", block, n))
		fs.push("{ "+items+" }", value.StringGlobal)
		return
	}
	fs.pop()
	fs.fill(brace, n, items)
}

// setMap stores n key/value pairs into the table literal below them.
// Positional values still pending above the marker come first.
func (fs *funcState) setMap(n int) {
	entries := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		v := fs.pop()
		k := fs.pop()
		entries[i] = key(k) + " = " + v.Text
	}
	var items []string
	for {
		v, err := fs.stack.Peek(0)
		if err != nil {
			panic(debug.Underflow("SETMAP %d without an open table", n))
		}
		if v.Kind == value.TableBraceOpen {
			break
		}
		items = append(items, fs.pop().Text)
	}
	slices.Reverse(items)
	fs.fill(fs.pop(), n, strings.Join(append(items, entries...), ", "))
}

/* fill adds text for n elements to brace and closes it when complete */
func (fs *funcState) fill(brace value.Value, n int, text string) {
	if brace.Count > n {
		brace.Text += text + "; "
		brace.Count -= n
		fs.stack.Push(brace)
		return
	}
	fs.push(brace.Text+text+" }", value.StringGlobal)
}

func key(k value.Value) string {
	if k.Kind == value.String {
		if s, ok := unquote(k.Text); ok && isName(s) {
			return s
		}
	}
	return "[" + k.Text + "]"
}
