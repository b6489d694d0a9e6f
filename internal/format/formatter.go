// Package format re-indents decompiled Lua source.
package format

import "strings"

const DefaultIndent = "\t"

// Formatter lays out the raw decompiler output: blocks and table
// constructors are indented, everything else is copied through. A Formatter
// is not safe for concurrent use; Format resets it before each run.
type Formatter struct {
	unit string

	indent     int
	tableDepth int
	parens     int
	pendingDo  int /* for/while headers still waiting for their do */
	out        []byte
}

func New(unit string) *Formatter {
	if unit == "" {
		unit = DefaultIndent
	}
	return &Formatter{unit: unit}
}

func (f *Formatter) Reset() {
	f.indent = 0
	f.tableDepth = 0
	f.parens = 0
	f.pendingDo = 0
	f.out = f.out[:0]
}

func (f *Formatter) IsWithinTable() bool {
	return f.tableDepth > 0
}

func (f *Formatter) Format(src string) string {
	f.Reset()
	sc := NewScanner(src, f.IsWithinTable)
	for tok := sc.Next(); tok.Kind != EOF; tok = sc.Next() {
		f.token(tok)
	}
	return string(f.out)
}

func (f *Formatter) token(tok Token) {
	switch tok.Kind {
	case BlockStart:
		f.write(tok.Text)
		f.indent++
	case LoopStart:
		f.write(tok.Text)
		f.indent++
		f.pendingDo++
	case Do:
		if f.pendingDo > 0 {
			/* a do on its own line lines up with its header */
			f.pendingDo--
			f.trimUnit()
		} else {
			f.indent++
		}
		f.write(tok.Text)
	case BlockEnd:
		f.trimUnit()
		f.write(tok.Text)
		if f.indent > 0 {
			f.indent--
		}
	case TableStart:
		f.write(tok.Text)
		f.indent++
		f.tableDepth++
	case TableEnd:
		f.closeTable(tok.Text)
	case OpenParen:
		f.parens++
		f.write(tok.Text)
	case CloseParen:
		if f.parens > 0 {
			f.parens--
		}
		f.write(tok.Text)
	case Newline:
		f.newline()
	default:
		f.write(tok.Text)
	}
}

func (f *Formatter) closeTable(text string) {
	stripped := f.stripSpace()
	if f.indent > 0 {
		f.indent--
	}
	f.tableDepth--
	switch {
	case strings.Contains(stripped, "\n"):
		f.newline()
	case len(f.out) > 0 && f.out[len(f.out)-1] == '{':
	default:
		f.write(" ")
	}

	n := strings.Count(text, ")")
	if n > 1 && n > f.parens {
		text = text[:len(text)-1]
		n--
	}
	f.parens = max(f.parens-n, 0)
	f.write(text)
}

func (f *Formatter) write(s string) {
	f.out = append(f.out, s...)
}

func (f *Formatter) newline() {
	f.out = append(f.out, '\n')
	for i := 0; i < f.indent; i++ {
		f.out = append(f.out, f.unit...)
	}
}

/* trimUnit drops one indent unit, only at the start of a line */
func (f *Formatter) trimUnit() {
	nl := strings.LastIndexByte(string(f.out), '\n')
	lead := string(f.out[nl+1:])
	if nl < 0 || lead == "" || strings.Trim(lead, f.unit) != "" || len(lead)%len(f.unit) != 0 {
		return
	}
	f.out = f.out[:len(f.out)-len(f.unit)]
}

func (f *Formatter) stripSpace() string {
	end := len(f.out)
	for end > 0 && strings.IndexByte(" \t\r\n", f.out[end-1]) >= 0 {
		end--
	}
	stripped := string(f.out[end:])
	f.out = f.out[:end]
	return stripped
}
