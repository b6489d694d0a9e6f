package format

import (
	"strings"
	"text/scanner"
	"unicode"
)

type TokenKind int

const (
	EOF TokenKind = iota
	Other
	Newline
	Comment
	String
	BlockStart /* function, if, repeat */
	LoopStart  /* for, while */
	Do
	BlockEnd /* end, until */
	TableStart
	TableEnd /* "}" inside a table, with the ")" right after it */
	OpenParen
	CloseParen
)

var keywords = map[string]TokenKind{
	"function": BlockStart,
	"if":       BlockStart,
	"repeat":   BlockStart,
	"for":      LoopStart,
	"while":    LoopStart,
	"do":       Do,
	"end":      BlockEnd,
	"until":    BlockEnd,
}

type Token struct {
	Kind TokenKind
	Text string
}

// Scanner splits Lua source into the tokens the formatter cares about.
// Every byte of the input ends up in exactly one token.
type Scanner struct {
	sc     scanner.Scanner
	within func() bool
}

// NewScanner returns a scanner over src. within reports whether the
// formatter is inside a table constructor; only then is "}" a TableEnd.
func NewScanner(src string, within func() bool) *Scanner {
	s := &Scanner{within: within}
	s.sc.Init(strings.NewReader(src))
	s.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.sc.Whitespace = 0
	s.sc.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) && i > 0
	}
	s.sc.Error = func(*scanner.Scanner, string) {}
	return s
}

func (s *Scanner) Next() Token {
	tok := s.sc.Scan()
	switch tok {
	case scanner.EOF:
		return Token{Kind: EOF}
	case scanner.Ident:
		text := s.sc.TokenText()
		if kind, ok := keywords[text]; ok {
			return Token{Kind: kind, Text: text}
		}
		return Token{Kind: Other, Text: text}
	case scanner.String:
		return Token{Kind: String, Text: s.sc.TokenText()}
	case '\n':
		return Token{Kind: Newline, Text: "\n"}
	case '-':
		if s.sc.Peek() == '-' {
			return Token{Kind: Comment, Text: "-" + s.line()}
		}
	case '[':
		if s.sc.Peek() == '[' {
			return Token{Kind: String, Text: "[" + s.until("]]")}
		}
	case '\'':
		return Token{Kind: String, Text: "'" + s.quoted('\'')}
	case '{':
		return Token{Kind: TableStart, Text: "{"}
	case '}':
		if s.within() {
			text := "}"
			for s.sc.Peek() == ')' {
				s.sc.Next()
				text += ")"
			}
			return Token{Kind: TableEnd, Text: text}
		}
	case '(':
		return Token{Kind: OpenParen, Text: "("}
	case ')':
		return Token{Kind: CloseParen, Text: ")"}
	}
	return Token{Kind: Other, Text: s.sc.TokenText()}
}

/* line consumes the rest of the current line, excluding the newline */
func (s *Scanner) line() string {
	var sb strings.Builder
	for ch := s.sc.Peek(); ch != '\n' && ch != scanner.EOF; ch = s.sc.Peek() {
		sb.WriteRune(s.sc.Next())
	}
	return sb.String()
}

/* until consumes input up to and including delim */
func (s *Scanner) until(delim string) string {
	var sb strings.Builder
	for ch := s.sc.Next(); ch != scanner.EOF; ch = s.sc.Next() {
		sb.WriteRune(ch)
		if strings.HasSuffix(sb.String(), delim) {
			break
		}
	}
	return sb.String()
}

func (s *Scanner) quoted(quote rune) string {
	var sb strings.Builder
	for ch := s.sc.Next(); ch != scanner.EOF; ch = s.sc.Next() {
		sb.WriteRune(ch)
		if ch == '\\' {
			if esc := s.sc.Next(); esc != scanner.EOF {
				sb.WriteRune(esc)
			}
			continue
		}
		if ch == quote || ch == '\n' {
			break
		}
	}
	return sb.String()
}
