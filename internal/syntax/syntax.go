// Package syntax re-parses decompiled source to catch output that is not
// valid Lua.
package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

var ErrSyntax = errors.New("syntax error")

/* %name upvalue references; Lua 4.0 has no modulo operator */
var upvalueMark = regexp.MustCompile(`%([A-Za-z_])`)

// Check parses src and returns the first syntax error found. Upvalue
// references are accepted as plain names.
func Check(src, name string) error {
	src = upvalueMark.ReplaceAllString(src, "$1")
	if _, err := parse.Parse(strings.NewReader(src), name); err != nil {
		var perr *parse.Error
		if errors.As(err, &perr) {
			if perr.Pos.Line == parse.EOF {
				return fmt.Errorf("%w: at end of input: %s", ErrSyntax, strings.TrimSpace(perr.Message))
			}
			return fmt.Errorf("%w: line %d: %s", ErrSyntax, perr.Pos.Line, strings.TrimSpace(perr.Message))
		}
		return fmt.Errorf("%w: %s", ErrSyntax, strings.TrimSpace(err.Error()))
	}
	return nil
}
