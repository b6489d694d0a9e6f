// Package flow holds the pending conditional blocks of a function body.
//
// A conditional jump opens a context whose body is everything emitted
// between the jump and its target line. The prologue of the block is only
// known once the target is reached, so the context remembers the buffer
// offset at which the prologue has to be spliced in.
package flow

import "github.com/uganh16/luadec/internal/bytecode"

type Chain int

const (
	ChainNone Chain = iota
	ChainAnd
	ChainOr
)

// Cond is one test extracted from a conditional jump.
type Cond struct {
	Args []string
	Op   bytecode.OpCode
	Line int
	Dest int
	Next Chain
}

type Kind int

const (
	If Kind = iota
	While
)

func (k Kind) String() string {
	if k == While {
		return "while"
	}
	return "if"
}

type Context struct {
	Kind   Kind
	Dest   int
	Offset int
	Conds  []Cond
}

// Prologue is the block header spliced in when the context closes.
func (c *Context) Prologue(cond string) string {
	if c.Kind == While {
		return "while " + cond + " do\n"
	}
	return "if " + cond + " then\n"
}

type Stack struct {
	contexts []*Context
}

// Jump records a conditional jump. A jump targeting a nearer line than the
// innermost context opens a new context starting at offset; otherwise it
// joins the innermost context and widens it to its own target.
func (s *Stack) Jump(c Cond, offset int) *Context {
	if top := s.Top(); top != nil && top.Dest <= c.Dest {
		top.Conds = append(top.Conds, c)
		top.Dest = c.Dest
		return top
	}
	ctx := &Context{Kind: If, Dest: c.Dest, Offset: offset, Conds: []Cond{c}}
	s.contexts = append(s.contexts, ctx)
	return ctx
}

// Loop marks the innermost context as a loop body. It reports false when no
// context is open.
func (s *Stack) Loop() bool {
	top := s.Top()
	if top == nil {
		return false
	}
	top.Kind = While
	return true
}

func (s *Stack) Top() *Context {
	if len(s.contexts) == 0 {
		return nil
	}
	return s.contexts[len(s.contexts)-1]
}

// Close pops and returns the innermost context if it ends at line.
func (s *Stack) Close(line int) *Context {
	top := s.Top()
	if top == nil || top.Dest != line {
		return nil
	}
	s.contexts = s.contexts[:len(s.contexts)-1]
	return top
}

func (s *Stack) Len() int {
	return len(s.contexts)
}
