package value

import "fmt"

/**
 * tags of simulated stack slots
 */
type Kind int

const (
	Int            Kind = iota /* numeric literal */
	String                     /* quoted string literal */
	StringGlobal               /* global name or computed expression */
	StringLocal                /* local variable name */
	StringPushSelf             /* ":method" waiting for its receiver */
	Nil
	ClosureText    /* decompiled function body */
	TableBraceOpen /* table literal still collecting elements */
)

var kindNames = [...]string{"int", "string", "global", "local", "pushself", "nil", "closure", "table"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is one simulated operand stack slot: the source text it stands for
// and a tag describing what produced it.
type Value struct {
	Text string
	Kind Kind
	// Count is the number of elements a TableBraceOpen still expects.
	Count int
}

func New(text string, kind Kind) Value {
	return Value{Text: text, Kind: kind}
}

func (v Value) String() string {
	if v.Kind == TableBraceOpen {
		return fmt.Sprintf("%s(%q, %d)", v.Kind, v.Text, v.Count)
	}
	return fmt.Sprintf("%s(%q)", v.Kind, v.Text)
}
