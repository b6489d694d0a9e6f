package decompiler

import (
	"fmt"
	"strings"

	"github.com/uganh16/luadec/internal/debug"
	"github.com/uganh16/luadec/internal/scope"
	"github.com/uganh16/luadec/internal/value"
)

// closure decompiles nested prototype idx. The b values on top of the stack
// become its upvalues, in order.
func (fs *funcState) closure(idx, b int) {
	if idx < 0 || idx >= len(fs.proto.KProto) {
		panic(debug.Unsupported("CLOSURE %d: function has %d prototypes", idx, len(fs.proto.KProto)))
	}
	p := fs.proto.KProto[idx]
	sc := scope.New(false, p.NumParams)
	for i, v := range fs.popN(b) {
		sc.SetUpvalue(i, v.Text)
	}
	text, err := fs.d.function(p, sc, fmt.Sprintf("%s/%d", fs.name, idx))
	if err != nil {
		panic(fatal{err})
	}
	fs.push(strings.TrimSuffix(text, "\n"), value.ClosureText)
}
