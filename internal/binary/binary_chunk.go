package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/pkg/lua"
)

const LUAC_VERSION = lua.VERSION

/* oldest version still readable by this loader */
const LUAC_VERSION0 = 0x40

/* sizes written by a native 32-bit luac; the loader accepts 4 or 8 */
const (
	INT_SIZE         = 4
	SIZE_T_SIZE      = 4
	INSTRUCTION_SIZE = 4
	LUA_NUMBER_SIZE  = 8
)

// ErrInvalidChunk is matched by every error returned from Undump.
var ErrInvalidChunk = errors.New("invalid precompiled chunk")

type Proto struct {
	Source       string
	LineDefined  int
	NumParams    int
	IsVararg     bool
	MaxStackSize int
	LocVars      []LocVar
	LineInfo     []int
	KStr         []string
	KNum         []lua.Number
	KProto       []*Proto
	Code         []bytecode.Instruction
}

type LocVar struct {
	VarName string
	StartPC int
	EndPC   int
}

type header struct {
	order      binary.ByteOrder
	intSize    int
	sizeTSize  int
	numberSize int
}

type bailout string

func bailoutF(format string, a ...any) bailout {
	return bailout(fmt.Sprintf(format, a...))
}

func (b bailout) Error() string {
	return string(b) + " precompiled chunk"
}

func (b bailout) Is(target error) bool {
	return target == ErrInvalidChunk
}

func Undump(r io.Reader) (proto *Proto, err error) {
	defer func() {
		switch x := recover().(type) {
		case nil:
			/* no panic */
		case bailout:
			proto, err = nil, x
		default:
			panic(x)
		}
	}()

	rd := &reader{r: r}
	rd.h = rd.checkHeader()
	proto = rd.readProto("=?")
	return
}
