package binary

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/pkg/lua"
)

/* compared as (long) after conversion, the way lundump does */
var testNumber = lua.TEST_NUMBER

type reader struct {
	r io.Reader
	h header
}

func (r *reader) order() binary.ByteOrder {
	return r.h.order
}

func (r *reader) checkHeader() header {
	r.checkLiteral(lua.SIGNATURE, "not a")
	version := r.readByte()
	if version > LUAC_VERSION || version < LUAC_VERSION0 {
		panic(bailoutF("version mismatch (%d.%d) in", version>>4, version&0x0f))
	}
	h := header{order: binary.BigEndian, intSize: 4, sizeTSize: 4, numberSize: 8}
	if r.readByte() != 0 {
		h.order = binary.LittleEndian
	}
	h.intSize = r.checkSize("int", 4, 8)
	h.sizeTSize = r.checkSize("size_t", 4, 8)
	r.checkSize("Instruction", INSTRUCTION_SIZE)
	r.checkSize("SIZE_INSTRUCTION", bytecode.SIZE_INSTRUCTION)
	r.checkSize("SIZE_OP", bytecode.SIZE_OP)
	r.checkSize("SIZE_B", bytecode.SIZE_B)
	h.numberSize = r.checkSize("Number", 4, 8)
	r.h = h
	want := int64(testNumber)
	if h.numberSize == 4 {
		want = int64(float32(testNumber))
	}
	if int64(r.readNumber()) != want {
		panic(bailoutF("unknown number format in"))
	}
	return h
}

func (r *reader) checkLiteral(s string, msg string) {
	if string(r.readBytes(len(s))) != s {
		panic(bailoutF(msg))
	}
}

func (r *reader) checkSize(name string, sizes ...int) int {
	size := int(r.readByte())
	for _, s := range sizes {
		if size == s {
			return size
		}
	}
	panic(bailoutF("%s size mismatch (%d) in", name, size))
}

func (r *reader) readProto(parentSource string) *Proto {
	source := r.readString()
	if source == "" {
		source = parentSource
	}
	p := &Proto{
		Source:       source,
		LineDefined:  r.readInt(),
		NumParams:    r.readInt(),
		IsVararg:     r.readByte() != 0,
		MaxStackSize: r.readInt(),
	}
	p.LocVars = r.readLocVars()
	p.LineInfo = r.readLineInfo()
	p.KStr = r.readStrings()
	p.KNum = r.readNumbers()
	p.KProto = r.readProtos(source)
	p.Code = r.readCode()
	return p
}

/* slices grow with what the chunk delivers, never with the stored count */
func (r *reader) readLocVars() []LocVar {
	var locVars []LocVar
	for n := r.readCount(); n > 0; n-- {
		locVars = append(locVars, LocVar{
			VarName: r.readString(),
			StartPC: r.readInt(),
			EndPC:   r.readInt(),
		})
	}
	return nonNil(locVars)
}

func (r *reader) readLineInfo() []int {
	var lineInfo []int
	for n := r.readCount(); n > 0; n-- {
		lineInfo = append(lineInfo, r.readInt())
	}
	return nonNil(lineInfo)
}

func (r *reader) readStrings() []string {
	var strs []string
	for n := r.readCount(); n > 0; n-- {
		strs = append(strs, r.readString())
	}
	return nonNil(strs)
}

func (r *reader) readNumbers() []lua.Number {
	var nums []lua.Number
	for n := r.readCount(); n > 0; n-- {
		nums = append(nums, r.readNumber())
	}
	return nonNil(nums)
}

func (r *reader) readProtos(parentSource string) []*Proto {
	var protos []*Proto
	for n := r.readCount(); n > 0; n-- {
		protos = append(protos, r.readProto(parentSource))
	}
	return nonNil(protos)
}

func (r *reader) readCode() []bytecode.Instruction {
	var code []bytecode.Instruction
	for n := r.readCount(); n > 0; n-- {
		code = append(code, bytecode.Instruction(r.readUint32()))
	}
	if len(code) == 0 || code[len(code)-1].Opcode() != bytecode.OP_END {
		panic(bailoutF("bad code in"))
	}
	return code
}

func (r *reader) readCount() int {
	n := r.readInt()
	if n < 0 || n > math.MaxInt32 {
		panic(bailoutF("corrupted"))
	}
	return n
}

func (r *reader) readInt() int {
	if r.h.intSize == 8 {
		return int(int64(r.order().Uint64(r.readBytes(8))))
	}
	return int(int32(r.order().Uint32(r.readBytes(4))))
}

func (r *reader) readSize() uint64 {
	if r.h.sizeTSize == 8 {
		return r.order().Uint64(r.readBytes(8))
	}
	return uint64(r.order().Uint32(r.readBytes(4)))
}

func (r *reader) readNumber() lua.Number {
	if r.h.numberSize == 4 {
		return lua.Number(math.Float32frombits(r.order().Uint32(r.readBytes(4))))
	}
	return math.Float64frombits(r.order().Uint64(r.readBytes(8)))
}

func (r *reader) readUint32() uint32 {
	return r.order().Uint32(r.readBytes(4))
}

/* strings are stored with their terminating '\0'; size 0 means NULL */
func (r *reader) readString() string {
	n := r.readSize()
	if n == 0 {
		return ""
	}
	if n > math.MaxInt32 {
		panic(bailoutF("corrupted"))
	}
	var b bytes.Buffer
	if _, err := io.CopyN(&b, r.r, int64(n)); err != nil {
		panic(bailoutF("truncated"))
	}
	return string(b.Bytes()[:n-1])
}

func (r *reader) readByte() byte {
	return r.readBytes(1)[0]
}

func (r *reader) readBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		panic(bailoutF("truncated"))
	}
	return b
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
