package binary

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/uganh16/luadec/internal/bytecode"
	"github.com/uganh16/luadec/pkg/lua"
)

// Dump writes p as a little-endian chunk with 32-bit ints and size_t and
// 64-bit numbers, the layout a 32-bit luac 4.0 produces.
func Dump(w io.Writer, p *Proto) error {
	d := &dumper{w: w}
	d.writeHeader()
	d.writeProto(p)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) writeHeader() {
	d.writeBytes([]byte(lua.SIGNATURE))
	d.writeByte(LUAC_VERSION)
	d.writeByte(1) /* little endian */
	d.writeByte(INT_SIZE)
	d.writeByte(SIZE_T_SIZE)
	d.writeByte(INSTRUCTION_SIZE)
	d.writeByte(bytecode.SIZE_INSTRUCTION)
	d.writeByte(bytecode.SIZE_OP)
	d.writeByte(bytecode.SIZE_B)
	d.writeByte(LUA_NUMBER_SIZE)
	d.writeNumber(lua.TEST_NUMBER)
}

func (d *dumper) writeProto(p *Proto) {
	d.writeString(p.Source)
	d.writeInt(p.LineDefined)
	d.writeInt(p.NumParams)
	if p.IsVararg {
		d.writeByte(1)
	} else {
		d.writeByte(0)
	}
	d.writeInt(p.MaxStackSize)
	d.writeInt(len(p.LocVars))
	for _, v := range p.LocVars {
		d.writeString(v.VarName)
		d.writeInt(v.StartPC)
		d.writeInt(v.EndPC)
	}
	d.writeInt(len(p.LineInfo))
	for _, l := range p.LineInfo {
		d.writeInt(l)
	}
	d.writeInt(len(p.KStr))
	for _, s := range p.KStr {
		d.writeString(s)
	}
	d.writeInt(len(p.KNum))
	for _, n := range p.KNum {
		d.writeNumber(n)
	}
	d.writeInt(len(p.KProto))
	for _, kp := range p.KProto {
		d.writeProto(kp)
	}
	d.writeInt(len(p.Code))
	for _, i := range p.Code {
		d.writeUint32(uint32(i))
	}
}

func (d *dumper) writeString(s string) {
	if s == "" {
		d.writeUint32(0)
		return
	}
	d.writeUint32(uint32(len(s) + 1))
	d.writeBytes(append([]byte(s), 0))
}

func (d *dumper) writeInt(n int) {
	d.writeUint32(uint32(int32(n)))
}

func (d *dumper) writeNumber(n lua.Number) {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(n))
	d.writeBytes(b)
}

func (d *dumper) writeUint32(n uint32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	d.writeBytes(b)
}

func (d *dumper) writeByte(b byte) {
	d.writeBytes([]byte{b})
}

func (d *dumper) writeBytes(b []byte) {
	if d.err != nil {
		return
	}
	_, d.err = d.w.Write(b)
}
