// Package scope tracks the names bound to stack slots and upvalues while a
// single function body is decompiled.
package scope

import (
	"fmt"
	"strconv"
)

// Func is the name-binding state of one function body.
type Func struct {
	IsMain    bool
	NumParams int

	locals   map[int]string
	upvalues map[int]string

	forLoopCounter int
	forLoops       []int /* loop-variable slots of the open numeric for-loops */
	localCount     int
}

// New creates the scope of a function body. Parameters occupy slots
// 0..numParams-1 and are named arg1..argN.
func New(isMain bool, numParams int) *Func {
	f := &Func{
		IsMain:    isMain,
		NumParams: numParams,
		locals:    make(map[int]string),
		upvalues:  make(map[int]string),
	}
	for i := 0; i < numParams; i++ {
		f.Bind(i, ParamName(i))
	}
	return f
}

func ParamName(i int) string {
	return "arg" + strconv.Itoa(i+1)
}

// Local returns the name bound to slot.
func (f *Func) Local(slot int) (string, bool) {
	name, ok := f.locals[slot]
	return name, ok
}

// Name binds a fresh name to an unnamed slot and returns it. The boolean
// result is true when the name was created by this call.
func (f *Func) Name(slot int) (string, bool) {
	if name, ok := f.locals[slot]; ok {
		return name, false
	}
	name := "loc" + strconv.Itoa(slot-f.NumParams+1)
	f.Bind(slot, name)
	return name, true
}

func (f *Func) Bind(slot int, name string) {
	if _, ok := f.locals[slot]; !ok {
		f.localCount++
	}
	f.locals[slot] = name
}

func (f *Func) Unbind(slot int) {
	if _, ok := f.locals[slot]; ok {
		delete(f.locals, slot)
		f.localCount--
	}
}

func (f *Func) LocalCount() int {
	return f.localCount
}

func (f *Func) SetUpvalue(idx int, name string) {
	f.upvalues[idx] = name
}

func (f *Func) Upvalue(idx int) (string, bool) {
	name, ok := f.upvalues[idx]
	return name, ok
}

func (f *Func) NumUpvalues() int {
	return len(f.upvalues)
}

// OpenForLoop allocates the next numeric for-loop variable and binds it
// to slot.
func (f *Func) OpenForLoop(slot int) string {
	name := fmt.Sprintf("for%d", f.forLoopCounter)
	f.forLoopCounter++
	f.forLoops = append(f.forLoops, slot)
	f.Bind(slot, name)
	return name
}

// CloseForLoop unbinds the variable of the innermost numeric for-loop.
func (f *Func) CloseForLoop() bool {
	n := len(f.forLoops)
	if n == 0 {
		return false
	}
	f.Unbind(f.forLoops[n-1])
	f.forLoops = f.forLoops[:n-1]
	return true
}

func (f *Func) ForLoopDepth() int {
	return len(f.forLoops)
}
