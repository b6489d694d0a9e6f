package value

import (
	"errors"
	"fmt"
)

var ErrUnderflow = errors.New("stack underflow")

// Stack simulates the VM operand stack. Slot 0 is the bottom.
type Stack struct {
	slots []Value
}

func (s *Stack) Push(v Value) {
	s.slots = append(s.slots, v)
}

func (s *Stack) Pop() (Value, error) {
	top := len(s.slots) - 1
	if top < 0 {
		return Value{}, ErrUnderflow
	}
	v := s.slots[top]
	s.slots[top] = Value{}
	s.slots = s.slots[:top]
	return v, nil
}

// Peek returns the value n slots below the top; Peek(0) is the top.
func (s *Stack) Peek(n int) (Value, error) {
	idx := len(s.slots) - 1 - n
	if n < 0 || idx < 0 {
		return Value{}, fmt.Errorf("%w: peek %d with depth %d", ErrUnderflow, n, len(s.slots))
	}
	return s.slots[idx], nil
}

// At returns the value in absolute slot idx.
func (s *Stack) At(idx int) (Value, error) {
	if idx < 0 || idx >= len(s.slots) {
		return Value{}, fmt.Errorf("%w: slot %d with depth %d", ErrUnderflow, idx, len(s.slots))
	}
	return s.slots[idx], nil
}

func (s *Stack) Depth() int {
	return len(s.slots)
}
