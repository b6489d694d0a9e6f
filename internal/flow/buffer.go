package flow

// Buffer is the output text of one function body. Text is appended at the
// end or inserted at an offset recorded earlier with Len.
type Buffer struct {
	b []byte
}

func (b *Buffer) WriteString(s string) {
	b.b = append(b.b, s...)
}

// Insert splices s in at offset. Offsets recorded before the insertion that
// lie after it are shifted by len(s).
func (b *Buffer) Insert(offset int, s string) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(b.b) {
		b.b = append(b.b, s...)
		return
	}
	b.b = append(b.b[:offset], append([]byte(s), b.b[offset:]...)...)
}

func (b *Buffer) Len() int {
	return len(b.b)
}

func (b *Buffer) String() string {
	return string(b.b)
}
