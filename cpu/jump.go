package cpu

const (
	JUMP_BUFFER_SIZE = 100 // Default jump buffer depth.
)

// JumpBuffer is a fixed-capacity ring of return addresses.
//
// Push never fails: once full, the oldest unreturned entry is overwritten.
// Pop never fails either: popping past the oldest entry yields whatever
// stale (or zero) value is stored in the slot.
type JumpBuffer struct {
	Data   []int
	Cursor int // Next slot to write.
}

// NewJumpBuffer creates a jump buffer of a fixed capacity.
func NewJumpBuffer(capacity int) (jb JumpBuffer) {
	if capacity <= 0 {
		capacity = JUMP_BUFFER_SIZE
	}
	jb.Data = make([]int, capacity)
	return
}

// Push writes ip at the cursor and advances the cursor.
func (jb *JumpBuffer) Push(ip int) {
	jb.Data[jb.Cursor] = ip
	jb.Cursor = (jb.Cursor + 1) % len(jb.Data)
}

// Pop rewinds the cursor and returns the value found there.
func (jb *JumpBuffer) Pop() (ip int) {
	jb.Cursor = (jb.Cursor - 1 + len(jb.Data)) % len(jb.Data)
	return jb.Data[jb.Cursor]
}

// Peek returns the value the next Pop would return.
func (jb *JumpBuffer) Peek() (ip int) {
	return jb.Data[(jb.Cursor-1+len(jb.Data))%len(jb.Data)]
}

// Capacity is the number of slots in the buffer.
func (jb *JumpBuffer) Capacity() int {
	return len(jb.Data)
}

// Reset zeros all slots and the cursor.
func (jb *JumpBuffer) Reset() {
	clear(jb.Data)
	jb.Cursor = 0
}
