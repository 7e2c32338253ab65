package cpu

const (
	MEMORY_SIZE = 8192 // Default number of memory cells.
)

// Memory is the fixed array of signed 32-bit cells, indexed by variable id.
type Memory []int32

// Load returns the value of a cell.
func (mem Memory) Load(cell Cell) (value int32, err error) {
	if cell < 0 || int(cell) >= len(mem) {
		err = ErrCellRange
		return
	}

	value = mem[cell]
	return
}

// Store sets the value of a cell.
func (mem Memory) Store(cell Cell, value int32) (err error) {
	if cell < 0 || int(cell) >= len(mem) {
		err = ErrCellRange
		return
	}

	mem[cell] = value
	return
}
