package cpu

import (
	"slices"
)

// SymbolTable maps names to dense ids, assigned in first-seen order.
type SymbolTable struct {
	id    map[string]int
	names []string
}

// Resolve returns the id of name, allocating the next id if name is new.
func (st *SymbolTable) Resolve(name string) (id int) {
	id, ok := st.id[name]
	if ok {
		return
	}

	if st.id == nil {
		st.id = make(map[string]int, 16)
	}

	id = len(st.names)
	st.id[name] = id
	st.names = append(st.names, name)

	return
}

// Name returns the name bound to id, or the empty string.
func (st *SymbolTable) Name(id int) string {
	if id < 0 || id >= len(st.names) {
		return ""
	}
	return st.names[id]
}

// Len is the number of names in the table.
func (st *SymbolTable) Len() int {
	return len(st.names)
}

// Names returns the names in id order.
func (st *SymbolTable) Names() []string {
	return slices.Clone(st.names)
}

// Reset empties the table.
func (st *SymbolTable) Reset() {
	clear(st.id)
	st.names = st.names[:0]
}
