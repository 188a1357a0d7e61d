// Package symbols interns parameter, property and action names into small
// integer identifiers used as map keys by the analysis packages.
package symbols

// ID is an interned name. The zero ID means "no name".
type ID int

// Table maps names to IDs and back. Not safe for concurrent use.
type Table struct {
	ids   map[string]ID
	names []string
}

// NewTable creates an empty table with the zero ID reserved.
func NewTable() *Table {
	return &Table{
		ids:   map[string]ID{},
		names: []string{""},
	}
}

// Intern returns the ID for name, allocating one on first use.
// The empty name always maps to the zero ID.
func (t *Table) Intern(name string) ID {
	if name == "" {
		return 0
	}
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// Lookup returns the ID for name without allocating.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the string behind id, or "" for unknown IDs.
func (t *Table) Name(id ID) string {
	if id < 0 || int(id) >= len(t.names) {
		return ""
	}
	return t.names[id]
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	return len(t.names) - 1
}
