package machine

import "github.com/dolthub/swiss"

// Table is a hash table from interned strings to values, backing globals,
// instance fields and class method tables. Because every key is an
// *ObjString produced by the interner, the keys are comparable pointers and
// Table can lean on a generic open-addressing map instead of hand-rolling
// one; the hand-rolled table in interner.go exists only where the lookup
// key is not yet an *ObjString (see its doc comment).
type Table struct {
	m *swiss.Map[*ObjString, Value]
}

// NewTable returns an empty table with initial capacity for at least size
// entries.
func NewTable(size int) *Table {
	if size < 1 {
		size = 1
	}
	return &Table{m: swiss.NewMap[*ObjString, Value](uint32(size))}
}

func (t *Table) Get(key *ObjString) (Value, bool) { return t.m.Get(key) }
func (t *Table) Set(key *ObjString, val Value)    { t.m.Put(key, val) }
func (t *Table) Delete(key *ObjString) bool       { return t.m.Delete(key) }
func (t *Table) Has(key *ObjString) bool          { return t.m.Has(key) }
func (t *Table) Count() int                       { return int(t.m.Count()) }

// Each calls fn once per entry. Iteration order is unspecified.
func (t *Table) Each(fn func(key *ObjString, val Value) bool) {
	t.m.Iter(fn)
}

// AddAll copies every entry of other into t, used when a class declaration
// inherits from a superclass: the subclass's method table starts as a copy
// of the superclass's, so later `class Sub < Base { ... }` method
// declarations simply overwrite entries without needing to walk a
// superclass chain at call time.
func (t *Table) AddAll(other *Table) {
	other.Each(func(key *ObjString, val Value) bool {
		t.Set(key, val)
		return true
	})
}
