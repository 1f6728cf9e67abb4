// Package machine implements the virtual machine that executes the
// bytecode-compiled form of a program. It also owns the runtime
// representation of every value the language can produce — the tagged Value
// union, the heap object kinds, string interning, the hash tables, the
// bytecode Chunk, and the mark-sweep collector that reclaims heap objects
// once the VM proves them unreachable.
package machine

import "math"

// Kind discriminates the cases of Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is a tagged union of the four kinds of value this language can
// produce: nil, bool, number (an IEEE-754 double) and object (a pointer to a
// heap-allocated Obj). It is a plain Go struct rather than a packed 64-bit
// NaN-tagged encoding; spec wise either representation is acceptable as long
// as observable behavior matches, and the struct form keeps the Go source
// readable without unsafe pointer tricks.
type Value struct {
	kind Kind
	b    bool
	n    float64
	obj  Obj
}

// Nil is the single nil value.
var Nil = Value{kind: KindNil}

// Bool returns the Value wrapping b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns the Value wrapping n.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// FromObj returns the Value wrapping the heap object o.
func FromObj(o Obj) Value { return Value{kind: KindObj, obj: o} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == KindNil }
func (v Value) IsBool() bool  { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool   { return v.kind == KindObj }

// AsBool returns the bool payload. It is only meaningful when IsBool is true.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the number payload. It is only meaningful when IsNumber is true.
func (v Value) AsNumber() float64 { return v.n }

// AsObj returns the object payload. It is only meaningful when IsObj is true.
func (v Value) AsObj() Obj { return v.obj }

// IsObjKind reports whether v holds an object of the given kind.
func (v Value) IsObjKind(k ObjKind) bool {
	return v.kind == KindObj && v.obj.objHeader().Kind == k
}

// Falsey reports whether v is considered false by conditional constructs:
// nil and the boolean false are falsey, every other value is truthy.
func (v Value) Falsey() bool {
	return v.kind == KindNil || (v.kind == KindBool && !v.b)
}

// Equal implements the EQUAL opcode's comparison. Equality across different
// kinds is always false. nil equals nil. Numbers follow value equality,
// under which NaN equals itself (unlike Go's own == on float64, which
// treats NaN as unequal to everything including itself) — a lone NaN
// constant compared to itself must read as equal. Strings compare by
// identity, which is sound because every string is interned. Every other
// object kind also compares by identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n || (math.IsNaN(a.n) && math.IsNaN(b.n))
	case KindObj:
		return a.obj == b.obj
	default:
		return false
	}
}
