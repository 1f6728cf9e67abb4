package machine

// ObjKind discriminates the heap object kinds the VM allocates.
type ObjKind uint8

const (
	ObjKindString ObjKind = iota
	ObjKindFunction
	ObjKindUpvalue
	ObjKindClosure
	ObjKindClass
	ObjKindInstance
	ObjKindBoundMethod
	ObjKindNative
)

func (k ObjKind) String() string {
	switch k {
	case ObjKindString:
		return "string"
	case ObjKindFunction:
		return "function"
	case ObjKindUpvalue:
		return "upvalue"
	case ObjKindClosure:
		return "closure"
	case ObjKindClass:
		return "class"
	case ObjKindInstance:
		return "instance"
	case ObjKindBoundMethod:
		return "bound method"
	case ObjKindNative:
		return "native"
	default:
		return "unknown"
	}
}

// Obj is implemented by every heap-allocated object kind. Objects form an
// intrusive singly-linked list rooted at VM.objects so the collector can
// sweep every allocation it ever made without a separate registry; each
// concrete object type embeds ObjHeader to participate in that list and to
// carry the mark bit the collector flips during the mark phase.
type Obj interface {
	objHeader() *ObjHeader
}

// ObjHeader is embedded as the first field of every concrete object type.
// It plays the role the source implementation gives the "Obj" struct that
// every object type starts with: a kind tag, a next-allocation link, and
// (here, since this collector runs in Go rather than as a C struct with a
// separate isMarked byte) the tri-color mark state used during collection.
type ObjHeader struct {
	Kind   ObjKind
	Marked bool
	Next   Obj
}

func (h *ObjHeader) objHeader() *ObjHeader { return h }

// ObjString is an interned, immutable string. Two ObjStrings with the same
// contents are always the same pointer (see interner.go), so string equality
// reduces to pointer equality.
type ObjString struct {
	ObjHeader
	Chars string
	Hash  uint32
}

// ObjUpvalue closes over a stack slot. While the upvalue is open, Location
// points at a live stack slot owned by some call frame; Close copies the
// value into the Closed field and repoints Location at it, so that the
// upvalue keeps working after its owning frame is popped.
type ObjUpvalue struct {
	ObjHeader
	Location *Value
	Closed   Value
}

// ObjFunction is a compiled function body: its bytecode, constant pool and
// arity, plus the upvalue layout the compiler worked out for it. It carries
// no captured state of its own; capturing happens when a closure wraps it.
type ObjFunction struct {
	ObjHeader
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *ObjString // nil for the implicit top-level script function
}

// ObjClosure pairs a compiled function with the upvalues it captured at the
// point the CLOSURE instruction ran.
type ObjClosure struct {
	ObjHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

// NativeFn is the signature of a function implemented in Go and exposed to
// scripts as a callable value.
type NativeFn func(vm *VM, args []Value) (Value, error)

// ObjNative wraps a Go function so it can be called like any other value.
type ObjNative struct {
	ObjHeader
	Name string
	Fn   NativeFn
}

// ObjClass is a runtime class: its name and its own (non-inherited) method
// table. Inheritance is resolved by copying the superclass's methods into
// the subclass's table at class-declaration time (OP_INHERIT, via
// Table.AddAll), so method lookup at a call site never has to walk a
// superclass chain.
type ObjClass struct {
	ObjHeader
	Name    *ObjString
	Methods *Table
}

// ObjInstance is an instance of an ObjClass: a class pointer and its own
// field table.
type ObjInstance struct {
	ObjHeader
	Class  *ObjClass
	Fields *Table
}

// ObjBoundMethod pairs a receiver with one of its class's closures, so that
// `instance.method` used as a value (not immediately called) still carries
// the receiver it was bound to.
type ObjBoundMethod struct {
	ObjHeader
	Receiver Value
	Method   *ObjClosure
}
