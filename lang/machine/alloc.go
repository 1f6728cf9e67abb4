package machine

// sizeOf approximates the heap footprint of a newly allocated object kind,
// in bytes. It does not need to be exact: it only feeds the collector's
// grow-the-heap-before-next-collection heuristic (see gc.go), the same role
// the source implementation's reallocate() accounting plays by tracking
// every malloc/realloc/free byte-for-byte. A Go runtime-accurate sizeof
// would need unsafe.Sizeof on every field and wouldn't change behavior, so
// a fixed per-kind estimate stands in for it.
func sizeOf(k ObjKind) int64 {
	switch k {
	case ObjKindString:
		return 48
	case ObjKindFunction:
		return 96
	case ObjKindUpvalue:
		return 32
	case ObjKindClosure:
		return 48
	case ObjKindClass:
		return 64
	case ObjKindInstance:
		return 64
	case ObjKindBoundMethod:
		return 32
	case ObjKindNative:
		return 48
	default:
		return 32
	}
}

// link prepends o to the VM's allocation list and accounts for its
// estimated size, triggering a collection first if the heap has grown past
// its threshold.
func (vm *VM) link(o Obj, k ObjKind) {
	vm.bytesAllocated += sizeOf(k)
	if vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}
	h := o.objHeader()
	h.Kind = k
	h.Next = vm.objects
	vm.objects = o
}

// InternString returns the canonical *ObjString for s, allocating and
// interning a new one only if s hasn't been seen before.
func (vm *VM) InternString(s string) *ObjString {
	hash := fnv1a(s)
	if existing := vm.intern.find(s, hash); existing != nil {
		return existing
	}
	str := &ObjString{Chars: s, Hash: hash}
	vm.link(str, ObjKindString)
	vm.intern.add(str)
	return str
}

// NewFunction allocates an empty function object for the compiler to fill
// in as it compiles a function body.
func (vm *VM) NewFunction() *ObjFunction {
	fn := &ObjFunction{}
	vm.link(fn, ObjKindFunction)
	return fn
}

func (vm *VM) newUpvalue(slot *Value) *ObjUpvalue {
	uv := &ObjUpvalue{Location: slot}
	vm.link(uv, ObjKindUpvalue)
	return uv
}

func (vm *VM) newClosure(fn *ObjFunction) *ObjClosure {
	cl := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	vm.link(cl, ObjKindClosure)
	return cl
}

func (vm *VM) newClass(name *ObjString) *ObjClass {
	cls := &ObjClass{Name: name, Methods: NewTable(8)}
	vm.link(cls, ObjKindClass)
	return cls
}

func (vm *VM) newInstance(class *ObjClass) *ObjInstance {
	inst := &ObjInstance{Class: class, Fields: NewTable(8)}
	vm.link(inst, ObjKindInstance)
	return inst
}

func (vm *VM) newBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	bm := &ObjBoundMethod{Receiver: receiver, Method: method}
	vm.link(bm, ObjKindBoundMethod)
	return bm
}

func (vm *VM) newNative(name string, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Fn: fn}
	vm.link(n, ObjKindNative)
	return n
}

// defineNative installs fn as a global callable under name.
func (vm *VM) defineNative(name string, fn NativeFn) {
	nameStr := vm.InternString(name)
	native := vm.newNative(name, fn)
	vm.globals.Set(nameStr, FromObj(native))
}
