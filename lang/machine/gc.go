package machine

import "os"

// heapGrowFactor sets how much the heap is allowed to grow between
// collections: after each collection, the next one triggers once
// bytesAllocated exceeds bytesAllocated-at-last-collection times this
// factor, or 1 MiB, whichever is larger.
const heapGrowFactor = 2

// debugGC, when true, logs each collection's before/after byte counts to
// stderr. It is a debugging aid, off by default.
var debugGC = os.Getenv("EMBER_DEBUG_GC") != ""

// collectGarbage runs one full tri-color mark-sweep cycle: every reachable
// object is marked gray then blackened (its own references traced and
// marked gray in turn) until no gray objects remain, then every object
// still white is unlinked from the allocation list and becomes eligible
// for Go's own collector to reclaim.
func (vm *VM) collectGarbage() {
	before := vm.bytesAllocated

	vm.markRoots()
	vm.traceReferences()
	vm.intern.removeWhiteTombstones()
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * heapGrowFactor
	if vm.nextGC < 1024*1024 {
		vm.nextGC = 1024 * 1024
	}

	if debugGC {
		println("gc:", before, "->", vm.bytesAllocated, "bytes, next at", vm.nextGC)
	}
}

func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for _, uv := range vm.openUpvalues {
		vm.markObject(uv)
	}
	vm.markTable(vm.globals)
	for _, fn := range vm.compilerRoots {
		vm.markObject(fn)
	}
	vm.markObject(vm.initString)
}

func (vm *VM) markValue(v Value) {
	if v.IsObj() {
		vm.markObject(v.AsObj())
	}
}

func (vm *VM) markObject(o Obj) {
	if o == nil {
		return
	}
	h := o.objHeader()
	if h.Marked {
		return
	}
	h.Marked = true
	vm.gray = append(vm.gray, o)
}

func (vm *VM) markTable(t *Table) {
	t.Each(func(key *ObjString, val Value) bool {
		vm.markObject(key)
		vm.markValue(val)
		return true
	})
}

// traceReferences blackens every gray object: pops it off the gray stack
// and marks whatever it points to, which may push more objects onto the
// gray stack, until none remain.
func (vm *VM) traceReferences() {
	for len(vm.gray) > 0 {
		n := len(vm.gray) - 1
		o := vm.gray[n]
		vm.gray = vm.gray[:n]
		vm.blacken(o)
	}
}

func (vm *VM) blacken(o Obj) {
	switch o := o.(type) {
	case *ObjString:
		// no outgoing references
	case *ObjUpvalue:
		vm.markValue(o.Closed)
	case *ObjFunction:
		if o.Name != nil {
			vm.markObject(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			vm.markValue(c)
		}
	case *ObjClosure:
		vm.markObject(o.Function)
		for _, uv := range o.Upvalues {
			if uv != nil {
				vm.markObject(uv)
			}
		}
	case *ObjClass:
		vm.markObject(o.Name)
		vm.markTable(o.Methods)
	case *ObjInstance:
		vm.markObject(o.Class)
		vm.markTable(o.Fields)
	case *ObjBoundMethod:
		vm.markValue(o.Receiver)
		vm.markObject(o.Method)
	case *ObjNative:
		// no outgoing references
	}
}

// sweep walks the allocation list, unlinking and dropping every object that
// wasn't marked (and so is unreachable), and clearing the mark bit on every
// survivor for the next cycle.
func (vm *VM) sweep() {
	var prev Obj
	obj := vm.objects
	for obj != nil {
		h := obj.objHeader()
		if h.Marked {
			h.Marked = false
			prev = obj
			obj = h.Next
			continue
		}
		unreached := obj
		obj = h.Next
		if prev != nil {
			prev.objHeader().Next = obj
		} else {
			vm.objects = obj
		}
		vm.bytesAllocated -= sizeOf(unreached.objHeader().Kind)
	}
}
