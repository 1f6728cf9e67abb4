package machine

import (
	"unsafe"

	"golang.org/x/exp/slices"
)

// slotIndex recovers the index into vm.stack that p points at. vm.stack is
// a fixed-size array field of VM, never reallocated, so pointers into it
// stay valid and comparable by address for as long as the VM itself lives.
func (vm *VM) slotIndex(p *Value) int {
	return int((uintptr(unsafe.Pointer(p)) - uintptr(unsafe.Pointer(&vm.stack[0]))) / unsafe.Sizeof(Value{}))
}

// captureUpvalue returns the open upvalue already capturing local, if one
// exists, or creates and registers a new one. openUpvalues is kept sorted
// by descending stack slot (the deepest/most-recently-pushed local first),
// so the existing-capture search and the search for the insertion point run
// in O(log n) instead of scanning every open upvalue in the program; the
// insertion itself shifts the later entries.
func (vm *VM) captureUpvalue(local *Value) *ObjUpvalue {
	slot := vm.slotIndex(local)
	lo, hi := 0, len(vm.openUpvalues)
	for lo < hi {
		mid := (lo + hi) / 2
		if vm.slotIndex(vm.openUpvalues[mid].Location) > slot {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(vm.openUpvalues) && vm.slotIndex(vm.openUpvalues[lo].Location) == slot {
		return vm.openUpvalues[lo]
	}
	uv := vm.newUpvalue(local)
	vm.openUpvalues = slices.Insert(vm.openUpvalues, lo, uv)
	return uv
}

// closeUpvalues closes every open upvalue whose captured slot is at index
// stackIdx or above, copying the slot's current value into the upvalue
// itself so it keeps working after the frame that owned the slot is
// popped.
func (vm *VM) closeUpvalues(stackIdx int) {
	i := 0
	for i < len(vm.openUpvalues) && vm.slotIndex(vm.openUpvalues[i].Location) >= stackIdx {
		uv := vm.openUpvalues[i]
		uv.Closed = *uv.Location
		uv.Location = &uv.Closed
		i++
	}
	vm.openUpvalues = vm.openUpvalues[i:]
}
