package machine

// add implements OP_ADD, which is overloaded: number + number produces a
// number, string + string produces a concatenated (interned) string. Any
// other combination is a runtime error.
func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(Number(a.AsNumber() + b.AsNumber()))
		return nil
	case a.IsObjKind(ObjKindString) && b.IsObjKind(ObjKindString):
		// a and b stay on the stack (GC roots) until the concatenated
		// string is built and interned, matching the write-barrier
		// discipline in spec.md §4.5.
		as := a.AsObj().(*ObjString)
		bs := b.AsObj().(*ObjString)
		result := vm.InternString(as.Chars + bs.Chars)
		vm.pop()
		vm.pop()
		vm.push(FromObj(result))
		return nil
	default:
		return vm.runtimeErrorf("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) arithmetic(op OpCode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	switch op {
	case OpSubtract:
		vm.push(Number(a - b))
	case OpMultiply:
		vm.push(Number(a * b))
	case OpDivide:
		vm.push(Number(a / b))
	}
	return nil
}

func (vm *VM) numericComparison(op OpCode) error {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeErrorf("Operands must be numbers.")
	}
	b := vm.pop().AsNumber()
	a := vm.pop().AsNumber()
	if op == OpGreater {
		vm.push(Bool(a > b))
	} else {
		vm.push(Bool(a < b))
	}
	return nil
}
