package machine

// callValue dispatches OP_CALL's callee, which may be a closure, a class
// (constructing an instance), a bound method, or a native function.
func (vm *VM) callValue(callee Value, argCount int) error {
	if callee.IsObj() {
		switch obj := callee.AsObj().(type) {
		case *ObjClosure:
			return vm.call(obj, argCount)
		case *ObjClass:
			inst := vm.newInstance(obj)
			vm.stack[vm.stackTop-argCount-1] = FromObj(inst)
			if init, ok := obj.Methods.Get(vm.initString); ok {
				return vm.call(init.AsObj().(*ObjClosure), argCount)
			}
			if argCount != 0 {
				return vm.runtimeErrorf("Expected 0 arguments but got %d.", argCount)
			}
			return nil
		case *ObjBoundMethod:
			vm.stack[vm.stackTop-argCount-1] = obj.Receiver
			return vm.call(obj.Method, argCount)
		case *ObjNative:
			args := vm.stack[vm.stackTop-argCount : vm.stackTop]
			result, err := obj.Fn(vm, args)
			if err != nil {
				return vm.runtimeErrorf("%s", err.Error())
			}
			vm.stackTop -= argCount + 1
			vm.push(result)
			return nil
		}
	}
	return vm.runtimeErrorf("Can only call functions and classes.")
}

// call pushes a new CallFrame for closure, checking arity and frame-stack
// depth first.
func (vm *VM) call(closure *ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if vm.frameCount == FramesMax {
		return vm.runtimeErrorf("Stack overflow.")
	}
	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	return nil
}

// invoke fuses OP_GET_PROPERTY and OP_CALL for the common `receiver.method(args)`
// call shape: a field shadowing the method is checked first (fields can
// hold closures too, and those take priority, matching plain property
// lookup), then the method table is searched directly without ever
// allocating a bound method.
func (vm *VM) invoke(name *ObjString, argCount int) error {
	receiver := vm.peek(argCount)
	if !receiver.IsObjKind(ObjKindInstance) {
		return vm.runtimeErrorf("Only instances have methods.")
	}
	inst := receiver.AsObj().(*ObjInstance)
	if v, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = v
		return vm.callValue(v, argCount)
	}
	return vm.invokeFromClass(inst.Class, name, argCount)
}

func (vm *VM) invokeFromClass(class *ObjClass, name *ObjString, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	return vm.call(method.AsObj().(*ObjClosure), argCount)
}

func (vm *VM) bindMethod(class *ObjClass, name *ObjString) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name.Chars)
	}
	bound := vm.newBoundMethod(vm.peek(0), method.AsObj().(*ObjClosure))
	vm.pop()
	vm.push(FromObj(bound))
	return nil
}

func (vm *VM) defineMethod(name *ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}
