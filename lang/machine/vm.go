package machine

import (
	"fmt"
	"io"
)

const (
	// FramesMax bounds call-frame nesting, matching the source
	// implementation's fixed-size call stack.
	FramesMax = 64
	// StackMax bounds the operand/locals stack.
	StackMax = FramesMax * 256
)

// CallFrame is one active function invocation: the closure being run, its
// instruction pointer, and the base index into the VM's value stack where
// its locals (parameters first, slot 0 the callee/receiver) begin.
type CallFrame struct {
	closure *ObjClosure
	ip      int
	slots   int
}

// VM executes compiled chunks. A VM is single-threaded: the spec this
// implementation targets has no concurrency construct, so unlike the
// teacher's Thread/Frame split for a language with goroutine-like tasks,
// one VM is both the interpreter and its one thread of execution.
type VM struct {
	stdout io.Writer

	stack    [StackMax]Value
	stackTop int

	frames     [FramesMax]CallFrame
	frameCount int

	globals *Table
	intern  *interner

	openUpvalues []*ObjUpvalue // sorted by descending stack address

	objects Obj // head of the intrusive allocation list, for the collector
	gray    []Obj

	bytesAllocated int64
	nextGC         int64

	compilerRoots []*ObjFunction

	initString *ObjString

	// TraceExecution, when true, disassembles each instruction to stdout
	// before executing it. It is a debugging aid, off by default.
	TraceExecution bool
}

// New returns a VM ready to run compiled chunks. stdout receives everything
// the PRINT statement writes. The VM itself never checks for cancellation
// (see SPEC_FULL.md §5); callers that want a time-out construct a fresh VM
// per input and check their own context at the driver layer instead.
func New(stdout io.Writer) *VM {
	vm := &VM{
		stdout:  stdout,
		globals: NewTable(16),
		intern:  newInterner(),
		nextGC:  1024 * 1024,
	}
	vm.initString = vm.InternString("init")
	vm.defineNatives()
	return vm
}

func (vm *VM) push(v Value) { vm.stack[vm.stackTop] = v; vm.stackTop++ }
func (vm *VM) pop() Value   { vm.stackTop--; return vm.stack[vm.stackTop] }
func (vm *VM) peek(distance int) Value { return vm.stack[vm.stackTop-1-distance] }

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = vm.openUpvalues[:0]
}

// PushCompilerRoot registers fn as a GC root for as long as it remains on
// the compiler's stack of function bodies currently being compiled. The
// compiler calls this around each nested function so that constants being
// built up in a not-yet-executing function survive a collection triggered
// mid-compile (e.g. by string interning). machine cannot import compiler,
// so this explicit push/pop API is the rooting channel between the two
// packages instead of the collector walking compiler state directly.
func (vm *VM) PushCompilerRoot(fn *ObjFunction) {
	vm.compilerRoots = append(vm.compilerRoots, fn)
}

// PopCompilerRoot un-registers the most recently pushed compiler root.
func (vm *VM) PopCompilerRoot() {
	vm.compilerRoots = vm.compilerRoots[:len(vm.compilerRoots)-1]
}

// Interpret compiles nothing itself; it runs an already-compiled top-level
// function (what the compiler produces for a whole script) to completion.
func (vm *VM) Interpret(script *ObjFunction) error {
	vm.push(FromObj(script))
	closure := vm.newClosure(script)
	vm.pop()
	vm.push(FromObj(closure))
	if err := vm.call(closure, 0); err != nil {
		vm.resetStack()
		return err
	}
	if err := vm.run(); err != nil {
		vm.resetStack()
		return err
	}
	return nil
}

func (vm *VM) run() error {
	frame := &vm.frames[vm.frameCount-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi := frame.closure.Function.Chunk.Code[frame.ip]
		lo := frame.closure.Function.Chunk.Code[frame.ip+1]
		frame.ip += 2
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readString := func() *ObjString {
		return readConstant().AsObj().(*ObjString)
	}

	for {
		if vm.TraceExecution {
			DisassembleInstruction(vm.stdout, &frame.closure.Function.Chunk, frame.ip)
		}

		op := OpCode(readByte())
		switch op {
		case OpConstant:
			vm.push(readConstant())

		case OpNil:
			vm.push(Nil)
		case OpTrue:
			vm.push(Bool(true))
		case OpFalse:
			vm.push(Bool(false))
		case OpPop:
			vm.pop()

		case OpGetLocal:
			slot := int(readByte())
			vm.push(vm.stack[frame.slots+slot])
		case OpSetLocal:
			slot := int(readByte())
			vm.stack[frame.slots+slot] = vm.peek(0)

		case OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)
		case OpDefineGlobal:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case OpSetGlobal:
			name := readString()
			if !vm.globals.Has(name) {
				return vm.runtimeErrorf("Undefined variable '%s'.", name.Chars)
			}
			vm.globals.Set(name, vm.peek(0))

		case OpGetUpvalue:
			slot := int(readByte())
			vm.push(*frame.closure.Upvalues[slot].Location)
		case OpSetUpvalue:
			slot := int(readByte())
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case OpGetProperty:
			if !vm.peek(0).IsObjKind(ObjKindInstance) {
				return vm.runtimeErrorf("Only instances have properties.")
			}
			inst := vm.peek(0).AsObj().(*ObjInstance)
			name := readString()
			if v, ok := inst.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if err := vm.bindMethod(inst.Class, name); err != nil {
				return err
			}
		case OpSetProperty:
			if !vm.peek(1).IsObjKind(ObjKindInstance) {
				return vm.runtimeErrorf("Only instances have fields.")
			}
			inst := vm.peek(1).AsObj().(*ObjInstance)
			name := readString()
			inst.Fields.Set(name, vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case OpGetSuper:
			name := readString()
			super := vm.pop().AsObj().(*ObjClass)
			if err := vm.bindMethod(super, name); err != nil {
				return err
			}

		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(Bool(Equal(a, b)))
		case OpGreater, OpLess:
			if err := vm.numericComparison(op); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case OpSubtract, OpMultiply, OpDivide:
			if err := vm.arithmetic(op); err != nil {
				return err
			}

		case OpNot:
			vm.push(Bool(vm.pop().Falsey()))
		case OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeErrorf("Operand must be a number.")
			}
			vm.push(Number(-vm.pop().AsNumber()))

		case OpPrint:
			fmt.Fprintln(vm.stdout, FormatValue(vm.pop()))

		case OpJump:
			offset := readShort()
			frame.ip += offset
		case OpJumpIfFalse:
			offset := readShort()
			if vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case OpLoop:
			offset := readShort()
			frame.ip -= offset

		case OpCall:
			argCount := int(readByte())
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpInvoke:
			method := readString()
			argCount := int(readByte())
			if err := vm.invoke(method, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpSuperInvoke:
			method := readString()
			argCount := int(readByte())
			super := vm.pop().AsObj().(*ObjClass)
			if err := vm.invokeFromClass(super, method, argCount); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case OpClosure:
			fn := readConstant().AsObj().(*ObjFunction)
			closure := vm.newClosure(fn)
			vm.push(FromObj(closure))
			for i := range closure.Upvalues {
				isLocal := readByte()
				index := int(readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.slots+index])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop()
				return nil
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		case OpClass:
			vm.push(FromObj(vm.newClass(readString())))
		case OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsObjKind(ObjKindClass) {
				return vm.runtimeErrorf("Superclass must be a class.")
			}
			super := superVal.AsObj().(*ObjClass)
			sub := vm.peek(0).AsObj().(*ObjClass)
			sub.Methods.AddAll(super.Methods)
			vm.pop() // subclass; superclass stays bound to the "super" local
		case OpMethod:
			vm.defineMethod(readString())

		default:
			return vm.runtimeErrorf("unknown opcode %d", op)
		}
	}
}
