package machine

// OpCode is a single bytecode instruction's opcode byte. Every instruction
// in this set is fixed-width: the opcode byte is followed by a fixed number
// of operand bytes determined solely by the opcode, unlike the varint or
// LEB128-style variable-width encodings some bytecode VMs use. That keeps
// jump-patching simple: a forward jump's two-byte operand can be written in
// place once the target is known, without ever having to grow or shift the
// bytes already emitted after it.
type OpCode uint8

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpGetLocal    // u8 slot
	OpSetLocal    // u8 slot
	OpGetGlobal   // u8 constant index (name)
	OpDefineGlobal
	OpSetGlobal
	OpGetUpvalue // u8 slot
	OpSetUpvalue
	OpGetProperty  // u8 constant index (name)
	OpSetProperty
	OpGetSuper
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpJump        // u16 offset
	OpJumpIfFalse // u16 offset
	OpLoop        // u16 offset
	OpCall        // u8 arg count
	OpInvoke      // u8 constant index (name), u8 arg count
	OpSuperInvoke // u8 constant index (name), u8 arg count
	OpClosure     // u8 constant index, then per-upvalue (u8 isLocal, u8 index)
	OpCloseUpvalue
	OpReturn
	OpClass        // u8 constant index (name)
	OpInherit
	OpMethod // u8 constant index (name)
)

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}

var opcodeNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}
