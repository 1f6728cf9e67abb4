package compiler

import "github.com/mna/ember/lang/machine"

func (c *Compiler) beginScope() { c.fc.scopeDepth++ }

// endScope pops every local declared in the scope just exited. A captured
// local must be closed over (OP_CLOSE_UPVALUE) rather than merely popped,
// since some live closure may still need to read it after this scope is
// gone.
func (c *Compiler) endScope() {
	c.fc.scopeDepth--
	for c.fc.localCount > 0 && c.fc.locals[c.fc.localCount-1].depth > c.fc.scopeDepth {
		if c.fc.locals[c.fc.localCount-1].isCaptured {
			c.emitOp(machine.OpCloseUpvalue)
		} else {
			c.emitOp(machine.OpPop)
		}
		c.fc.localCount--
	}
}

// declareVariable registers the variable named by c.previous as a local in
// the current scope (a no-op at global scope, where variables live in the
// globals table instead). Redeclaring a name already declared in the exact
// same scope is a compile error.
func (c *Compiler) declareVariable(name string) {
	if c.fc.scopeDepth == 0 {
		return
	}
	for i := c.fc.localCount - 1; i >= 0; i-- {
		l := &c.fc.locals[i]
		if l.depth != -1 && l.depth < c.fc.scopeDepth {
			break
		}
		if l.name == name {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) addLocal(name string) {
	if c.fc.localCount == maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	l := &c.fc.locals[c.fc.localCount]
	c.fc.localCount++
	l.name = name
	l.depth = -1
	l.isCaptured = false
}

// markInitialized promotes the most recently declared local from "declared"
// to "usable", so later expressions in its own initializer can't
// accidentally read it (depth stays -1 until this runs) but expressions
// after it can. It does nothing at global scope: a global variable's
// "initialized" state is implicit in whether DEFINE_GLOBAL ran.
func (c *Compiler) markInitialized() {
	if c.fc.scopeDepth == 0 {
		return
	}
	c.fc.locals[c.fc.localCount-1].depth = c.fc.scopeDepth
}

// resolveLocal looks up name among fc's locals, innermost declared first.
// It returns -1 if name isn't a local of fc at all. An uninitialized local
// found by name (depth == -1) is a compile error: reading it in its own
// initializer.
func (c *Compiler) resolveLocal(fc *funcCompiler, name string) int {
	for i := fc.localCount - 1; i >= 0; i-- {
		l := &fc.locals[i]
		if l.name == name {
			if l.depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// resolveUpvalue looks up name as a captured variable of some enclosing
// function, recursing outward one level at a time. Finding it as a local of
// the immediately enclosing function marks that local captured; finding it
// as an upvalue of the immediately enclosing function chains through that
// function's own upvalue array instead. Identical (index, isLocal) pairs
// are deduplicated so repeated references to the same outer variable don't
// grow the upvalue array.
func (c *Compiler) resolveUpvalue(fc *funcCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := c.resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return c.addUpvalue(fc, byte(local), true)
	}
	if up := c.resolveUpvalue(fc.enclosing, name); up != -1 {
		return c.addUpvalue(fc, byte(up), false)
	}
	return -1
}

func (c *Compiler) addUpvalue(fc *funcCompiler, index byte, isLocal bool) int {
	count := fc.fn.UpvalueCount
	for i := 0; i < count; i++ {
		up := &fc.upvalues[i]
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}
	if count == maxLocals {
		c.error("Too many closure variables in function.")
		return 0
	}
	fc.upvalues[count] = upvalueRef{index: index, isLocal: isLocal}
	fc.fn.UpvalueCount++
	return count
}
