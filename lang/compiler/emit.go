package compiler

import (
	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
)

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.s.Next()
		if c.current.Kind != token.ILLEGAL {
			break
		}
		c.errorAtCurrent(c.current.Message)
	}
}

func (c *Compiler) check(kind token.Token) bool { return c.current.Kind == kind }

func (c *Compiler) match(kind token.Token) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Token, msg string) {
	if c.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) lexeme(tok scanner.Token) string { return tok.Lexeme(c.src) }

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.previous, msg) }

func (c *Compiler) errorAt(tok scanner.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	d := Diagnostic{Line: tok.Line, Message: msg, AtEnd: tok.Kind == token.EOF}
	if !d.AtEnd {
		d.Lexeme = tok.Lexeme(c.src)
	}
	if c.onError != nil {
		c.onError(d)
	}
}

// synchronize discards tokens until it reaches what looks like a statement
// boundary, so one error doesn't cascade into a wall of spurious follow-on
// diagnostics.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMI {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

func (c *Compiler) chunk() *machine.Chunk { return &c.fc.fn.Chunk }

func (c *Compiler) emitByte(b byte) { c.chunk().Write(b, c.previous.Line) }

func (c *Compiler) emitOp(op machine.OpCode) { c.chunk().WriteOp(op, c.previous.Line) }

func (c *Compiler) emitOps(op1, op2 machine.OpCode) {
	c.emitOp(op1)
	c.emitOp(op2)
}

func (c *Compiler) emitOpByte(op machine.OpCode, b byte) {
	c.emitOp(op)
	c.emitByte(b)
}

func (c *Compiler) emitReturn() {
	if c.fc.kind == FuncInitializer {
		c.emitOpByte(machine.OpGetLocal, 0)
	} else {
		c.emitOp(machine.OpNil)
	}
	c.emitOp(machine.OpReturn)
}

// emitConstant appends v to the current chunk's constant pool and emits a
// CONSTANT instruction loading it. It does not deduplicate: repeated uses
// of the same literal each get their own pool slot, matching the source
// implementation, which also never deduplicates the constant pool.
func (c *Compiler) emitConstant(v machine.Value) {
	c.emitOpByte(machine.OpConstant, c.makeConstant(v))
}

func (c *Compiler) makeConstant(v machine.Value) byte {
	idx := c.chunk().AddConstant(v)
	if idx > 255 {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// emitJump writes a jump instruction with a placeholder 16-bit operand and
// returns the offset of that operand, to be filled in later by patchJump
// once the target address is known.
func (c *Compiler) emitJump(op machine.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(machine.OpLoop)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}
