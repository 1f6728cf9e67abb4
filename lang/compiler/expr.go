package compiler

import (
	"strconv"

	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/token"
)

func (c *Compiler) number(canAssign bool) {
	n, _ := strconv.ParseFloat(c.lexeme(c.previous), 64)
	c.emitConstant(machine.Number(n))
}

func (c *Compiler) string_(canAssign bool) {
	lit := c.lexeme(c.previous)
	s := lit[1 : len(lit)-1] // strip the surrounding quotes; no escape processing
	c.emitConstant(machine.FromObj(c.vm.InternString(s)))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.previous.Kind {
	case token.FALSE:
		c.emitOp(machine.OpFalse)
	case token.TRUE:
		c.emitOp(machine.OpTrue)
	case token.NIL:
		c.emitOp(machine.OpNil)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after expression.")
}

func (c *Compiler) unary(canAssign bool) {
	op := c.previous.Kind
	c.parsePrecedence(precUnary)
	switch op {
	case token.BANG:
		c.emitOp(machine.OpNot)
	case token.MINUS:
		c.emitOp(machine.OpNegate)
	}
}

func (c *Compiler) binary(canAssign bool) {
	op := c.previous.Kind
	rule := ruleFor(op)
	c.parsePrecedence(rule.precedence + 1)

	switch op {
	case token.BANG_EQ:
		c.emitOps(machine.OpEqual, machine.OpNot)
	case token.EQ_EQ:
		c.emitOp(machine.OpEqual)
	case token.GT:
		c.emitOp(machine.OpGreater)
	case token.GT_EQ:
		c.emitOps(machine.OpLess, machine.OpNot)
	case token.LT:
		c.emitOp(machine.OpLess)
	case token.LT_EQ:
		c.emitOps(machine.OpGreater, machine.OpNot)
	case token.PLUS:
		c.emitOp(machine.OpAdd)
	case token.MINUS:
		c.emitOp(machine.OpSubtract)
	case token.STAR:
		c.emitOp(machine.OpMultiply)
	case token.SLASH:
		c.emitOp(machine.OpDivide)
	}
}

func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(machine.OpJumpIfFalse)
	c.emitOp(machine.OpPop)
	c.parsePrecedence(precAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(machine.OpJumpIfFalse)
	endJump := c.emitJump(machine.OpJump)
	c.patchJump(elseJump)
	c.emitOp(machine.OpPop)
	c.parsePrecedence(precOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(canAssign bool) {
	argCount := c.argumentList()
	c.emitOpByte(machine.OpCall, argCount)
}

func (c *Compiler) argumentList() byte {
	var count int
	if !c.check(token.RPAREN) {
		for {
			c.expression()
			if count == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after arguments.")
	return byte(count)
}

// dot handles `expr.name`, `expr.name = value`, and the INVOKE peephole
// fusion for `expr.name(args)` so a chained method call never has to
// allocate a throwaway BoundMethod just to immediately call it.
func (c *Compiler) dot(canAssign bool) {
	c.consume(token.IDENT, "Expect property name after '.'.")
	name := c.makeConstant(machine.FromObj(c.vm.InternString(c.lexeme(c.previous))))

	switch {
	case canAssign && c.match(token.EQ):
		c.expression()
		c.emitOpByte(machine.OpSetProperty, name)
	case c.match(token.LPAREN):
		argCount := c.argumentList()
		c.emitOpByte(machine.OpInvoke, name)
		c.emitByte(argCount)
	default:
		c.emitOpByte(machine.OpGetProperty, name)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.lexeme(c.previous), canAssign)
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp machine.OpCode
	var arg byte

	if slot := c.resolveLocal(c.fc, name); slot != -1 {
		getOp, setOp = machine.OpGetLocal, machine.OpSetLocal
		arg = byte(slot)
	} else if up := c.resolveUpvalue(c.fc, name); up != -1 {
		getOp, setOp = machine.OpGetUpvalue, machine.OpSetUpvalue
		arg = byte(up)
	} else {
		getOp, setOp = machine.OpGetGlobal, machine.OpSetGlobal
		arg = c.makeConstant(machine.FromObj(c.vm.InternString(name)))
	}

	if canAssign && c.match(token.EQ) {
		c.expression()
		c.emitOpByte(setOp, arg)
	} else {
		c.emitOpByte(getOp, arg)
	}
}

func (c *Compiler) this_(canAssign bool) {
	if c.cc == nil {
		c.error("Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

// super_ handles bare `super.m` (emits GET_SUPER) and the SUPER_INVOKE
// fusion for `super.m(args)`.
func (c *Compiler) super_(canAssign bool) {
	switch {
	case c.cc == nil:
		c.error("Can't use 'super' outside of a class.")
	case !c.cc.hasSuperclass:
		c.error("Can't use 'super' in a class with no superclass.")
	}

	c.consume(token.DOT, "Expect '.' after 'super'.")
	c.consume(token.IDENT, "Expect superclass method name.")
	name := c.makeConstant(machine.FromObj(c.vm.InternString(c.lexeme(c.previous))))

	c.namedVariable("this", false)
	if c.match(token.LPAREN) {
		argCount := c.argumentList()
		c.namedVariable("super", false)
		c.emitOpByte(machine.OpSuperInvoke, name)
		c.emitByte(argCount)
	} else {
		c.namedVariable("super", false)
		c.emitOpByte(machine.OpGetSuper, name)
	}
}
