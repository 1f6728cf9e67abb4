package compiler

import (
	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/token"
)

func (c *Compiler) declaration() {
	switch {
	case c.match(token.CLASS):
		c.classDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RBRACE, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMI, "Expect ';' after value.")
	c.emitOp(machine.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMI, "Expect ';' after expression.")
	c.emitOp(machine.OpPop)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LPAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(machine.OpJumpIfFalse)
	c.emitOp(machine.OpPop)
	c.statement()

	elseJump := c.emitJump(machine.OpJump)
	c.patchJump(thenJump)
	c.emitOp(machine.OpPop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.consume(token.LPAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RPAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(machine.OpJumpIfFalse)
	c.emitOp(machine.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(machine.OpPop)
}

// forStatement desugars `for (init; cond; incr) body;` into the initializer
// followed by a while loop whose body is `{ body; incr; }`, exactly the
// transformation the language's reference semantics specify: it never
// introduces a distinct FOR opcode.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LPAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMI):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.match(token.SEMI) {
		c.expression()
		c.consume(token.SEMI, "Expect ';' after loop condition.")
		exitJump = c.emitJump(machine.OpJumpIfFalse)
		c.emitOp(machine.OpPop)
	}

	if !c.match(token.RPAREN) {
		bodyJump := c.emitJump(machine.OpJump)
		incrStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(machine.OpPop)
		c.consume(token.RPAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(machine.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.fc.kind == FuncScript {
		c.error("Can't return from top-level code.")
	}
	switch {
	case c.match(token.SEMI):
		c.emitReturn()
	default:
		if c.fc.kind == FuncInitializer {
			c.error("Can't return a value from an initializer.")
		}
		c.expression()
		c.consume(token.SEMI, "Expect ';' after return value.")
		c.emitOp(machine.OpReturn)
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(machine.OpNil)
	}
	c.consume(token.SEMI, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// parseVariable consumes an identifier, declares it as a local if inside a
// scope, and returns the constant-pool index for its name (meaningful only
// for globals; defineVariable ignores it for locals).
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(token.IDENT, errMsg)
	name := c.lexeme(c.previous)
	c.declareVariable(name)
	if c.fc.scopeDepth > 0 {
		return 0
	}
	return c.makeConstant(machine.FromObj(c.vm.InternString(name)))
}

func (c *Compiler) defineVariable(global byte) {
	if c.fc.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(machine.OpDefineGlobal, global)
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.markInitialized()
	c.function(FuncFunction)
	c.defineVariable(global)
}

// function compiles one function body (parameter list plus block) as a new
// nested funcCompiler, then emits a CLOSURE instruction in the enclosing
// function referencing the compiled function as a constant, followed by
// the (isLocal, index) pair for each of its upvalues.
func (c *Compiler) function(kind FuncKind) {
	name := c.lexeme(c.previous)
	c.pushFunc(kind, name)
	c.beginScope()

	c.consume(token.LPAREN, "Expect '(' after function name.")
	if !c.check(token.RPAREN) {
		for {
			c.fc.fn.Arity++
			if c.fc.fn.Arity > maxArity {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := c.parseVariable("Expect parameter name.")
			c.defineVariable(constant)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RPAREN, "Expect ')' after parameters.")
	c.consume(token.LBRACE, "Expect '{' before function body.")
	c.block()

	fc := c.fc
	fn := c.endFunc()
	c.emitOpByte(machine.OpClosure, c.makeConstant(machine.FromObj(fn)))
	for i := 0; i < fn.UpvalueCount; i++ {
		up := fc.upvalues[i]
		if up.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(up.index)
	}
}

func (c *Compiler) method() {
	c.consume(token.IDENT, "Expect method name.")
	name := c.lexeme(c.previous)
	constant := c.makeConstant(machine.FromObj(c.vm.InternString(name)))

	kind := FuncMethod
	if name == "init" {
		kind = FuncInitializer
	}
	c.function(kind)
	c.emitOpByte(machine.OpMethod, constant)
}

// classDeclaration compiles `class Name [< Super] { methods... }`. If there
// is a superclass, a synthetic local named "super" is declared in a scope
// wrapping the method bodies, so `super.m` can resolve it like any other
// captured variable; that scope is closed again once the methods are
// compiled. `this` needs no such scope here: function() already reserves
// local slot 0 for it inside each method's own funcCompiler.
func (c *Compiler) classDeclaration() {
	c.consume(token.IDENT, "Expect class name.")
	className := c.previous
	nameConstant := c.makeConstant(machine.FromObj(c.vm.InternString(c.lexeme(className))))
	c.declareVariable(c.lexeme(className))

	c.emitOpByte(machine.OpClass, nameConstant)
	c.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: c.cc}
	c.cc = cc

	if c.match(token.LT) {
		c.consume(token.IDENT, "Expect superclass name.")
		c.variable(false)
		if c.lexeme(className) == c.lexeme(c.previous) {
			c.error("A class can't inherit from itself.")
		}

		c.beginScope()
		c.addLocal("super")
		c.defineVariable(0)

		c.namedVariable(c.lexeme(className), false)
		c.emitOp(machine.OpInherit)
		cc.hasSuperclass = true
	}

	c.namedVariable(c.lexeme(className), false)
	c.consume(token.LBRACE, "Expect '{' before class body.")
	for !c.check(token.RBRACE) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RBRACE, "Expect '}' after class body.")
	c.emitOp(machine.OpPop)

	if cc.hasSuperclass {
		c.endScope()
	}
	c.cc = c.cc.enclosing
}
