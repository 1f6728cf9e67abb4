// Package compiler implements a single-pass Pratt parser that compiles
// source text directly to bytecode: there is no intermediate AST. Tokens
// flow from the scanner through parsePrecedence straight into the active
// function's Chunk.
package compiler

import (
	"fmt"

	"github.com/mna/ember/lang/machine"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
)

// FuncKind distinguishes the four syntactic contexts a compiled function
// body can appear in; it changes what slot 0 means and what `return` is
// allowed to do.
type FuncKind int

const (
	FuncScript FuncKind = iota
	FuncFunction
	FuncMethod
	FuncInitializer
)

const maxLocals = 256
const maxArity = 255

// local is a declared local variable's compile-time bookkeeping.
type local struct {
	name       string
	depth      int // -1 means declared but not yet initialized
	isCaptured bool
}

// upvalueRef records where a nested function's upvalue slot comes from: a
// local of the immediately enclosing function (isLocal true) or an upvalue
// of that enclosing function (isLocal false, recursing outward).
type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcCompiler holds the compile-time state for one function body currently
// being compiled. funcCompilers form a linked stack, one per level of
// lexical nesting, mirroring how the language itself nests function
// definitions.
type funcCompiler struct {
	enclosing *funcCompiler

	fn   *machine.ObjFunction
	kind FuncKind

	locals     [maxLocals]local
	localCount int
	scopeDepth int

	upvalues [maxLocals]upvalueRef
}

// classCompiler tracks the class currently being compiled, so `this`,
// `super` and method compilation can validate against the right context.
// classCompilers form their own linked stack, since a class can be declared
// lexically nested inside a function nested inside a method body.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// Compiler drives the parse. It owns the scanner, the current and previous
// tokens, the panic-mode/error-reported flags, and the current funcCompiler
// and classCompiler stacks.
type Compiler struct {
	vm  *machine.VM
	src string
	s   *scanner.Scanner

	current  scanner.Token
	previous scanner.Token

	hadError  bool
	panicMode bool
	onError   func(Diagnostic)

	fc *funcCompiler
	cc *classCompiler
}

// Diagnostic is one compile-time error, in the format the driver prints to
// standard error.
type Diagnostic struct {
	Line    int
	Lexeme  string
	AtEnd   bool
	Message string
}

func (d Diagnostic) String() string {
	where := fmt.Sprintf("at '%s'", d.Lexeme)
	if d.AtEnd {
		where = "at end"
	}
	return fmt.Sprintf("[line %d] Error %s: %s", d.Line, where, d.Message)
}

// Compile compiles src into a top-level script function ready to be wrapped
// in a closure and run, or returns the diagnostics gathered while parsing.
// It never returns both: a successful compile has no diagnostics, and a
// failed one returns a nil function.
func Compile(vm *machine.VM, src string) (*machine.ObjFunction, []Diagnostic) {
	c := &Compiler{vm: vm, src: src, s: scanner.New(src)}
	var diags []Diagnostic
	c.onError = func(d Diagnostic) { diags = append(diags, d) }

	c.pushFunc(FuncScript, "")
	c.advance()

	for !c.match(token.EOF) {
		c.declaration()
	}

	fn := c.endFunc()
	if c.hadError {
		return nil, diags
	}
	return fn, nil
}

func (c *Compiler) pushFunc(kind FuncKind, name string) {
	fn := c.vm.NewFunction()
	if name != "" {
		fn.Name = c.vm.InternString(name)
	}
	c.vm.PushCompilerRoot(fn)

	fcomp := &funcCompiler{enclosing: c.fc, fn: fn, kind: kind}
	// Slot 0 is reserved: named "this" for methods/initializers so that
	// resolveLocal can find it, empty (unreachable by name) otherwise.
	slot0 := &fcomp.locals[0]
	slot0.depth = 0
	if kind == FuncMethod || kind == FuncInitializer {
		slot0.name = "this"
	}
	fcomp.localCount = 1
	c.fc = fcomp
}

// endFunc closes out the current funcCompiler, appending the implicit
// return every function gets (of nil, or of slot 0 for an initializer), and
// restores the enclosing one.
func (c *Compiler) endFunc() *machine.ObjFunction {
	c.emitReturn()
	fn := c.fc.fn
	c.vm.PopCompilerRoot()
	c.fc = c.fc.enclosing
	return fn
}
