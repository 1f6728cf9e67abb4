package compiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/machine"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	vm := machine.New(&out)
	fn, diags := compiler.Compile(vm, src)
	require.Empty(t, diags, "unexpected diagnostics")
	require.NotNil(t, fn)
	require.NoError(t, vm.Interpret(fn))
	return out.String()
}

func TestArithmeticAndGrouping(t *testing.T) {
	require.Equal(t, "-9\n", run(t, `print -(1 + 2) * 3;`))
}

func TestStringConcatAndEquality(t *testing.T) {
	out := run(t, `var a = "hi"; var b = "h" + "i"; print a == b;`)
	require.Equal(t, "true\n", out)
}

func TestClosuresCaptureByReference(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun c() {
    i = i + 1;
    return i;
  }
  return c;
}
var c = makeCounter();
print c();
print c();
`
	require.Equal(t, "1\n2\n", run(t, src))
}

func TestInheritanceAndSuper(t *testing.T) {
	src := `
class A {
  m() { print "A"; }
}
class B < A {
  m() { super.m(); print "B"; }
}
B().m();
`
	require.Equal(t, "A\nB\n", run(t, src))
}

func TestInitializerReturnsInstance(t *testing.T) {
	src := `
class P {
  init(x) { this.x = x; }
}
print P(7).x;
`
	require.Equal(t, "7\n", run(t, src))
}

func TestAndOrShortCircuit(t *testing.T) {
	require.Equal(t, "false\n", run(t, `print false and sideEffect();`))
	require.Equal(t, "true\n", run(t, `print true or sideEffect();`))
}

func TestForLoopDesugaring(t *testing.T) {
	src := `
var out = "";
for (var i = 0; i < 3; i = i + 1) {
  print i;
}
`
	require.Equal(t, "0\n1\n2\n", run(t, src))
}

func TestRuntimeErrorStackTrace(t *testing.T) {
	var out bytes.Buffer
	vm := machine.New(&out)
	fn, diags := compiler.Compile(vm, `fun a(){ b(); } fun b(){ 1+"x"; } a();`)
	require.Empty(t, diags)
	err := vm.Interpret(fn)
	require.Error(t, err)
	re, ok := err.(*machine.RuntimeError)
	require.True(t, ok)
	require.Contains(t, re.Error(), "Operands must be two numbers or two strings.")
	require.True(t, strings.Contains(re.Error(), "in b()"))
	require.True(t, strings.Contains(re.Error(), "in a()"))
	require.True(t, strings.Contains(re.Error(), "in script"))
}

func TestCompileErrorsReportLineAndLexeme(t *testing.T) {
	vm := machine.New(&bytes.Buffer{})
	_, diags := compiler.Compile(vm, `var 1 = 2;`)
	require.NotEmpty(t, diags)
	require.Equal(t, 1, diags[0].Line)
	require.Equal(t, "1", diags[0].Lexeme)
}

func TestRedeclarationInSameScopeIsError(t *testing.T) {
	vm := machine.New(&bytes.Buffer{})
	_, diags := compiler.Compile(vm, `{ var a = 1; var a = 2; }`)
	require.NotEmpty(t, diags)
}

func TestReturnAtTopLevelIsError(t *testing.T) {
	vm := machine.New(&bytes.Buffer{})
	_, diags := compiler.Compile(vm, `return 1;`)
	require.NotEmpty(t, diags)
}
