package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/ember/internal/maincmd"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func runFile(t *testing.T, src string) (int, string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.ember")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))

	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"ember", path}, mainer.Stdio{
		Stdin:  &bytes.Buffer{},
		Stdout: &out,
		Stderr: &errOut,
	})
	return int(code), out.String(), errOut.String()
}

func TestRunFileSuccess(t *testing.T) {
	code, out, errOut := runFile(t, `print 1 + 2;`)
	require.Equal(t, int(maincmd.ExitSuccess), code)
	require.Equal(t, "3\n", out)
	require.Empty(t, errOut)
}

func TestRunFileCompileError(t *testing.T) {
	code, _, errOut := runFile(t, `var 1 = 2;`)
	require.Equal(t, int(maincmd.ExitDataErr), code)
	require.Contains(t, errOut, "Error")
}

func TestRunFileRuntimeError(t *testing.T) {
	code, _, errOut := runFile(t, `1 + "x";`)
	require.Equal(t, int(maincmd.ExitSoftware), code)
	require.Contains(t, errOut, "Operands must be two numbers or two strings.")
}

func TestRunFileIOError(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"ember", "/no/such/file.ember"}, mainer.Stdio{
		Stdin:  &bytes.Buffer{},
		Stdout: &out,
		Stderr: &errOut,
	})
	require.Equal(t, int(maincmd.ExitIOErr), code)
}

func TestUsageErrorOnTooManyArgs(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	code := c.Main([]string{"ember", "a.ember", "b.ember"}, mainer.Stdio{
		Stdin:  &bytes.Buffer{},
		Stdout: &out,
		Stderr: &errOut,
	})
	require.Equal(t, int(maincmd.ExitUsage), code)
}

func TestReplRunsEachLine(t *testing.T) {
	var out, errOut bytes.Buffer
	c := maincmd.Cmd{}
	in := bytes.NewBufferString("print 1 + 1;\nprint \"hi\";\n")
	code := c.Main([]string{"ember"}, mainer.Stdio{
		Stdin:  in,
		Stdout: &out,
		Stderr: &errOut,
	})
	require.Equal(t, int(maincmd.ExitSuccess), code)
	require.Contains(t, out.String(), "2\n")
	require.Contains(t, out.String(), "hi\n")
	require.Empty(t, errOut.String())
}
