// Package maincmd implements the command-line driver: argument parsing, the
// REPL loop, and file execution, wired to the expected process exit codes.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "ember"

var shortUsage = fmt.Sprintf("usage: %s [script]\n", binName)

var longUsage = fmt.Sprintf(`usage: %s [script]
       %[1]s -h|--help
       %[1]s -v|--version

With no script argument, starts an interactive REPL. With one script
argument, compiles and runs that file. More than one argument is a usage
error.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --debug                   Trace each instruction to stdout as it runs.
`, binName)

// Exit codes follow the BSD sysexits.h conventions the driver is specified
// against: success, a command-line usage error, a file the driver couldn't
// read, a compile-time error, and a runtime error each get their own code
// so scripts invoking this binary can distinguish the failure kind.
const (
	ExitSuccess  = mainer.ExitCode(0)
	ExitUsage    = mainer.ExitCode(64)
	ExitIOErr    = mainer.ExitCode(74)
	ExitDataErr  = mainer.ExitCode(65)
	ExitSoftware = mainer.ExitCode(70)
)

// Cmd is the entry point mainer.Parser populates from argv.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`
	Debug   bool `flag:"debug"`

	args []string
}

func (c *Cmd) SetArgs(args []string)    { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	return nil
}

// Main is the process entry point's sole responsibility: parse argv, pick
// REPL or file-execution mode, and translate the result into an exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return ExitUsage
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return ExitSuccess
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return ExitSuccess
	}

	if len(c.args) > 1 {
		fmt.Fprintf(stdio.Stderr, "%s", shortUsage)
		return ExitUsage
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if len(c.args) == 1 {
		return runFile(ctx, stdio, c.args[0], c.Debug)
	}
	return repl(ctx, stdio, c.Debug)
}
