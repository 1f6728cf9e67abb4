package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/machine"
	"github.com/mna/mainer"
)

// runFile reads path, compiles it, and runs it to completion, translating
// the outcome into the exit code the driver is specified to return. debug,
// when true, turns on the VM's instruction tracer. ctx is checked once,
// before compiling, since this is the only point before Interpret runs
// where cancellation can still be honored for a file run to completion.
func runFile(ctx context.Context, stdio mainer.Stdio, path string, debug bool) mainer.ExitCode {
	select {
	case <-ctx.Done():
		return ExitSuccess
	default:
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return ExitIOErr
	}

	vm := machine.New(stdio.Stdout)
	vm.TraceExecution = debug
	fn, diags := compiler.Compile(vm, string(src))
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(stdio.Stderr, d.String())
		}
		return ExitDataErr
	}

	if err := vm.Interpret(fn); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return ExitSoftware
	}
	return ExitSuccess
}
