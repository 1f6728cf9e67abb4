package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/machine"
	"github.com/mna/mainer"
)

// repl runs the interactive read-eval-print loop: one line in, compiled and
// run immediately, with compile and runtime errors printed but never fatal
// to the loop itself. Matching the reference implementation, a statement
// split across multiple lines is not supported — each line is compiled on
// its own.
func repl(ctx context.Context, stdio mainer.Stdio, debug bool) mainer.ExitCode {
	vm := machine.New(stdio.Stdout)
	vm.TraceExecution = debug
	scanner := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return ExitSuccess
		}

		select {
		case <-ctx.Done():
			return ExitSuccess
		default:
		}

		line := scanner.Text()
		fn, diags := compiler.Compile(vm, line)
		if len(diags) > 0 {
			for _, d := range diags {
				fmt.Fprintln(stdio.Stderr, d.String())
			}
			continue
		}
		if err := vm.Interpret(fn); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}
