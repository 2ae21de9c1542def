package main

import (
	"errors"
	"fmt"
	"os"
)

var errCancelled = errors.New("dialog cancelled")

// exitError carries a process exit code other than 1.
// Quiet errors are reported by the command itself.
type exitError struct {
	code  int
	err   error
	quiet bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	code := 1
	var exit *exitError
	if errors.As(err, &exit) {
		code = exit.code
		if exit.quiet {
			os.Exit(code)
		}
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(code)
}
