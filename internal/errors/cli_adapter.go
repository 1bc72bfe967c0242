package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIAdapter formats a failing command's error chain for terminal output,
// logging the structured form alongside it; without it every command
// would hand-roll its own error printing.
type CLIAdapter struct {
	Verbose bool
	Logger  *slog.Logger
}

// NewCLIAdapter builds a CLIAdapter bound to logger.
func NewCLIAdapter(verbose bool, logger *slog.Logger) *CLIAdapter {
	return &CLIAdapter{Verbose: verbose, Logger: logger}
}

// HandleError prints a one-line summary and (if verbose) the full cause
// chain, logs the error, and exits the process with code 1.
func (a *CLIAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	chain := CauseChain(err)
	fmt.Fprintln(os.Stderr, "error:", chain[0])
	if a.Verbose {
		for _, line := range chain[1:] {
			fmt.Fprintln(os.Stderr, "  caused by:", line)
		}
	}
	if a.Logger != nil {
		a.Logger.Error("command failed", "error", err)
	}
	os.Exit(1)
}
