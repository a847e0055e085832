// Package controller provides output adapters for displaying mutation
// testing progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	m "smite.dev/pkg/smite/internal/model"
)

// UI is the interface the run pipeline reports through. Implementations can
// use different output methods (plain text, TUI, JSON).
type UI interface {
	Start(ctx context.Context) error
	Progress(done, total uint64)
	Close(ctx context.Context)
	DisplayMutants(mutants []m.Mutant) error
	DisplayRunReport(report m.RunReport, survived []m.Result) error
}

// IsTTY reports whether the given file is attached to a terminal. The
// interactive progress display is only offered on terminals.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
