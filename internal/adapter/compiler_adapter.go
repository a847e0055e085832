package adapter

import (
	"bytes"
	"context"
	"os/exec"

	m "smite.dev/pkg/smite/internal/model"
)

// CompilerAdapter abstracts the compiler toolchain. A compile failure for a
// mutated snapshot is expected and surfaces as the returned error together
// with the compiler output; the pipeline turns it into an Invalid outcome.
type CompilerAdapter interface {
	Compile(ctx context.Context, projectRoot m.Path) (output string, err error)
}

// ForgeCompilerAdapter compiles a project by shelling out to `forge build`.
type ForgeCompilerAdapter struct{}

// NewForgeCompilerAdapter constructs a ForgeCompilerAdapter.
func NewForgeCompilerAdapter() *ForgeCompilerAdapter {
	return &ForgeCompilerAdapter{}
}

// Compile runs `forge build` in the project root.
func (a *ForgeCompilerAdapter) Compile(ctx context.Context, projectRoot m.Path) (string, error) {
	cmd := exec.CommandContext(ctx, "forge", "build")
	cmd.Dir = string(projectRoot)

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()

	return combined.String(), err
}
