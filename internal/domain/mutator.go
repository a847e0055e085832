// Package domain contains the core mutation testing pipeline: the mutator
// catalog, the orchestrator and the score computation.
package domain

import (
	"smite.dev/pkg/smite/internal/domain/mutators"
	m "smite.dev/pkg/smite/internal/model"
)

// Mutator is the capability interface every catalog entry implements.
// IsApplicable is a cheap pre-filter; Generate returns the ordered mutants
// for one context and fails only on a walker/mutator contract violation.
type Mutator interface {
	Name() string
	IsApplicable(ctx m.MutationContext) bool
	Generate(ctx m.MutationContext) ([]m.Mutant, error)
}

// DefaultCatalog returns the full mutator catalog in its fixed order. The
// catalog is closed at build time; generation order follows this slice.
func DefaultCatalog() []Mutator {
	return []Mutator{
		mutators.Arithmetic{},
		mutators.Comparison{},
		mutators.Increment{},
		mutators.Guard{},
		mutators.Brutalizer{},
		mutators.BrutalizeMemory{},
		mutators.MisalignFMP{},
	}
}
