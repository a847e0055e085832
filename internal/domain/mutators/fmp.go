package mutators

import (
	"fmt"

	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/internal/siterand"
)

// MisalignFMP injects assembly at the entry of an eligible function body
// that advances the free memory pointer by a deterministic odd offset,
// breaking any assumption that allocations start on a word boundary.
type MisalignFMP struct{}

// Name returns the catalog name.
func (MisalignFMP) Name() string { return "misalign-fmp" }

// IsApplicable mirrors BrutalizeMemory: external functions with assembly.
func (MisalignFMP) IsApplicable(ctx m.MutationContext) bool {
	return ctx.Fn != nil && entryEligible(ctx.Fn)
}

// Generate produces a single insertion at the first byte of the body.
func (mf MisalignFMP) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	fn, err := fnNode(mf.Name(), ctx)
	if err != nil {
		return nil, err
	}

	if !entryEligible(fn) {
		return nil, fmt.Errorf("mutator %s: function at %s:%d is not entry-eligible", mf.Name(), ctx.Path, ctx.Span.Lo)
	}

	injected := fmt.Sprintf(
		" assembly { mstore(0x40, add(mload(0x40), %d)) }",
		siterand.FMPOffset(ctx.Span),
	)

	mutant := ctx.NewMutant(entrySpan(fn), m.MisalignFreeMemoryPointer{InjectedAssembly: injected})

	return []m.Mutant{mutant}, nil
}
