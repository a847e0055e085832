package mutators

import (
	"fmt"

	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/internal/siterand"
)

// BrutalizeMemory injects assembly at the entry of an eligible function body
// that overwrites the two scratch words (0x00, 0x20) and the two words at
// the free memory pointer with span-derived pseudo-random values. Low-level
// code that assumes freshly zeroed scratch or allocator memory diverges.
type BrutalizeMemory struct{}

// Name returns the catalog name.
func (BrutalizeMemory) Name() string { return "brutalize-memory" }

// IsApplicable reports whether the context is an external function with
// inline assembly. See entryEligible for the call-boundary reasoning.
func (BrutalizeMemory) IsApplicable(ctx m.MutationContext) bool {
	return ctx.Fn != nil && entryEligible(ctx.Fn)
}

// Generate produces a single insertion at the first byte of the body.
func (bm BrutalizeMemory) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	fn, err := fnNode(bm.Name(), ctx)
	if err != nil {
		return nil, err
	}

	if !entryEligible(fn) {
		return nil, fmt.Errorf("mutator %s: function at %s:%d is not entry-eligible", bm.Name(), ctx.Path, ctx.Span.Lo)
	}

	words := siterand.Words(ctx.Span, 4)
	injected := fmt.Sprintf(
		" assembly { mstore(0x00, %s) mstore(0x20, %s) let fmp_ := mload(0x40) mstore(fmp_, %s) mstore(add(fmp_, 0x20), %s) }",
		words[0], words[1], words[2], words[3],
	)

	mutant := ctx.NewMutant(entrySpan(fn), m.BrutalizeMemory{InjectedAssembly: injected})

	return []m.Mutant{mutant}, nil
}
