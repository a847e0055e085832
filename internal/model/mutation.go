// Package model defines the data structures for mutation testing.
package model

import (
	"encoding/gob"
	"fmt"
)

func init() {
	// Mutants travel through gob-encoded result spills; every variant of the
	// closed Mutation catalog must be registered.
	gob.Register(OperatorReplacement{})
	gob.Register(IncrementSwap{})
	gob.Register(ConditionOverride{})
	gob.Register(Brutalized{})
	gob.Register(BrutalizeMemory{})
	gob.Register(MisalignFreeMemoryPointer{})
}

// MutationKind represents the category of mutation.
type MutationKind string

// Available MutationKind values. The catalog is closed at build time.
const (
	// MutationArithmetic replaces an arithmetic operator with a sibling.
	MutationArithmetic MutationKind = "arithmetic"
	// MutationComparison replaces a relational operator with an adjacent one.
	MutationComparison MutationKind = "comparison"
	// MutationIncrement swaps increment/decrement forms (x++ <-> ++x, x--).
	MutationIncrement MutationKind = "increment"
	// MutationGuard replaces a guard condition with a boolean literal.
	MutationGuard MutationKind = "guard"
	// MutationBrutalized XORs a type-cast argument with a per-site mask.
	MutationBrutalized MutationKind = "brutalized"
	// MutationBrutalizeMemory poisons scratch memory at function entry.
	MutationBrutalizeMemory MutationKind = "brutalize-memory"
	// MutationMisalignFMP misaligns the free memory pointer at function entry.
	MutationMisalignFMP MutationKind = "misalign-fmp"
)

// Mutation is one concrete source rewrite. Implementations form a closed
// tagged-variant set; Text is the replacement for the mutant's span.
type Mutation interface {
	Kind() MutationKind
	Text() string
}

// OperatorReplacement swaps one binary operator for another. It backs both
// the arithmetic and comparison catalog entries.
type OperatorReplacement struct {
	Category MutationKind
	From     string
	To       string
}

// Kind returns the catalog category of the replacement.
func (o OperatorReplacement) Kind() MutationKind { return o.Category }

// Text returns the replacement operator.
func (o OperatorReplacement) Text() string { return o.To }

// IncrementSwap rewrites an increment/decrement expression, e.g. "x++" into
// "++x" or "x--".
type IncrementSwap struct {
	From string
	To   string
}

// Kind returns MutationIncrement.
func (i IncrementSwap) Kind() MutationKind { return MutationIncrement }

// Text returns the rewritten expression.
func (i IncrementSwap) Text() string { return i.To }

// ConditionOverride replaces a guard condition with a boolean literal.
type ConditionOverride struct {
	Literal string
}

// Kind returns MutationGuard.
func (c ConditionOverride) Kind() MutationKind { return MutationGuard }

// Text returns the literal.
func (c ConditionOverride) Text() string { return c.Literal }

// Brutalized XORs the argument of an explicit type conversion with a
// deterministic per-site mask before re-narrowing to the original type.
type Brutalized struct {
	ArgIndex      int
	OriginalArg   string
	BrutalizedArg string
	MutatedCall   string
}

// Kind returns MutationBrutalized.
func (b Brutalized) Kind() MutationKind { return MutationBrutalized }

// Text returns the full rewritten call expression.
func (b Brutalized) Text() string { return b.MutatedCall }

// BrutalizeMemory injects assembly at a function entry that overwrites the
// scratch words and the words at the free memory pointer.
type BrutalizeMemory struct {
	InjectedAssembly string
}

// Kind returns MutationBrutalizeMemory.
func (b BrutalizeMemory) Kind() MutationKind { return MutationBrutalizeMemory }

// Text returns the injected assembly block.
func (b BrutalizeMemory) Text() string { return b.InjectedAssembly }

// MisalignFreeMemoryPointer injects assembly at a function entry that bumps
// the free memory pointer by an odd byte offset.
type MisalignFreeMemoryPointer struct {
	InjectedAssembly string
}

// Kind returns MutationMisalignFMP.
func (m MisalignFreeMemoryPointer) Kind() MutationKind { return MutationMisalignFMP }

// Text returns the injected assembly block.
func (m MisalignFreeMemoryPointer) Text() string { return m.InjectedAssembly }

// Mutant is one candidate, minimally-altered version of the source under
// test: a span, the mutation payload, and its source location.
type Mutant struct {
	Span       Span
	Mutation   Mutation
	Path       Path
	Original   string // verbatim original text, empty for pure insertions
	SourceLine string
	Line       int
	Column     int
}

// Key identifies equivalent mutants: same file, same span, same resulting
// text. Used for deduplication.
func (m Mutant) Key() string {
	return fmt.Sprintf("%s:%d:%d:%s", m.Path, m.Span.Lo, m.Span.Hi, m.Mutation.Text())
}

// Apply edits the span of source in a single pass, returning the mutated
// buffer. Apply never modifies the input.
func (m Mutant) Apply(source string) string {
	return source[:m.Span.Lo] + m.Mutation.Text() + source[m.Span.Hi:]
}
