package mutators

import (
	"fmt"
	"strconv"
	"strings"

	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/internal/siterand"
)

// Brutalizer XORs the argument of an explicit type conversion with a
// per-site mask inside a same-width wrapper, then re-narrows to the original
// target type. Code that masks narrow values itself is unaffected; code that
// trusts the caller to have pre-masked diverges and gets killed.
//
// Inspired by Solady's Brutalizer: the unused high/low bits of
// narrower-than-word values are dirtied at the source level.
type Brutalizer struct{}

// Name returns the catalog name.
func (Brutalizer) Name() string { return "brutalizer" }

// IsApplicable reports whether the context is a cast whose target type has
// unused bits: address, uintN/intN with N < 256, or bytesN with N < 32.
// Booleans, full-width types, dynamic bytes/string and fixed-point types are
// excluded.
func (Brutalizer) IsApplicable(ctx m.MutationContext) bool {
	if ctx.Expr == nil || ctx.Expr.Kind != m.ExprCast {
		return false
	}

	_, ok := brutalizeWrapper(ctx.Expr.Callee)

	return ok
}

// Generate produces a single mutant rewriting T(arg) into T(W(arg) ^ W(mask))
// with W the word-width wrapper for T's value category.
func (b Brutalizer) Generate(ctx m.MutationContext) ([]m.Mutant, error) {
	expr, err := exprNode(b.Name(), ctx, m.ExprCast)
	if err != nil {
		return nil, err
	}

	wrap, ok := brutalizeWrapper(expr.Callee)
	if !ok {
		return nil, fmt.Errorf("mutator %s: callee %q in %s is not a brutalizable cast", b.Name(), expr.Callee, ctx.Path)
	}

	mask := fmt.Sprintf("0x%x", siterand.Mask(ctx.Span))
	brutalizedArg := wrap(expr.Arg, mask)
	mutatedCall := expr.Callee + "(" + brutalizedArg + ")"

	mutant := ctx.NewMutant(ctx.Span, m.Brutalized{
		ArgIndex:      0,
		OriginalArg:   expr.Arg,
		BrutalizedArg: brutalizedArg,
		MutatedCall:   mutatedCall,
	})

	return []m.Mutant{mutant}, nil
}

// brutalizeWrapper returns the XOR wrapper for a cast target type, or false
// when the target has no unused bits (or is not an elementary value type).
func brutalizeWrapper(callee string) (func(arg, mask string) string, bool) {
	switch {
	case callee == "address":
		return func(arg, mask string) string {
			return "uint160(uint256(" + arg + ") ^ uint256(" + mask + "))"
		}, true

	case strings.HasPrefix(callee, "uint"):
		if bits, ok := typeBits(callee, "uint", 256); ok && bits < 256 {
			return func(arg, mask string) string {
				return "uint256(" + arg + ") ^ uint256(" + mask + ")"
			}, true
		}

	case strings.HasPrefix(callee, "int"):
		if bits, ok := typeBits(callee, "int", 256); ok && bits < 256 {
			return func(arg, mask string) string {
				return "int256(" + arg + ") ^ int256(uint256(" + mask + "))"
			}, true
		}

	case strings.HasPrefix(callee, "bytes"):
		suffix := callee[len("bytes"):]
		if suffix == "" {
			// Dynamic bytes: not a value type.
			return nil, false
		}

		if n, err := strconv.Atoi(suffix); err == nil && n >= 1 && n < 32 {
			return func(arg, mask string) string {
				return "bytes32(" + arg + ") ^ bytes32(uint256(" + mask + "))"
			}, true
		}
	}

	return nil, false
}

// typeBits parses the bit width of an integer type name. A bare "uint" or
// "int" aliases the full word.
func typeBits(callee, prefix string, wordBits int) (int, bool) {
	suffix := callee[len(prefix):]
	if suffix == "" {
		return wordBits, true
	}

	bits, err := strconv.Atoi(suffix)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, false
	}

	return bits, true
}
