package mutators

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/internal/siterand"
)

func fnCtx(source string, span, body m.Span, vis m.Visibility, kind m.FnKind, hasAssembly bool) m.MutationContext {
	return m.MutationContext{
		Span:   span,
		Source: source,
		Path:   "src/Lib.sol",
		Fn: &m.FnInfo{
			BodySpan:    body,
			HasAssembly: hasAssembly,
			Visibility:  vis,
			Kind:        kind,
		},
	}
}

const entrySource = "function f() external { assembly {} }"

func entryCtx(vis m.Visibility, kind m.FnKind, hasAssembly bool) m.MutationContext {
	return fnCtx(entrySource, m.Span{Lo: 0, Hi: 37}, m.Span{Lo: 23, Hi: 36}, vis, kind, hasAssembly)
}

func TestEntryInjection_Eligibility(t *testing.T) {
	tests := []struct {
		name     string
		ctx      m.MutationContext
		eligible bool
	}{
		{"external with assembly", entryCtx(m.VisibilityExternal, m.FnKindFunction, true), true},
		{"external without assembly", entryCtx(m.VisibilityExternal, m.FnKindFunction, false), false},
		{"public", entryCtx(m.VisibilityPublic, m.FnKindFunction, true), false},
		{"internal", entryCtx(m.VisibilityInternal, m.FnKindFunction, true), false},
		{"private", entryCtx(m.VisibilityPrivate, m.FnKindFunction, true), false},
		{"constructor", entryCtx(m.VisibilityInternal, m.FnKindConstructor, true), false},
		{"modifier", entryCtx(m.VisibilityInternal, m.FnKindModifier, true), false},
		{"receive", entryCtx(m.VisibilityExternal, m.FnKindReceive, true), false},
		{"fallback", entryCtx(m.VisibilityExternal, m.FnKindFallback, true), false},
		{"expression context", m.MutationContext{Expr: &m.ExprInfo{Kind: m.ExprBinary, Op: "+"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.eligible, BrutalizeMemory{}.IsApplicable(tt.ctx))
			require.Equal(t, tt.eligible, MisalignFMP{}.IsApplicable(tt.ctx))
		})
	}
}

func TestBrutalizeMemory_InjectsFourWords(t *testing.T) {
	ctx := entryCtx(m.VisibilityExternal, m.FnKindFunction, true)

	mutants, err := BrutalizeMemory{}.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, mutants, 1)

	mutant := mutants[0]
	require.True(t, mutant.Span.IsInsertion())
	require.Equal(t, ctx.Fn.BodySpan.Lo, mutant.Span.Lo)

	injected := mutant.Mutation.Text()
	require.Contains(t, injected, "mstore(0x00,")
	require.Contains(t, injected, "mstore(0x20,")
	require.Contains(t, injected, "mload(0x40)")

	for _, word := range siterand.Words(ctx.Span, 4) {
		require.Contains(t, injected, word)
	}
}

func TestBrutalizeMemory_AppliedAtBodyEntry(t *testing.T) {
	ctx := entryCtx(m.VisibilityExternal, m.FnKindFunction, true)

	mutants, err := BrutalizeMemory{}.Generate(ctx)
	require.NoError(t, err)

	mutated := mutants[0].Apply(entrySource)
	require.True(t, strings.HasPrefix(mutated, "function f() external { assembly { mstore(0x00,"))
	require.True(t, strings.HasSuffix(mutated, " assembly {} }"))
}

func TestMisalignFMP_InjectsOddOffset(t *testing.T) {
	ctx := entryCtx(m.VisibilityExternal, m.FnKindFunction, true)

	mutants, err := MisalignFMP{}.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, mutants, 1)

	mutant := mutants[0]
	require.True(t, mutant.Span.IsInsertion())
	require.Equal(t, ctx.Fn.BodySpan.Lo, mutant.Span.Lo)

	offset := siterand.FMPOffset(ctx.Span)
	require.Equal(t,
		fmt.Sprintf(" assembly { mstore(0x40, add(mload(0x40), %d)) }", offset),
		mutant.Mutation.Text(),
	)
}

func TestEntryInjection_RejectsIneligibleFunction(t *testing.T) {
	ctx := entryCtx(m.VisibilityPublic, m.FnKindFunction, true)

	_, err := BrutalizeMemory{}.Generate(ctx)
	require.Error(t, err)

	_, err = MisalignFMP{}.Generate(ctx)
	require.Error(t, err)
}
