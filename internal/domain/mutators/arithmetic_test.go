package mutators

import (
	"testing"

	"github.com/stretchr/testify/require"
	m "smite.dev/pkg/smite/internal/model"
)

func binaryCtx(source, op string, lo uint32) m.MutationContext {
	return m.MutationContext{
		Span:   m.Span{Lo: lo, Hi: lo + uint32(len(op))},
		Source: source,
		Path:   "src/Math.sol",
		Expr:   &m.ExprInfo{Kind: m.ExprBinary, Op: op},
	}
}

func TestArithmetic_IsApplicable(t *testing.T) {
	source := "a + b"

	require.True(t, Arithmetic{}.IsApplicable(binaryCtx(source, "+", 2)))
	require.False(t, Arithmetic{}.IsApplicable(binaryCtx("a < b", "<", 2)))
	require.False(t, Arithmetic{}.IsApplicable(m.MutationContext{Fn: &m.FnInfo{}}))
}

func TestArithmetic_GeneratesAllSiblings(t *testing.T) {
	ctx := binaryCtx("a * b", "*", 2)

	mutants, err := Arithmetic{}.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, mutants, 4)

	var replacements []string
	for _, mutant := range mutants {
		require.Equal(t, m.MutationArithmetic, mutant.Mutation.Kind())
		require.Equal(t, ctx.Span, mutant.Span)
		require.Equal(t, "*", mutant.Original)
		replacements = append(replacements, mutant.Mutation.Text())
	}

	require.Equal(t, []string{"+", "-", "/", "%"}, replacements)
}

func TestArithmetic_MutantCarriesLocation(t *testing.T) {
	source := "contract C {\n    uint x = a % b;\n}"
	ctx := binaryCtx(source, "%", 28)

	mutants, err := Arithmetic{}.Generate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, mutants)

	require.Equal(t, 2, mutants[0].Line)
	require.Equal(t, 16, mutants[0].Column)
	require.Equal(t, "    uint x = a % b;", mutants[0].SourceLine)
}

func TestArithmetic_RejectsFunctionContext(t *testing.T) {
	_, err := Arithmetic{}.Generate(m.MutationContext{Path: "src/Math.sol", Fn: &m.FnInfo{}})
	require.Error(t, err)
}
