package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutant_Apply(t *testing.T) {
	source := "a < b"

	mutant := Mutant{
		Span:     Span{Lo: 2, Hi: 3},
		Mutation: OperatorReplacement{Category: MutationComparison, From: "<", To: ">="},
	}

	require.Equal(t, "a >= b", mutant.Apply(source))
	require.Equal(t, "a < b", source, "input must not be modified")
}

func TestMutant_ApplyInsertion(t *testing.T) {
	source := "function f() external {\n}"

	mutant := Mutant{
		Span:     Span{Lo: 23, Hi: 23},
		Mutation: MisalignFreeMemoryPointer{InjectedAssembly: " assembly { }"},
	}

	require.Equal(t, "function f() external { assembly { }\n}", mutant.Apply(source))
}

func TestMutant_Key(t *testing.T) {
	a := Mutant{
		Span:     Span{Lo: 2, Hi: 3},
		Path:     "src/A.sol",
		Mutation: OperatorReplacement{Category: MutationComparison, From: "<", To: "<="},
	}
	sameText := Mutant{
		Span:     Span{Lo: 2, Hi: 3},
		Path:     "src/A.sol",
		Mutation: OperatorReplacement{Category: MutationArithmetic, From: "<", To: "<="},
	}
	otherText := Mutant{
		Span:     Span{Lo: 2, Hi: 3},
		Path:     "src/A.sol",
		Mutation: OperatorReplacement{Category: MutationComparison, From: "<", To: ">="},
	}
	otherFile := Mutant{
		Span:     Span{Lo: 2, Hi: 3},
		Path:     "src/B.sol",
		Mutation: OperatorReplacement{Category: MutationComparison, From: "<", To: "<="},
	}

	require.Equal(t, a.Key(), sameText.Key(), "same span and resulting text are equivalent")
	require.NotEqual(t, a.Key(), otherText.Key())
	require.NotEqual(t, a.Key(), otherFile.Key())
}

func TestMutationKinds(t *testing.T) {
	require.Equal(t, MutationBrutalized, Brutalized{}.Kind())
	require.Equal(t, MutationBrutalizeMemory, BrutalizeMemory{}.Kind())
	require.Equal(t, MutationMisalignFMP, MisalignFreeMemoryPointer{}.Kind())
	require.Equal(t, MutationGuard, ConditionOverride{}.Kind())
	require.Equal(t, MutationIncrement, IncrementSwap{}.Kind())
}
