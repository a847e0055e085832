package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"
	m "smite.dev/pkg/smite/internal/model"
)

const counterSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.13;

contract Counter {
    uint256 public number;

    function setNumber(uint256 newNumber) public {
        require(newNumber < 1000);
        number = newNumber;
    }

    function increment() public {
        number++;
    }
}
`

func spanText(source string, span m.Span) string {
	return source[span.Lo:span.Hi]
}

func contextsByExprKind(contexts []m.MutationContext, kind m.ExprKind) []m.MutationContext {
	var matched []m.MutationContext

	for _, ctx := range contexts {
		if ctx.Expr != nil && ctx.Expr.Kind == kind {
			matched = append(matched, ctx)
		}
	}

	return matched
}

func fnContexts(contexts []m.MutationContext) []m.MutationContext {
	var matched []m.MutationContext

	for _, ctx := range contexts {
		if ctx.Fn != nil {
			matched = append(matched, ctx)
		}
	}

	return matched
}

func TestContexts_Counter(t *testing.T) {
	contexts, err := NewScannerSolFileAdapter().Contexts("src/Counter.sol", counterSource)
	require.NoError(t, err)

	fns := fnContexts(contexts)
	require.Len(t, fns, 2)

	for _, fn := range fns {
		require.Equal(t, m.FnKindFunction, fn.Fn.Kind)
		require.Equal(t, m.VisibilityPublic, fn.Fn.Visibility)
		require.False(t, fn.Fn.HasAssembly)
	}

	conditions := contextsByExprKind(contexts, m.ExprCondition)
	require.Len(t, conditions, 1)
	require.Equal(t, "newNumber < 1000", spanText(counterSource, conditions[0].Span))

	binaries := contextsByExprKind(contexts, m.ExprBinary)
	require.Len(t, binaries, 1)
	require.Equal(t, "<", binaries[0].Expr.Op)
	require.Equal(t, "<", spanText(counterSource, binaries[0].Span))

	incDecs := contextsByExprKind(contexts, m.ExprIncDec)
	require.Len(t, incDecs, 1)
	require.Equal(t, "number++", spanText(counterSource, incDecs[0].Span))
	require.Equal(t, "number", incDecs[0].Expr.Operand)
	require.True(t, incDecs[0].Expr.Postfix)
}

func TestContexts_OrderedAndDeterministic(t *testing.T) {
	a := NewScannerSolFileAdapter()

	first, err := a.Contexts("src/Counter.sol", counterSource)
	require.NoError(t, err)

	second, err := a.Contexts("src/Counter.sol", counterSource)
	require.NoError(t, err)

	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		require.LessOrEqual(t, first[i-1].Span.Lo, first[i].Span.Lo)
	}
}

func TestContexts_PragmaOperatorsIgnored(t *testing.T) {
	source := "pragma solidity >=0.4.22 <0.9.0;\ncontract C {}\n"

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	require.Empty(t, contextsByExprKind(contexts, m.ExprBinary))
}

func TestContexts_CommentsAndStringsMasked(t *testing.T) {
	source := `contract C {
    // a < b inside a comment
    string constant s = "x < y";
    function f(uint256 a, uint256 b) public pure returns (bool) {
        return a < b; /* not this one: > */
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	binaries := contextsByExprKind(contexts, m.ExprBinary)
	require.Len(t, binaries, 1)
	require.Equal(t, "a < b", m.LineAt(source, binaries[0].Span.Lo)[15:20])
}

func TestContexts_CompoundAssignmentNotMutated(t *testing.T) {
	source := `contract C {
    uint256 total;
    function f(uint256 x) public {
        total += x;
        total -= x;
        total *= x;
        total /= x;
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	require.Empty(t, contextsByExprKind(contexts, m.ExprBinary))
}

func TestContexts_UnarySignNotMutated(t *testing.T) {
	source := `contract C {
    function f(int256 x) public pure returns (int256) {
        return -x;
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	require.Empty(t, contextsByExprKind(contexts, m.ExprBinary))
}

func TestContexts_CastExtraction(t *testing.T) {
	source := `contract C {
    function f(uint256 x) public pure returns (uint8) {
        return uint8(x);
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	casts := contextsByExprKind(contexts, m.ExprCast)
	require.Len(t, casts, 1)
	require.Equal(t, "uint8", casts[0].Expr.Callee)
	require.Equal(t, "x", casts[0].Expr.Arg)
	require.Equal(t, "uint8(x)", spanText(source, casts[0].Span))
}

func TestContexts_NestedCasts(t *testing.T) {
	source := `contract C {
    function f(uint256 x) public pure returns (uint8) {
        return uint8(uint64(x));
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	casts := contextsByExprKind(contexts, m.ExprCast)
	require.Len(t, casts, 2)
	require.Equal(t, "uint8", casts[0].Expr.Callee)
	require.Equal(t, "uint64", casts[1].Expr.Callee)
}

func TestContexts_MultiArgCallNotACast(t *testing.T) {
	source := `contract C {
    function f() public pure returns (bytes memory) {
        return bytes.concat(bytes2(0x1234), bytes2(0x5678));
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	casts := contextsByExprKind(contexts, m.ExprCast)
	require.Len(t, casts, 2)

	for _, cast := range casts {
		require.Equal(t, "bytes2", cast.Expr.Callee)
	}
}

func TestContexts_RequireFirstArgumentOnly(t *testing.T) {
	source := `contract C {
    function f(uint256 a, uint256 b) public pure {
        require(a < b, "a must be smaller");
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	conditions := contextsByExprKind(contexts, m.ExprCondition)
	require.Len(t, conditions, 1)
	require.Equal(t, "a < b", spanText(source, conditions[0].Span))
}

func TestContexts_FunctionVisibilityAndAssembly(t *testing.T) {
	source := `contract C {
    function ext() external { assembly { mstore(0x00, 1) } }
    function pub() public {}
    function inte() internal {}
    function priv() private {}
    function legacy() {}
    constructor() {}
    modifier onlyOwner() { _; }
    receive() external payable {}
    fallback() external {}
}

interface I {
    function declared() external;
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	fns := fnContexts(contexts)
	require.Len(t, fns, 9, "the bodiless interface declaration is skipped")

	byKind := map[m.FnKind]int{}
	for _, fn := range fns {
		byKind[fn.Fn.Kind]++
	}

	require.Equal(t, 5, byKind[m.FnKindFunction])
	require.Equal(t, 1, byKind[m.FnKindConstructor])
	require.Equal(t, 1, byKind[m.FnKindModifier])
	require.Equal(t, 1, byKind[m.FnKindReceive])
	require.Equal(t, 1, byKind[m.FnKindFallback])

	ext := fns[0]
	require.Equal(t, m.VisibilityExternal, ext.Fn.Visibility)
	require.True(t, ext.Fn.HasAssembly)

	visibilities := map[m.Visibility]int{}
	for _, fn := range fns {
		if fn.Fn.Kind == m.FnKindFunction {
			visibilities[fn.Fn.Visibility]++
		}
	}

	require.Equal(t, 1, visibilities[m.VisibilityExternal])
	require.Equal(t, 2, visibilities[m.VisibilityPublic], "unannotated legacy functions default to public")
	require.Equal(t, 1, visibilities[m.VisibilityInternal])
	require.Equal(t, 1, visibilities[m.VisibilityPrivate])
}

func TestContexts_BodySpanBraceMatched(t *testing.T) {
	source := `contract C {
    function f() external {
        if (true) { revert(); }
    }
}
`

	contexts, err := NewScannerSolFileAdapter().Contexts("src/C.sol", source)
	require.NoError(t, err)

	fns := fnContexts(contexts)
	require.Len(t, fns, 1)

	body := spanText(source, fns[0].Fn.BodySpan)
	require.Contains(t, body, "if (true) { revert(); }")
	require.NotContains(t, body, "function")
}
