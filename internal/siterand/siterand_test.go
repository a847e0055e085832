package siterand

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	m "smite.dev/pkg/smite/internal/model"
)

func TestSpanSeed_Deterministic(t *testing.T) {
	span := m.Span{Lo: 120, Hi: 135}

	require.Equal(t, SpanSeed(span), SpanSeed(span))
}

func TestSpanSeed_DistinctSpansDiffer(t *testing.T) {
	seeds := map[uint64]m.Span{}

	for lo := uint32(0); lo < 50; lo++ {
		for hi := lo; hi < lo+50; hi++ {
			span := m.Span{Lo: lo, Hi: hi}
			seed := SpanSeed(span)

			if prev, ok := seeds[seed]; ok {
				t.Fatalf("seed collision between %v and %v", prev, span)
			}

			seeds[seed] = span
		}
	}
}

func TestSpanSeed_NotOffsetSymmetric(t *testing.T) {
	// Swapping Lo and Hi must not produce the same seed.
	require.NotEqual(t, SpanSeed(m.Span{Lo: 3, Hi: 7}), SpanSeed(m.Span{Lo: 7, Hi: 3}))
}

func TestMask_NeverZero(t *testing.T) {
	for lo := uint32(0); lo < 2000; lo += 7 {
		span := m.Span{Lo: lo, Hi: lo + 13}

		require.NotZero(t, Mask(span))
	}
}

func TestFMPOffset_OddAndBounded(t *testing.T) {
	for lo := uint32(0); lo < 2000; lo += 3 {
		span := m.Span{Lo: lo, Hi: lo + 5}
		offset := FMPOffset(span)

		require.Equal(t, uint64(1), offset%2, "offset must be odd for span %v", span)
		require.GreaterOrEqual(t, offset, uint64(1))
		require.LessOrEqual(t, offset, uint64(31))
	}
}

func TestWords_FormatAndDeterminism(t *testing.T) {
	span := m.Span{Lo: 42, Hi: 99}

	words := Words(span, 4)
	require.Len(t, words, 4)

	for _, word := range words {
		require.True(t, strings.HasPrefix(word, "0x"))
		require.Len(t, word, 2+64, "each word is a 256-bit hex literal")
	}

	require.Equal(t, words, Words(span, 4))
}

func TestWords_StreamAdvances(t *testing.T) {
	span := m.Span{Lo: 1, Hi: 2}

	words := Words(span, 4)

	seen := map[string]bool{}
	for _, word := range words {
		require.False(t, seen[word], "stream repeated word %s", word)

		seen[word] = true
	}
}
