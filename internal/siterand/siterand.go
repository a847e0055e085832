// Package siterand derives reproducible pseudo-random values from source
// spans. Mutators use it wherever they need bytes that differ per site but
// are identical across runs, so generation stays parallel-safe without a
// shared PRNG.
package siterand

import (
	"fmt"

	m "smite.dev/pkg/smite/internal/model"
)

const (
	// Golden-ratio multiplier and a second fixed odd constant for combining
	// the span offsets.
	seedLoMul = 0x9e3779b97f4a7c15
	seedHiMul = 0xc2b2ae3d27d4eb4f

	// splitmix64 avalanche constants.
	mixMulA = 0xbf58476d1ce4e5b9
	mixMulB = 0x94d049bb133111eb
)

// mix64 is the splitmix64 finalizer: three xor-shift/multiply rounds. A
// single-bit change in the input flips roughly half the output bits.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= mixMulA
	x ^= x >> 27
	x *= mixMulB
	x ^= x >> 31

	return x
}

// SpanSeed derives a 64-bit value from the span's byte offsets. Equal spans
// always produce equal seeds; distinct spans are overwhelmingly likely to
// differ.
func SpanSeed(span m.Span) uint64 {
	return mix64(uint64(span.Lo)*seedLoMul ^ uint64(span.Hi)*seedHiMul)
}

// Mask returns a non-zero 64-bit XOR mask for the span. A zero mask would
// make value brutalization a no-op, so zero is remapped to 1.
func Mask(span m.Span) uint64 {
	seed := SpanSeed(span)
	if seed == 0 {
		return 1
	}

	return seed
}

// FMPOffset returns an odd byte offset in [1,31] for the span. Odd offsets
// are never 32-byte aligned.
func FMPOffset(span m.Span) uint64 {
	return (SpanSeed(span) % 31) | 1
}

// Words returns n 256-bit hex literals for the span. Each word packs four
// 64-bit limbs taken from successive iterations of the splitmix64 stream
// seeded by the span, most significant limb first. Full-width words matter:
// a shorter literal zero-extends in mstore, leaving the high bytes zeroed.
func Words(span m.Span, n int) []string {
	state := SpanSeed(span)

	next := func() uint64 {
		state += seedLoMul
		return mix64(state)
	}

	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		a := next()
		b := next()
		c := next()
		d := next()
		words = append(words, fmt.Sprintf("0x%016x%016x%016x%016x", a, b, c, d))
	}

	return words
}
