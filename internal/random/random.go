// Package random provides deterministic pseudo-random numbers keyed by an
// explicit seed. The same seed yields the same number on every run and on
// every machine; there is no global generator.
//
// Strings are hashed with the Java-style 31-multiplier hash over UTF-16 code
// units and fed through mulberry32. Changing either changes every shuffle
// order, so both are fixed.
package random

import (
	"math"
	"strconv"
	"unicode/utf16"
)

const twoTo32 = 4294967296.0

// Float returns a number in [0, 1) derived from seed.
func Float(seed string) float64 {
	return mulberry32(float64(hash(seed)))
}

// FromNumber returns a number in [0, 1) derived from a numeric seed.
func FromNumber(seed float64) float64 {
	return mulberry32(seed * 1e10)
}

// Intn returns an integer in [0, n) derived from seed. n must be positive.
func Intn(seed string, n int) int {
	return int(math.Floor(Float(seed) * float64(n)))
}

// Range returns a number in [lo, hi) derived from seed.
func Range(seed string, lo, hi float64) float64 {
	return lo + (hi-lo)*Float(seed)
}

// Shuffle returns a permutation of 0..n-1 using a Fisher-Yates pass keyed
// by seed. Step i draws from seed followed by the decimal index.
func Shuffle(n int, seed string) []int {
	out := make([]int, max(n, 0))
	for i := range out {
		out[i] = i
	}
	for i := len(out) - 1; i > 0; i-- {
		j := int(math.Floor(Float(seed+strconv.Itoa(i)) * float64(i+1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func hash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

func mulberry32(a float64) float64 {
	t := toUint32(a + 0x6d2b79f5)
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / twoTo32
}

// toUint32 truncates x and wraps it modulo 2^32.
func toUint32(x float64) uint32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(x), twoTo32)
	if m < 0 {
		m += twoTo32
	}
	return uint32(m)
}
