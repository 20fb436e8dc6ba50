package dyncache

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
)

// Hasher decides which keys are considered the same by a cache.
// Keys that are Equal must have the same Hash.
//
// Hasher is useful when the built-in equality of K is too strict, for example to treat
// differently-cased strings as one key.
type Hasher[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

type stringHasher struct{}

// StringHasher returns a Hasher that hashes strings with xxhash and compares them byte-wise.
func StringHasher() Hasher[string] {
	return stringHasher{}
}

func (stringHasher) Hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

func (stringHasher) Equal(a, b string) bool {
	return a == b
}

type foldedStringHasher struct{}

// FoldedStringHasher returns a Hasher that treats strings equal under Unicode case folding as the same key.
func FoldedStringHasher() Hasher[string] {
	return foldedStringHasher{}
}

// cases.Caser is stateful, so a fresh one is made for each call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// hashLowerASCII hashes the lower-cased s without allocating.
func hashLowerASCII(s string) uint64 {
	var (
		d   xxhash.Digest
		buf [64]byte
	)
	d.Reset()
	for len(s) > 0 {
		n := copy(buf[:], s)
		for i := 0; i < n; i++ {
			if 'A' <= buf[i] && buf[i] <= 'Z' {
				buf[i] += 'a' - 'A'
			}
		}
		_, _ = d.Write(buf[:n])
		s = s[n:]
	}
	return d.Sum64()
}

// Case folding of ASCII text is plain lower-casing, so ASCII keys skip the allocating Caser.
// Non-ASCII text may fold into ASCII (e.g. 'ſ' into 's'), so it always goes through the Caser.
func (foldedStringHasher) Hash(key string) uint64 {
	if isASCII(key) {
		return hashLowerASCII(key)
	}
	return hashLowerASCII(fold(key))
}

func (foldedStringHasher) Equal(a, b string) bool {
	if a == b {
		return true
	}
	if isASCII(a) && isASCII(b) {
		return strings.EqualFold(a, b)
	}
	return fold(a) == fold(b)
}
