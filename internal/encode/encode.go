// Package encode turns raw nucleotide text into the fixed-shape one-hot
// tensor that the classifier consumes.
package encode

import (
	"strings"
	"unicode/utf8"
)

const (
	// Length is the number of positions every encoded genome has.
	Length = 30255

	// Channels is the number of one-hot channels, ordered A, C, G, T.
	Channels = 4
)

// bases is the channel order of the one-hot encoding.
var bases = [Channels]byte{'A', 'C', 'G', 'T'}

// channel maps a base to its one-hot row, -1 for anything unknown.
func channel(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	}
	return -1
}

// Normalize cleans a raw sequence to exactly Length bases over {A,C,G,T,N}.
//
// Newlines and spaces are stripped, everything is uppercased and anything
// that isn't A, C, G or T (ambiguity codes, gaps, garbage) becomes an N.
// Short sequences are right-padded with N, long ones lose their tail.
func Normalize(raw string) string {
	return NormalizeTo(raw, Length)
}

// NormalizeTo is Normalize with a custom target length.
func NormalizeTo(raw string, length int) string {
	var sb strings.Builder
	sb.Grow(length)

	// one letter per rune, so a multi-byte character is a single N
	for _, r := range raw {
		if sb.Len() >= length {
			break
		}
		switch r {
		case '\n', '\r', ' ':
			continue
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		c := byte('N')
		if r < utf8.RuneSelf && channel(byte(r)) >= 0 {
			c = byte(r)
		}
		sb.WriteByte(c)
	}

	for sb.Len() < length {
		sb.WriteByte('N')
	}

	return sb.String()
}

// Encode normalizes and one-hot encodes a raw sequence into a (4, Length) tensor.
func Encode(raw string) *Tensor {
	return EncodeTo(raw, Length)
}

// EncodeTo is Encode with a custom target length.
func EncodeTo(raw string, length int) *Tensor {
	seq := NormalizeTo(raw, length)
	t := NewTensor(Channels, length)
	for pos := 0; pos < length; pos++ {
		if c := channel(seq[pos]); c >= 0 {
			t.Set(c, pos, 1)
		}
	}
	return t
}
