package encode

import (
	"fmt"
	"strings"
)

// Tensor is a dense (channels, length) matrix stored row-major: all positions
// of channel 0, then all positions of channel 1, and so on.
type Tensor struct {
	Channels int
	Length   int
	Data     []float64
}

// NewTensor returns a zeroed tensor.
func NewTensor(channels, length int) *Tensor {
	return &Tensor{
		Channels: channels,
		Length:   length,
		Data:     make([]float64, channels*length),
	}
}

// FromData wraps an existing row-major slice. It errors if the slice doesn't
// hold exactly channels*length values.
func FromData(channels, length int, data []float64) (*Tensor, error) {
	if channels < 0 || length < 0 || len(data) != channels*length {
		return nil, fmt.Errorf("failed to build a (%d, %d) tensor from %d values", channels, length, len(data))
	}
	return &Tensor{Channels: channels, Length: length, Data: data}, nil
}

// Shape returns (channels, length).
func (t *Tensor) Shape() (int, int) {
	return t.Channels, t.Length
}

// At returns the value at a channel and position.
func (t *Tensor) At(c, pos int) float64 {
	return t.Data[c*t.Length+pos]
}

// Set stores a value at a channel and position.
func (t *Tensor) Set(c, pos int, v float64) {
	t.Data[c*t.Length+pos] = v
}

// Row returns the slice backing one channel. Writes go through to the tensor.
func (t *Tensor) Row(c int) []float64 {
	return t.Data[c*t.Length : (c+1)*t.Length]
}

// Column copies out the values of every channel at a position.
func (t *Tensor) Column(pos int) []float64 {
	col := make([]float64, t.Channels)
	for c := range col {
		col[c] = t.At(c, pos)
	}
	return col
}

// Mask marks real bases: 1 where the column sum is non-zero, 0 for N and padding.
func (t *Tensor) Mask() []float64 {
	mask := make([]float64, t.Length)
	for pos := range mask {
		sum := 0.0
		for c := 0; c < t.Channels; c++ {
			sum += t.At(c, pos)
		}
		if sum != 0 {
			mask[pos] = 1
		}
	}
	return mask
}

// Base decodes the one-hot column at pos back to a nucleotide. The argmax
// channel wins (first on ties); an empty column or a position outside the
// tensor decodes to N.
func (t *Tensor) Base(pos int) byte {
	if pos < 0 || pos >= t.Length || t.Channels != Channels {
		return 'N'
	}

	best, sum := 0, 0.0
	for c := 0; c < Channels; c++ {
		v := t.At(c, pos)
		sum += v
		if v > t.At(best, pos) {
			best = c
		}
	}
	if sum <= 0 {
		return 'N'
	}
	return bases[best]
}

// Codon decodes the three bases starting at pos.
func (t *Tensor) Codon(pos int) string {
	return string([]byte{t.Base(pos), t.Base(pos + 1), t.Base(pos + 2)})
}

// String decodes the whole tensor back to a nucleotide sequence.
func (t *Tensor) String() string {
	var sb strings.Builder
	sb.Grow(t.Length)
	for pos := 0; pos < t.Length; pos++ {
		sb.WriteByte(t.Base(pos))
	}
	return sb.String()
}
