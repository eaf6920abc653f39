// Package cnn is the masked 1-D convolutional classifier for SARS-CoV-2
// lineages and the layer-wise relevance propagation that explains it.
package cnn

import (
	"fmt"
	"math"

	"github.com/varshithab05/CoviScope/internal/encode"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Classes is the number of lineages the network scores.
const Classes = 5

// UnknownLabel is returned for a class index outside the label table.
const UnknownLabel = "Unknown Variant"

// labels maps class indexes to lineage names.
var labels = [Classes]string{
	"B.1.1.7",
	"B.1.351",
	"P.1",
	"B.1.617.2",
	"B.1.1.529",
}

// Label returns the lineage name for a class index.
func Label(i int) string {
	if i < 0 || i >= len(labels) {
		return UnknownLabel
	}
	return labels[i]
}

// Index returns the class index of a lineage name, -1 if it isn't one.
func Index(label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

// ShapeError is returned when a tensor isn't (4, L) for the model's L.
type ShapeError struct {
	WantChannels, WantLength int
	GotChannels, GotLength   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf(
		"expected encoded sequence of shape (%d, %d), but got (%d, %d)",
		e.WantChannels, e.WantLength, e.GotChannels, e.GotLength,
	)
}

// Block is one masked convolution stage: conv, ReLU, max-pool, dropout
// (a no-op at inference) and then the mask update.
type Block struct {
	Conv *Conv1D
}

// blockTrace is what attribution needs to walk back through a Block.
type blockTrace struct {
	in      *encode.Tensor // conv input
	convLen int            // conv output length
	winners []int          // max-pool winners
	mask    []float64      // mask applied to the block output
}

// Forward runs the block. The mask is pooled like the data, cut to the
// data's new length and multiplied in; the updated mask is returned for the
// next stage.
func (b *Block) Forward(x *encode.Tensor, mask []float64) (*encode.Tensor, []float64) {
	y, _, mask := b.forward(x, mask)
	return y, mask
}

func (b *Block) forward(x *encode.Tensor, mask []float64) (*encode.Tensor, []int, []float64) {
	h := b.Conv.Forward(x)
	relu(h)
	y, winners := maxPool(h)
	mask = poolMask(mask, y.Length)
	applyMask(y, mask)
	return y, winners, mask
}

// OutLength is the block's output length for an input of length n.
func (b *Block) OutLength(n int) int {
	return b.Conv.OutLength(n) / 2
}

// Model is the trained network. It's immutable once built; every forward
// or attribution pass allocates its own buffers so a single Model can be
// shared by concurrent requests.
type Model struct {
	length int
	blocks []*Block
	fc1    *Dense
	fc2    *Dense
	out    *Dense
}

// tape records the activations of one forward pass for attribution.
type tape struct {
	blocks []blockTrace
	flat   *mat.VecDense // fc1 input
	h1     *mat.VecDense // fc2 input
	h2     *mat.VecDense // output input
	logits *mat.VecDense
}

// Length is the input length the model was built for.
func (m *Model) Length() int {
	return m.length
}

func (m *Model) checkShape(x *encode.Tensor) error {
	if x == nil {
		return &ShapeError{encode.Channels, m.length, 0, 0}
	}
	if x.Channels != encode.Channels || x.Length != m.length || len(x.Data) != x.Channels*x.Length {
		return &ShapeError{encode.Channels, m.length, x.Channels, x.Length}
	}
	return nil
}

// forward runs the network. When tp is non-nil the intermediate values are
// recorded on it.
func (m *Model) forward(x *encode.Tensor, tp *tape) []float64 {
	mask := x.Mask()
	h := x
	for _, b := range m.blocks {
		in := h
		var winners []int
		h, winners, mask = b.forward(h, mask)
		if tp != nil {
			tp.blocks = append(tp.blocks, blockTrace{
				in:      in,
				convLen: b.Conv.OutLength(in.Length),
				winners: winners,
				mask:    mask,
			})
		}
	}

	// channels x positions, row-major, same as a torch view(1, -1)
	flat := mat.NewVecDense(len(h.Data), h.Data)

	h1 := m.fc1.Forward(flat)
	reluVec(h1)
	h2 := m.fc2.Forward(h1)
	reluVec(h2)
	logits := m.out.Forward(h2)

	if tp != nil {
		tp.flat, tp.h1, tp.h2, tp.logits = flat, h1, h2, logits
	}

	return mat.Col(nil, 0, logits)
}

// Logits scores an encoded sequence against each lineage.
func (m *Model) Logits(x *encode.Tensor) ([]float64, error) {
	if err := m.checkShape(x); err != nil {
		return nil, err
	}
	return m.forward(x, nil), nil
}

// Predict returns the index of the highest scoring lineage.
func (m *Model) Predict(x *encode.Tensor) (int, error) {
	logits, err := m.Logits(x)
	if err != nil {
		return -1, err
	}
	return floats.MaxIdx(logits), nil
}

// Classify returns the name of the highest scoring lineage.
func (m *Model) Classify(x *encode.Tensor) (string, error) {
	i, err := m.Predict(x)
	if err != nil {
		return "", err
	}
	return Label(i), nil
}

// Confidence is the softmax probability of class i given the logits.
func Confidence(logits []float64, i int) float64 {
	if i < 0 || i >= len(logits) {
		return 0
	}
	return math.Exp(logits[i] - floats.LogSumExp(logits))
}
