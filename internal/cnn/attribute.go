package cnn

import (
	"fmt"

	"github.com/varshithab05/CoviScope/internal/encode"
	"gonum.org/v1/gonum/mat"
)

// Hyperparameters of the epsilon-gamma-box LRP composite.
const (
	Epsilon = 1e-4 // dense layers
	Gamma   = 0.5  // conv layers after the first
	BoxLow  = -1.0 // input domain of the first conv
	BoxHigh = 1.0

	stabilizer = 1e-6
)

// Relevance is per-channel relevance with the shape of the input tensor.
type Relevance struct {
	*encode.Tensor
}

// Sum collapses the channels to one score per position.
func (r *Relevance) Sum() []float64 {
	out := make([]float64, r.Length)
	for c := 0; c < r.Channels; c++ {
		for p, v := range r.Row(c) {
			out[p] += v
		}
	}
	return out
}

// Attribute explains the score of one class for x with layer-wise relevance
// propagation. Dense layers use the epsilon rule, conv2 and conv3 the gamma
// rule and conv1 the z-box rule bounded to [BoxLow, BoxHigh]. ReLU and
// dropout pass relevance through, max-pools route it to the winning input
// and masks gate it like they gate the activations.
//
// The recorded activations live on a tape private to this call.
func (m *Model) Attribute(x *encode.Tensor, class int) (*Relevance, error) {
	if err := m.checkShape(x); err != nil {
		return nil, err
	}
	if class < 0 || class >= Classes {
		return nil, fmt.Errorf("class index %d is outside [0, %d)", class, Classes)
	}

	tp := &tape{}
	m.forward(x, tp)

	r := mat.NewVecDense(Classes, nil)
	r.SetVec(class, 1)
	r = epsilonRule(m.out, tp.h2, r)
	r = epsilonRule(m.fc2, tp.h1, r)
	r = epsilonRule(m.fc1, tp.flat, r)

	last := m.blocks[len(m.blocks)-1].Conv
	rt, err := encode.FromData(last.Out, r.Len()/last.Out, mat.Col(nil, 0, r))
	if err != nil {
		return nil, err
	}

	for i := len(m.blocks) - 1; i >= 0; i-- {
		rt = m.blocks[i].relevance(tp.blocks[i], rt, i == 0)
	}

	return &Relevance{rt}, nil
}

// relevance walks relevance r on the block's output back to its input.
func (b *Block) relevance(tr blockTrace, r *encode.Tensor, first bool) *encode.Tensor {
	applyMask(r, tr.mask)

	// max-pool: all of a cell's relevance goes to the input that won it
	unpooled := encode.NewTensor(r.Channels, tr.convLen)
	for c := 0; c < r.Channels; c++ {
		row, dst := r.Row(c), unpooled.Row(c)
		for p, v := range row {
			dst[tr.winners[c*r.Length+p]] += v
		}
	}

	if first {
		return zBoxRule(b.Conv, tr.in, unpooled)
	}
	return gammaRule(b.Conv, tr.in, unpooled)
}

// stabilize keeps a denominator away from zero, pushing it further from
// zero in the direction of its sign (zero counts as positive).
func stabilize(z, eps float64) float64 {
	if z >= 0 {
		return z + eps
	}
	return z - eps
}

// epsilonRule: R_j = a_j * sum_k w_kj R_k / stab(z_k).
func epsilonRule(d *Dense, a *mat.VecDense, r *mat.VecDense) *mat.VecDense {
	z := d.Forward(a)
	for k := 0; k < z.Len(); k++ {
		z.SetVec(k, r.AtVec(k)/stabilize(z.AtVec(k), Epsilon))
	}

	out := mat.NewVecDense(a.Len(), nil)
	out.MulVec(d.W.T(), z)
	out.MulElemVec(out, a)
	return out
}

// gammaRule favours positive contributions: weights and bias become
// p + gamma*max(p, 0) before the usual z-rule.
func gammaRule(c *Conv1D, x, r *encode.Tensor) *encode.Tensor {
	amp := func(p []float64) []float64 {
		out := make([]float64, len(p))
		for i, v := range p {
			out[i] = v
			if v > 0 {
				out[i] += Gamma * v
			}
		}
		return out
	}
	w, bias := amp(c.Weight), amp(c.Bias)

	s := c.apply(x, w, bias)
	for i, z := range s.Data {
		s.Data[i] = r.Data[i] / stabilize(z, stabilizer)
	}

	g := c.transpose(s, w, x.Length)
	for i := range g.Data {
		g.Data[i] *= x.Data[i]
	}
	return g
}

// zBoxRule is the z^B rule for an input bounded to [BoxLow, BoxHigh]:
// z = Wx + b - W+ l - W- h, relevance x*c - l*c+ - h*c-. The bounds
// terms carry no bias.
func zBoxRule(c *Conv1D, x, r *encode.Tensor) *encode.Tensor {
	split := func(p []float64) (pos, neg []float64) {
		pos, neg = make([]float64, len(p)), make([]float64, len(p))
		for i, v := range p {
			if v > 0 {
				pos[i] = v
			} else {
				neg[i] = v
			}
		}
		return
	}
	wPos, wNeg := split(c.Weight)

	low, high := encode.NewTensor(x.Channels, x.Length), encode.NewTensor(x.Channels, x.Length)
	for i := range low.Data {
		low.Data[i], high.Data[i] = BoxLow, BoxHigh
	}

	z := c.apply(x, c.Weight, c.Bias)
	zl := c.apply(low, wPos, nil)
	zh := c.apply(high, wNeg, nil)

	s := z
	for i := range s.Data {
		s.Data[i] = r.Data[i] / stabilize(z.Data[i]-zl.Data[i]-zh.Data[i], stabilizer)
	}

	g := c.transpose(s, c.Weight, x.Length)
	gl := c.transpose(s, wPos, x.Length)
	gh := c.transpose(s, wNeg, x.Length)
	for i := range g.Data {
		g.Data[i] = x.Data[i]*g.Data[i] - low.Data[i]*gl.Data[i] - high.Data[i]*gh.Data[i]
	}
	return g
}
