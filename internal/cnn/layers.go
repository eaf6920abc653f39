package cnn

import (
	"github.com/varshithab05/CoviScope/internal/encode"
	"gonum.org/v1/gonum/mat"
)

// Conv1D is a 1-D convolution with symmetric zero padding and stride 1.
// Weight is laid out (Out, In, Kernel) like a PyTorch Conv1d.
type Conv1D struct {
	In, Out, Kernel, Padding int

	Weight []float64
	Bias   []float64
}

// OutLength is the output length for an input of length n.
func (c *Conv1D) OutLength(n int) int {
	return n + 2*c.Padding - c.Kernel + 1
}

// Forward convolves x with the layer's own weights and bias.
func (c *Conv1D) Forward(x *encode.Tensor) *encode.Tensor {
	return c.apply(x, c.Weight, c.Bias)
}

// apply convolves x with an arbitrary weight/bias pair shaped like the
// layer's. LRP rules call it with modified parameters.
func (c *Conv1D) apply(x *encode.Tensor, weight, bias []float64) *encode.Tensor {
	n := x.Length
	outLen := c.OutLength(n)
	y := encode.NewTensor(c.Out, outLen)

	for o := 0; o < c.Out; o++ {
		row := y.Row(o)
		if bias != nil {
			for q := range row {
				row[q] = bias[o]
			}
		}

		for i := 0; i < c.In; i++ {
			in := x.Row(i)
			for k := 0; k < c.Kernel; k++ {
				wk := weight[(o*c.In+i)*c.Kernel+k]
				if wk == 0 {
					continue
				}

				// output q reads input q+k-padding
				shift := k - c.Padding
				lo, hi := 0, outLen
				if -shift > lo {
					lo = -shift
				}
				if n-shift < hi {
					hi = n - shift
				}
				for q := lo; q < hi; q++ {
					row[q] += wk * in[q+shift]
				}
			}
		}
	}

	return y
}

// transpose maps per-output values s back onto the n input positions
// through weight: the adjoint of apply without bias.
func (c *Conv1D) transpose(s *encode.Tensor, weight []float64, n int) *encode.Tensor {
	g := encode.NewTensor(c.In, n)
	outLen := s.Length

	for o := 0; o < c.Out; o++ {
		srow := s.Row(o)
		for i := 0; i < c.In; i++ {
			grow := g.Row(i)
			for k := 0; k < c.Kernel; k++ {
				wk := weight[(o*c.In+i)*c.Kernel+k]
				if wk == 0 {
					continue
				}

				shift := k - c.Padding
				lo, hi := 0, outLen
				if -shift > lo {
					lo = -shift
				}
				if n-shift < hi {
					hi = n - shift
				}
				for q := lo; q < hi; q++ {
					grow[q+shift] += wk * srow[q]
				}
			}
		}
	}

	return g
}

// relu clamps a tensor at zero in place.
func relu(t *encode.Tensor) {
	for i, v := range t.Data {
		if v < 0 {
			t.Data[i] = 0
		}
	}
}

// maxPool runs a window 2 / stride 2 max-pool over every channel. It returns
// the pooled tensor and, per pooled cell, the input position that won. The
// first element of a window wins ties.
func maxPool(x *encode.Tensor) (*encode.Tensor, []int) {
	outLen := x.Length / 2
	y := encode.NewTensor(x.Channels, outLen)
	winners := make([]int, x.Channels*outLen)

	for c := 0; c < x.Channels; c++ {
		in, out := x.Row(c), y.Row(c)
		for p := range out {
			j := 2 * p
			if in[j+1] > in[j] {
				j++
			}
			out[p] = in[j]
			winners[c*outLen+p] = j
		}
	}

	return y, winners
}

// poolMask max-pools a mask the same way data is pooled and truncates it to
// length n.
func poolMask(mask []float64, n int) []float64 {
	pooled := make([]float64, len(mask)/2)
	for p := range pooled {
		pooled[p] = mask[2*p]
		if mask[2*p+1] > pooled[p] {
			pooled[p] = mask[2*p+1]
		}
	}
	if len(pooled) > n {
		pooled = pooled[:n]
	}
	return pooled
}

// applyMask broadcasts a per-position mask over every channel in place.
func applyMask(t *encode.Tensor, mask []float64) {
	for c := 0; c < t.Channels; c++ {
		row := t.Row(c)
		for p := range row {
			if p >= len(mask) {
				row[p] = 0
				continue
			}
			row[p] *= mask[p]
		}
	}
}

// Dense is a fully connected layer, y = Wx + b. W is (out, in).
type Dense struct {
	W *mat.Dense
	B *mat.VecDense
}

func newDense(out, in int, weight, bias []float64) *Dense {
	return &Dense{
		W: mat.NewDense(out, in, weight),
		B: mat.NewVecDense(out, bias),
	}
}

// Forward returns Wx + b.
func (d *Dense) Forward(x mat.Vector) *mat.VecDense {
	r, _ := d.W.Dims()
	z := mat.NewVecDense(r, nil)
	z.MulVec(d.W, x)
	z.AddVec(z, d.B)
	return z
}

func reluVec(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < 0 {
			v.SetVec(i, 0)
		}
	}
}
