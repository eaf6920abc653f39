package cnn

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/varshithab05/CoviScope/internal/encode"
)

// Params holds the network's parameters by their state-dict name
// ("conv1.weight", "fc1.bias", ...), each flattened row-major.
type Params map[string][]float64

// architecture of the three conv blocks: in, out, kernel, padding
var convSpecs = []struct {
	name                     string
	in, out, kernel, padding int
}{
	{"conv1", encode.Channels, 32, 7, 3},
	{"conv2", 32, 8, 4, 0},
	{"conv3", 8, 8, 3, 0},
}

// dense layer widths after the flattened conv output
var denseSpecs = []struct {
	name string
	out  int
}{
	{"fc1", 72},
	{"fc2", 32},
	{"output", Classes},
}

// FlatLength is the number of features fed to fc1 for an input of length n.
// It's 0 when n is too short for the conv stack.
func FlatLength(n int) int {
	for _, c := range convSpecs {
		n = (n + 2*c.padding - c.kernel + 1) / 2
		if n <= 0 {
			return 0
		}
	}
	return n * convSpecs[len(convSpecs)-1].out
}

// ParamSizes returns the number of values each named parameter holds for a
// model with input length n.
func ParamSizes(n int) map[string]int {
	sizes := make(map[string]int)
	for _, c := range convSpecs {
		sizes[c.name+".weight"] = c.out * c.in * c.kernel
		sizes[c.name+".bias"] = c.out
	}

	in := FlatLength(n)
	for _, d := range denseSpecs {
		sizes[d.name+".weight"] = d.out * in
		sizes[d.name+".bias"] = d.out
		in = d.out
	}
	return sizes
}

// ParamNames returns the parameter names in a stable order.
func ParamNames() []string {
	names := make([]string, 0, 2*(len(convSpecs)+len(denseSpecs)))
	for _, c := range convSpecs {
		names = append(names, c.name+".weight", c.name+".bias")
	}
	for _, d := range denseSpecs {
		names = append(names, d.name+".weight", d.name+".bias")
	}
	return names
}

// NewModel builds a model for inputs of length n from its parameters.
func NewModel(n int, p Params) (*Model, error) {
	flat := FlatLength(n)
	if flat == 0 {
		return nil, fmt.Errorf("input length %d is too short for the convolution stack", n)
	}

	sizes := ParamSizes(n)
	var missing []string
	for name, size := range sizes {
		v, ok := p[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if len(v) != size {
			return nil, fmt.Errorf("parameter %s has %d values, expected %d", name, len(v), size)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing parameters: %v", missing)
	}

	m := &Model{length: n}
	for _, c := range convSpecs {
		m.blocks = append(m.blocks, &Block{
			Conv: &Conv1D{
				In:      c.in,
				Out:     c.out,
				Kernel:  c.kernel,
				Padding: c.padding,
				Weight:  p[c.name+".weight"],
				Bias:    p[c.name+".bias"],
			},
		})
	}

	in := flat
	dense := make([]*Dense, len(denseSpecs))
	for i, d := range denseSpecs {
		dense[i] = newDense(d.out, in, p[d.name+".weight"], p[d.name+".bias"])
		in = d.out
	}
	m.fc1, m.fc2, m.out = dense[0], dense[1], dense[2]

	return m, nil
}

// RandomParams draws parameters the way torch initializes Conv1d and
// Linear layers, uniform in ±1/sqrt(fan-in). For tests and smoke runs.
func RandomParams(n int, rng *rand.Rand) Params {
	p := make(Params)
	fill := func(name string, size, fanIn int) {
		bound := 1 / math.Sqrt(float64(fanIn))
		v := make([]float64, size)
		for i := range v {
			v[i] = (2*rng.Float64() - 1) * bound
		}
		p[name] = v
	}

	for _, c := range convSpecs {
		fanIn := c.in * c.kernel
		fill(c.name+".weight", c.out*c.in*c.kernel, fanIn)
		fill(c.name+".bias", c.out, fanIn)
	}

	in := FlatLength(n)
	for _, d := range denseSpecs {
		fill(d.name+".weight", d.out*in, in)
		fill(d.name+".bias", d.out, in)
		in = d.out
	}

	return p
}
