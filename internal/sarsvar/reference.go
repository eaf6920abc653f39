package sarsvar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sbinet/npyio"
	"github.com/varshithab05/CoviScope/internal/encode"
)

// ErrMissingReference is returned when the encoded reference doesn't exist.
var ErrMissingReference = errors.New("reference sequence not found")

// LoadReference reads the one-hot reference genome from a .npy file. It has
// to be a float array of shape (4, n).
func LoadReference(path string, n int) (*encode.Tensor, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrMissingReference, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open reference %s: %w", path, err)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference %s: %w", path, err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 || shape[0] != encode.Channels || shape[1] != n {
		return nil, fmt.Errorf("reference %s has shape %v, expected (%d, %d)", path, shape, encode.Channels, n)
	}
	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("reference %s is in Fortran order, expected C order", path)
	}

	var data []float64
	switch r.Header.Descr.Type {
	case "<f4", "|f4":
		var raw []float32
		if err := r.Read(&raw); err != nil {
			return nil, fmt.Errorf("failed to read reference %s: %w", path, err)
		}
		data = make([]float64, len(raw))
		for i, v := range raw {
			data[i] = float64(v)
		}
	case "<f8", "|f8":
		if err := r.Read(&data); err != nil {
			return nil, fmt.Errorf("failed to read reference %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("reference %s has dtype %s, expected float32 or float64", path, r.Header.Descr.Type)
	}

	return encode.FromData(encode.Channels, n, data)
}
