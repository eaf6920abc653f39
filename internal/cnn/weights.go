package cnn

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// ErrMissingWeights is returned when the weights archive doesn't exist.
var ErrMissingWeights = errors.New("model weights not found")

// LoadWeights reads a model for inputs of length n from a NumPy .npz
// archive of the torch state dict, one array per parameter
// (np.savez(path, **{k: v.numpy() for k, v in model.state_dict().items()})).
func LoadWeights(path string, n int) (*Model, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrMissingWeights, path)
	}

	archive, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights %s: %w", path, err)
	}
	defer archive.Close()

	// keys may or may not carry the .npy suffix of the zip entries
	keys := make(map[string]string)
	for _, k := range archive.Keys() {
		keys[strings.TrimSuffix(k, ".npy")] = k
	}

	params := make(Params)
	for _, name := range ParamNames() {
		key, ok := keys[name]
		if !ok {
			return nil, fmt.Errorf("failed to find %s in weights %s", name, path)
		}

		values, err := readFloats(archive, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from weights %s: %w", name, path, err)
		}
		params[name] = values
	}

	return NewModel(n, params)
}

// readFloats reads a float32 or float64 array as float64s.
func readFloats(archive *npz.Reader, key string) ([]float64, error) {
	dtype := "<f4"
	if h := archive.Header(key); h != nil {
		dtype = h.Descr.Type
	}

	switch dtype {
	case "<f4", "|f4", "f4":
		var raw []float32
		if err := archive.Read(key, &raw); err != nil {
			return nil, err
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			out[i] = float64(v)
		}
		return out, nil
	case "<f8", "|f8", "f8":
		var raw []float64
		if err := archive.Read(key, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	return nil, fmt.Errorf("unsupported dtype %s", dtype)
}
