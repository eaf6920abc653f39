// Package sarsvar runs the encode, classify, attribute and explain
// pipeline for a SARS-CoV-2 genome.
package sarsvar

import (
	"errors"
	"fmt"

	"github.com/varshithab05/CoviScope/config"
	"github.com/varshithab05/CoviScope/internal/cnn"
	"github.com/varshithab05/CoviScope/internal/encode"
	"github.com/varshithab05/CoviScope/internal/explain"
	"gonum.org/v1/gonum/floats"
)

// ErrProcessing wraps failures that aren't the caller's fault.
var ErrProcessing = errors.New("failed to process sequence")

// Report is the combined classification and explanation of one sequence.
type Report struct {
	// Variant is the predicted lineage, ex: "B.1.617.2"
	Variant string `json:"variant"`

	// Mutations are the relevant bases that differ from the reference
	Mutations []explain.NucleotideMutation `json:"mutations"`

	// CodonWiseMutations are the relevant codons that differ from the reference
	CodonWiseMutations []explain.CodonMutation `json:"codon_wise_mutations"`

	// Confidence is the softmax probability of the predicted lineage
	Confidence float64 `json:"confidence,omitempty"`

	// ID is the FASTA record name, set for batch runs
	ID string `json:"id,omitempty"`
}

// Context is the read-only state shared by every request: the classifier
// and the reference genome. Build it once at startup.
type Context struct {
	model     *cnn.Model
	reference *encode.Tensor
	topN      int
}

// NewContext checks that the reference matches the model's input shape.
func NewContext(model *cnn.Model, reference *encode.Tensor, topN int) (*Context, error) {
	if model == nil || reference == nil {
		return nil, errors.New("a model and reference are required")
	}
	if c, l := reference.Shape(); c != encode.Channels || l != model.Length() {
		return nil, fmt.Errorf("reference has shape (%d, %d), expected (%d, %d)", c, l, encode.Channels, model.Length())
	}
	if topN < 1 {
		topN = explain.TopN
	}

	return &Context{model: model, reference: reference, topN: topN}, nil
}

// Load reads the weights and the reference named by the config. Either
// missing is fatal: the caller shouldn't start serving.
func Load(conf *config.Config) (*Context, error) {
	model, err := cnn.LoadWeights(conf.ModelPath, encode.Length)
	if err != nil {
		return nil, err
	}

	reference, err := LoadReference(conf.ReferencePath, encode.Length)
	if err != nil {
		return nil, err
	}

	return NewContext(model, reference, conf.TopN)
}

// Encode normalizes and one-hot encodes raw sequence text.
func (c *Context) Encode(raw string) *encode.Tensor {
	return encode.EncodeTo(raw, c.model.Length())
}

// Classify predicts the lineage of an encoded sequence.
func (c *Context) Classify(t *encode.Tensor) (string, error) {
	return c.model.Classify(t)
}

// ExplainNucleotide classifies t and reports the relevant bases that
// differ from the reference.
func (c *Context) ExplainNucleotide(t *encode.Tensor) ([]explain.NucleotideMutation, error) {
	scores, _, err := c.relevance(t)
	if err != nil {
		return nil, err
	}
	return explain.Nucleotides(t, c.reference, scores, c.topN), nil
}

// ExplainCodon classifies t and reports the relevant codons that differ
// from the reference.
func (c *Context) ExplainCodon(t *encode.Tensor) ([]explain.CodonMutation, error) {
	scores, _, err := c.relevance(t)
	if err != nil {
		return nil, err
	}
	return explain.Codons(t, c.reference, scores, c.topN), nil
}

// relevance predicts t's class and returns the per-position relevance of
// that class along with the logits.
func (c *Context) relevance(t *encode.Tensor) ([]float64, []float64, error) {
	logits, err := c.model.Logits(t)
	if err != nil {
		return nil, nil, err
	}

	rel, err := c.model.Attribute(t, floats.MaxIdx(logits))
	if err != nil {
		return nil, nil, err
	}
	return rel.Sum(), logits, nil
}

// Analyze runs the whole pipeline on raw sequence text. Both explanations
// share a single attribution pass.
func (c *Context) Analyze(raw string) (*Report, error) {
	return c.AnalyzeTensor(c.Encode(raw))
}

// AnalyzeTensor is Analyze for an already encoded sequence.
func (c *Context) AnalyzeTensor(t *encode.Tensor) (*Report, error) {
	scores, logits, err := c.relevance(t)
	if err != nil {
		var shapeErr *cnn.ShapeError
		if errors.As(err, &shapeErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	class := floats.MaxIdx(logits)
	return &Report{
		Variant:            cnn.Label(class),
		Mutations:          explain.Nucleotides(t, c.reference, scores, c.topN),
		CodonWiseMutations: explain.Codons(t, c.reference, scores, c.topN),
		Confidence:         cnn.Confidence(logits, class),
	}, nil
}
