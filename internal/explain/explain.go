// Package explain turns per-position relevance into the mutations, against
// the reference genome, that drove a classification.
package explain

import (
	"sort"

	"github.com/varshithab05/CoviScope/internal/encode"
)

// TopN is the default number of relevant positions inspected.
const TopN = 15

// NucleotideMutation is a single base that differs from the reference.
type NucleotideMutation struct {
	Position  int    `json:"Position"`
	Reference string `json:"Reference"`
	Mutated   string `json:"Mutated"`
}

// CodonMutation is a codon that differs from the reference.
type CodonMutation struct {
	CodonPosition  int          `json:"Codon_Position"`
	ReferenceCodon string       `json:"Reference_Codon"`
	MutatedCodon   string       `json:"Mutated_Codon"`
	MutationType   MutationType `json:"Mutation_Type"`
}

// TopPositions returns the indexes of the n highest scores, highest first.
// Equal scores keep their index order.
func TopPositions(scores []float64, n int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	if n < 0 {
		n = 0
	}
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

// Nucleotides reports, among the n most relevant positions, those where
// the sequence's base differs from the reference's. Matching positions are
// dropped so fewer than n mutations may come back.
func Nucleotides(seq, ref *encode.Tensor, scores []float64, n int) []NucleotideMutation {
	mutations := []NucleotideMutation{}
	for _, pos := range TopPositions(scores, n) {
		refBase, mutBase := ref.Base(pos), seq.Base(pos)
		if refBase == mutBase {
			continue
		}

		mutations = append(mutations, NucleotideMutation{
			Position:  pos,
			Reference: string(refBase),
			Mutated:   string(mutBase),
		})
	}
	return mutations
}

// Codons reports, among the codons holding the n most relevant
// positions, those that differ from the reference along with the effect on
// the amino acid. Codons are read in frame 0 from the start of the genome
// and each codon is reported at most once.
func Codons(seq, ref *encode.Tensor, scores []float64, n int) []CodonMutation {
	mutations := []CodonMutation{}
	checked := make(map[int]bool)

	for _, pos := range TopPositions(scores, n) {
		start := pos - pos%3
		if checked[start] {
			continue
		}
		checked[start] = true

		refCodon, mutCodon := ref.Codon(start), seq.Codon(start)
		if refCodon == mutCodon {
			continue
		}

		mutations = append(mutations, CodonMutation{
			CodonPosition:  start,
			ReferenceCodon: refCodon,
			MutatedCodon:   mutCodon,
			MutationType:   Classify(refCodon, mutCodon),
		})
	}
	return mutations
}
