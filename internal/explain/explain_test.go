package explain

import (
	"testing"

	"github.com/varshithab05/CoviScope/internal/encode"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		mut  string
		want MutationType
	}{
		{"identical", "ATG", "ATG", Silent},
		{"synonymous", "CTT", "CTG", Silent},
		{"missense", "GAT", "GGT", Missense},
		{"nonsense", "TGG", "TGA", Nonsense},
		{"stop to stop", "TAA", "TAG", Silent},
		{"N in mutated", "ATG", "ANG", Unknown},
		{"N in reference", "NNN", "ATG", Unknown},
		{"untranslatable", "AT", "ATG", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.ref, tt.mut); got != tt.want {
				t.Errorf("Classify(%s, %s) = %s, want %s", tt.ref, tt.mut, got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	if aa, err := Translate("atg"); err != nil || aa != 'M' {
		t.Errorf("Translate(atg) = %c, %v", aa, err)
	}
	if len(standard) != 64 {
		t.Errorf("standard code has %d codons, want 64", len(standard))
	}

	_, err := Translate("XYZ")
	if _, ok := err.(*TranslationError); !ok {
		t.Errorf("Translate(XYZ) error = %v, want a TranslationError", err)
	}
}

func TestTopPositions(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		n      int
		want   []int
	}{
		{"descending", []float64{0.1, 0.5, -1, 0.3}, 3, []int{1, 3, 0}},
		{"ties keep index order", []float64{1, 2, 2, 1, 2}, 4, []int{1, 2, 4, 0}},
		{"n past the end", []float64{3, 1}, 15, []int{0, 1}},
		{"zero", []float64{3, 1}, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopPositions(tt.scores, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("TopPositions() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("TopPositions() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// scores that put all the weight on a few chosen positions
func scoresAt(n int, positions ...int) []float64 {
	s := make([]float64, n)
	for i, p := range positions {
		s[p] = float64(len(positions) - i)
	}
	return s
}

func TestNucleotides(t *testing.T) {
	ref := encode.EncodeTo("ATGGATTGGCTT", 12)
	seq := encode.EncodeTo("ATGGGTTGACTN", 12)

	// 0 is unchanged and 11 falls outside the top 3
	got := Nucleotides(seq, ref, scoresAt(12, 4, 0, 8, 11), 3)

	want := []NucleotideMutation{
		{Position: 4, Reference: "A", Mutated: "G"},
		{Position: 8, Reference: "G", Mutated: "A"},
	}
	if len(got) != len(want) {
		t.Fatalf("Nucleotides() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Nucleotides()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	for _, m := range got {
		if m.Reference == m.Mutated {
			t.Errorf("Nucleotides() reported a non-mutation %v", m)
		}
	}
}

func TestCodons(t *testing.T) {
	// codons:   ATG GAT TGG CTT
	// mutated:  ATG GGT TGA CTN
	ref := encode.EncodeTo("ATGGATTGGCTT", 12)
	seq := encode.EncodeTo("ATGGGTTGACTN", 12)

	// 4 and 5 share codon 3, 0 is unchanged, 8 is codon 6, 11 is codon 9
	got := Codons(seq, ref, scoresAt(12, 4, 5, 0, 8, 11), 5)

	want := []CodonMutation{
		{CodonPosition: 3, ReferenceCodon: "GAT", MutatedCodon: "GGT", MutationType: Missense},
		{CodonPosition: 6, ReferenceCodon: "TGG", MutatedCodon: "TGA", MutationType: Nonsense},
		{CodonPosition: 9, ReferenceCodon: "CTT", MutatedCodon: "CTN", MutationType: Unknown},
	}
	if len(got) != len(want) {
		t.Fatalf("Codons() = %v, want %v", got, want)
	}
	seen := make(map[int]bool)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Codons()[%d] = %v, want %v", i, got[i], want[i])
		}
		if got[i].ReferenceCodon == got[i].MutatedCodon {
			t.Errorf("Codons() reported a non-mutation %v", got[i])
		}
		if seen[got[i].CodonPosition] {
			t.Errorf("Codons() reported codon %d twice", got[i].CodonPosition)
		}
		seen[got[i].CodonPosition] = true
	}
}

// the last codon runs past the end of the genome
func TestCodons_outOfRange(t *testing.T) {
	ref := encode.EncodeTo("ATGGA", 5)
	seq := encode.EncodeTo("ATGGC", 5)

	got := Codons(seq, ref, scoresAt(5, 4), 1)
	if len(got) != 1 {
		t.Fatalf("Codons() = %v", got)
	}
	if got[0].ReferenceCodon != "GAN" || got[0].MutatedCodon != "GCN" || got[0].MutationType != Unknown {
		t.Errorf("Codons() = %v", got[0])
	}
}

func TestExplain_identical(t *testing.T) {
	ref := encode.EncodeTo("ATGGATTGGCTTAAACCC", 30)
	scores := scoresAt(30, 0, 4, 8, 12, 29, 17)

	if got := Nucleotides(ref, ref, scores, TopN); len(got) != 0 {
		t.Errorf("Nucleotides() = %v for the reference itself", got)
	}
	if got := Codons(ref, ref, scores, TopN); len(got) != 0 {
		t.Errorf("Codons() = %v for the reference itself", got)
	}
}
