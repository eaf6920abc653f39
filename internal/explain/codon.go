package explain

import (
	"fmt"
	"strings"
)

// MutationType is the effect of a codon change on the encoded amino acid.
type MutationType string

const (
	Silent   MutationType = "Silent"
	Missense MutationType = "Missense"
	Nonsense MutationType = "Nonsense"
	Unknown  MutationType = "Unknown"
)

// Stop is the amino acid symbol of a stop codon.
const Stop = '*'

// standard is NCBI translation table 1.
// https://www.ncbi.nlm.nih.gov/Taxonomy/Utils/wprintgc.cgi?chapter=tgencodes#SG1
var standard = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

// TranslationError is returned for a codon the genetic code can't translate.
type TranslationError struct {
	Codon string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("failed to translate codon %q", e.Codon)
}

// Translate returns the amino acid of a codon under the standard code.
func Translate(codon string) (byte, error) {
	aa, ok := standard[strings.ToUpper(codon)]
	if !ok {
		return 0, &TranslationError{Codon: codon}
	}
	return aa, nil
}

// Classify names the effect of replacing the reference codon with the
// mutated one. Codons with an N, or that otherwise fail to translate, are
// Unknown.
func Classify(ref, mut string) MutationType {
	if strings.ContainsRune(ref, 'N') || strings.ContainsRune(mut, 'N') {
		return Unknown
	}

	refAA, err := Translate(ref)
	if err != nil {
		return Unknown
	}
	mutAA, err := Translate(mut)
	if err != nil {
		return Unknown
	}

	switch {
	case refAA == mutAA:
		return Silent
	case mutAA == Stop:
		return Nonsense
	}
	return Missense
}
