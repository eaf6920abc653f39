package sarsvar

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// ParseFASTA extracts the sequence from FASTA text: header lines (those
// starting with '>') are dropped and the rest are concatenated in order.
func ParseFASTA(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.HasPrefix(line, ">") {
			continue
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Record is one named sequence from a multi-FASTA file.
type Record struct {
	ID  string
	Seq string
}

// ReadRecords reads every record of a multi-FASTA stream.
func ReadRecords(r io.Reader) ([]Record, error) {
	template := linear.NewSeq("", nil, alphabet.DNAredundant)
	sc := seqio.NewScanner(fasta.NewReader(r, template))

	var records []Record
	for sc.Next() {
		s, ok := sc.Seq().(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("failed to parse FASTA record %d", len(records)+1)
		}

		var sb strings.Builder
		sb.Grow(len(s.Seq))
		for _, l := range s.Seq {
			sb.WriteByte(byte(l))
		}
		records = append(records, Record{ID: s.Name(), Seq: sb.String()})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA: %w", err)
	}

	return records, nil
}
