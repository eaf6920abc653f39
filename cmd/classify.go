package cmd

import (
	"github.com/spf13/cobra"
	"github.com/varshithab05/CoviScope/internal/sarsvar"
)

// classifyCmd is for classifying a single genome
var classifyCmd = &cobra.Command{
	Use:   "classify [sequence]",
	Short: "Classify a genome and list the mutations behind the call",
	Long: `Classify a SARS-CoV-2 genome as one of B.1.1.7, B.1.351, P.1, B.1.617.2
or B.1.1.529.

The genome is passed either as an argument or as a FASTA file with "--in".
Non-ACGT characters are treated as unknown bases and the genome is padded
or truncated to the reference's length. The most relevant positions for the
call (by layer-wise relevance propagation) that differ from the reference are
reported as nucleotide and codon mutations.`,
	Run:                        sarsvar.ClassifyCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  coviscope classify --in sample.fasta --out sample.json",
}

// set flags
func init() {
	classifyCmd.Flags().StringP("in", "i", "", "input FASTA with the genome")
	classifyCmd.Flags().StringP("out", "o", "", "output file name, stdout if empty")

	RootCmd.AddCommand(classifyCmd)
}
