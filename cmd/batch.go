package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varshithab05/CoviScope/internal/sarsvar"
)

// batchCmd is for classifying every genome in a multi-FASTA file
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify every genome in a multi-FASTA file",
	Long: `Classify every genome in a multi-FASTA file

Genomes are classified in parallel by "--workers" workers and the reports are
written, in the input's order, to a single JSON file.`,
	Run:                        sarsvar.BatchCmd,
	SuggestionsMinimumDistance: 2,
	Example:                    "  coviscope batch --in gisaid.fasta --out gisaid.json --workers 8",
}

// set flags
func init() {
	batchCmd.Flags().StringP("in", "i", "", "input multi-FASTA with genomes")
	batchCmd.Flags().StringP("out", "o", "", "output file name")
	batchCmd.Flags().IntP("workers", "w", 0, "number of genomes classified at once, default # of CPUs")
	batchCmd.MarkFlagRequired("in")

	viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))

	RootCmd.AddCommand(batchCmd)
}
