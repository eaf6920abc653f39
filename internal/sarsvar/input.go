package sarsvar

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/varshithab05/CoviScope/config"
	"github.com/varshithab05/CoviScope/internal/cnn"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Flags contains parsed cobra Flags like "in" and "out" that are used by multiple commands.
type Flags struct {
	// the raw sequence passed as an argument
	seq string

	// the name of the FASTA file to read the input from
	in string

	// the name of the file to write the output to. stdout if empty
	out string
}

// parseCmdFlags gathers the sequence, in path and out path from a cobra cmd object
// returns Flags and a Config struct for the classify and batch commands.
func parseCmdFlags(cmd *cobra.Command, args []string, needsFile bool) (*Flags, *config.Config) {
	fs := &Flags{}

	c, err := config.New()
	if err != nil {
		stderr.Fatal(err)
	}

	if fs.in, err = cmd.Flags().GetString("in"); err != nil {
		cmd.Help()
		stderr.Fatalf("failed to parse in flag: %v", err)
	}

	if fs.in == "" {
		if !needsFile && len(args) > 0 {
			fs.seq = strings.Join(args, "")
		} else {
			cmd.Help()
			stderr.Fatalln("\nno input sequence or FASTA file passed.")
		}
	}

	if fs.out, err = cmd.Flags().GetString("out"); err != nil {
		cmd.Help()
		stderr.Fatalf("failed to parse out flag: %v", err)
	}

	return fs, c
}

// read returns the sequence passed on the command line or the one in the FASTA input.
func (f *Flags) read() (string, error) {
	if f.in == "" {
		return f.seq, nil
	}

	contents, err := ioutil.ReadFile(f.in)
	if err != nil {
		return "", fmt.Errorf("failed to read input %s: %w", f.in, err)
	}
	return ParseFASTA(string(contents)), nil
}

// guessOutput names a batch output after its input, ex: samples.fa -> samples.output.json
func guessOutput(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + ".output.json"
}

// loadContext reads the weights and the reference, exiting if either is missing.
func loadContext(conf *config.Config) *Context {
	ctx, err := Load(conf)
	switch {
	case errors.Is(err, cnn.ErrMissingWeights):
		stderr.Fatalf("%v. set a path with --model or MODEL_PATH", err)
	case errors.Is(err, ErrMissingReference):
		stderr.Fatalf("%v. set a path with --reference or REFERENCE_PATH", err)
	case err != nil:
		stderr.Fatal(err)
	}
	return ctx
}
