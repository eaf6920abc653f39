package sarsvar

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"time"
)

// Output is the result of a batch run.
type Output struct {
	// Input is the multi-FASTA file the sequences were read from
	Input string `json:"input"`

	// Time, ex: "2021/05/01 20:41:00"
	Time string `json:"time"`

	// Execution is the number of seconds it took to classify every sequence
	Execution float64 `json:"execution"`

	// Reports, one per record and in the input's order
	Reports []*Report `json:"reports"`
}

// newOutput stamps reports with the current time and how long they took.
func newOutput(input string, reports []*Report, start time.Time) *Output {
	// same format as log.Println https://golang.org/pkg/log/#Println
	t := time.Now()
	stamp := fmt.Sprintf(
		"%d/%02d/%02d %02d:%02d:%02d",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(),
	)

	return &Output{
		Input:     input,
		Time:      stamp,
		Execution: time.Since(start).Seconds(),
		Reports:   reports,
	}
}

// writeJSON marshals v and writes it to filename, or to stdout if filename is empty.
func writeJSON(filename string, v interface{}) ([]byte, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize the output: %w", err)
	}

	if filename == "" {
		if _, err := fmt.Fprintln(os.Stdout, string(output)); err != nil {
			return nil, err
		}
		return output, nil
	}

	if err := ioutil.WriteFile(filename, output, 0644); err != nil {
		return nil, fmt.Errorf("failed to write the output: %w", err)
	}
	return output, nil
}
