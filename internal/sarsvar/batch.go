package sarsvar

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"
)

// ClassifyCmd takes a cobra command (with its flags) and classifies one sequence.
func ClassifyCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args, false)

	seq, err := flags.read()
	if err != nil {
		stderr.Fatal(err)
	}

	report, err := loadContext(conf).Analyze(seq)
	if err != nil {
		stderr.Fatal(err)
	}

	if _, err := writeJSON(flags.out, report); err != nil {
		stderr.Fatal(err)
	}
}

// BatchCmd takes a cobra command (with its flags) and classifies every record
// of a multi-FASTA file.
func BatchCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args, true)
	if flags.out == "" {
		flags.out = guessOutput(flags.in)
	}

	f, err := os.Open(flags.in)
	if err != nil {
		stderr.Fatalf("failed to open %s: %v", flags.in, err)
	}
	records, err := ReadRecords(f)
	f.Close()
	if err != nil {
		stderr.Fatal(err)
	}
	if len(records) == 0 {
		stderr.Fatalf("no FASTA records in %s", flags.in)
	}

	start := time.Now()
	ctx := loadContext(conf)
	reports, err := Batch(ctx, records, conf.Workers, true)
	if err != nil {
		stderr.Fatal(err)
	}

	if _, err := writeJSON(flags.out, newOutput(flags.in, reports, start)); err != nil {
		stderr.Fatal(err)
	}
	stderr.Printf("%d sequences classified, results in %s", len(reports), flags.out)
}

// Batch analyzes records with a pool of workers. Reports are returned in
// the same order as records. The first failure is returned after every
// record has been tried.
func Batch(ctx *Context, records []Record, workers int, showProgress bool) ([]*Report, error) {
	if workers < 1 {
		workers = 1
	}

	var pbar *pb.ProgressBar
	if showProgress {
		pbar = pb.StartNew(len(records))
		defer pbar.Finish()
	}

	jobs := make(chan int)
	reports := make([]*Report, len(records))
	errs := make([]error, len(records))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report, err := ctx.Analyze(records[i].Seq)
				if err != nil {
					errs[i] = fmt.Errorf("failed to classify %s: %w", records[i].ID, err)
				} else {
					report.ID = records[i].ID
					reports[i] = report
				}
				if showProgress {
					pbar.Increment()
				}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return reports, nil
}
