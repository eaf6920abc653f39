package sarsvar

import (
	"encoding/json"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"testing"
	"time"
)

func TestBatch(t *testing.T) {
	ctx, refSeq := testContext(t)

	records := []Record{
		{ID: "ref", Seq: refSeq},
		{ID: "every-2", Seq: mutate(refSeq, 2)},
		{ID: "every-9", Seq: mutate(refSeq, 9)},
		{ID: "short", Seq: refSeq[:120]},
		{ID: "random", Seq: randomSeq(rand.New(rand.NewSource(3)), testLength)},
	}

	tests := []struct {
		name    string
		workers int
	}{
		{"serial", 1},
		{"pool", 3},
		{"more workers than records", 16},
		{"no workers", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, err := Batch(ctx, records, tt.workers, false)
			if err != nil {
				t.Fatalf("Batch() error = %v", err)
			}
			if len(reports) != len(records) {
				t.Fatalf("Batch() = %d reports, want %d", len(reports), len(records))
			}

			for i, r := range reports {
				if r.ID != records[i].ID {
					t.Errorf("reports[%d].ID = %s, want %s", i, r.ID, records[i].ID)
				}

				want, _ := ctx.Analyze(records[i].Seq)
				if r.Variant != want.Variant || len(r.Mutations) != len(want.Mutations) {
					t.Errorf("Batch() report for %s = %+v, want %+v", r.ID, r, want)
				}
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	ctx, refSeq := testContext(t)
	report, err := ctx.Analyze(mutate(refSeq, 4))
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "samples.output.json")
	if _, err := writeJSON(out, newOutput("samples.fa", []*Report{report}, time.Now())); err != nil {
		t.Fatalf("writeJSON() error = %v", err)
	}

	contents, err := ioutil.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	var got Output
	if err := json.Unmarshal(contents, &got); err != nil {
		t.Fatal(err)
	}
	if got.Input != "samples.fa" || len(got.Reports) != 1 {
		t.Errorf("writeJSON() wrote %+v", got)
	}
	if got.Reports[0].Variant != report.Variant {
		t.Errorf("writeJSON() variant = %s, want %s", got.Reports[0].Variant, report.Variant)
	}
}

func TestGuessOutput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"samples.fa", "samples.output.json"},
		{filepath.Join("data", "gisaid.fasta"), filepath.Join("data", "gisaid.output.json")},
		{"genomes", "genomes.output.json"},
	}

	for _, tt := range tests {
		if got := guessOutput(tt.in); got != tt.want {
			t.Errorf("guessOutput(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
