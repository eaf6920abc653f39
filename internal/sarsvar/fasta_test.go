package sarsvar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sbinet/npyio"
	"github.com/varshithab05/CoviScope/internal/encode"
	"gonum.org/v1/gonum/mat"
)

func TestParseFASTA(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"header and two lines",
			">hCoV-19/England/MILK-9E05B3/2020\nACGTACGT\nTTGGCCAA\n",
			"ACGTACGTTTGGCCAA",
		},
		{
			"no header",
			"acgt\nnnnn",
			"acgtnnnn",
		},
		{
			"every header dropped",
			">a\nAAA\n>b\nCCC",
			"AAACCC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFASTA(tt.text); got != tt.want {
				t.Errorf("ParseFASTA() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadRecords(t *testing.T) {
	text := ">first sample\nACGT\nACGT\n>second\nRYKM\nacgt\n"

	records, err := ReadRecords(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ReadRecords() = %v, want 2 records", records)
	}

	if records[0].ID != "first" || records[0].Seq != "ACGTACGT" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].ID != "second" || !strings.EqualFold(records[1].Seq, "RYKMACGT") {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func writeReference(t *testing.T, path string, ref *encode.Tensor) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := npyio.Write(f, mat.NewDense(ref.Channels, ref.Length, ref.Data)); err != nil {
		t.Fatal(err)
	}
}

func TestLoadReference(t *testing.T) {
	dir := t.TempDir()
	ref := encode.EncodeTo("ATTAAAGGTTTATACCTTCCCAGGTAACAAACC", 50)

	path := filepath.Join(dir, "reference.npy")
	writeReference(t, path, ref)

	got, err := LoadReference(path, 50)
	if err != nil {
		t.Fatalf("LoadReference() error = %v", err)
	}
	if got.String() != ref.String() {
		t.Errorf("LoadReference() = %s, want %s", got.String(), ref.String())
	}

	if _, err := LoadReference(path, 51); err == nil {
		t.Error("LoadReference() expected a shape error")
	}

	if _, err := LoadReference(filepath.Join(dir, "missing.npy"), 50); !errors.Is(err, ErrMissingReference) {
		t.Errorf("LoadReference() error = %v, want ErrMissingReference", err)
	}
}
