package encode

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"uppercase and strip whitespace",
			"ac gt\nAC\r\nGT",
			"ACGTACGT",
		},
		{
			"ambiguity codes and garbage become N",
			"ARYKmn-*?T",
			"ANNNNNNNNT",
		},
		{
			"multi-byte characters are one N each",
			"AéC\u00a0G✓T",
			"ANCNGNT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if len(got) != Length {
				t.Fatalf("Normalize() length = %d, want %d", len(got), Length)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Normalize() prefix = %q, want %q", got[:len(tt.want)], tt.want)
			}
			if strings.Trim(got[len(tt.want):], "N") != "" {
				t.Errorf("Normalize() padded with something other than N")
			}
		})
	}
}

func TestEncode_shape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"short", "ACGTACGTAC"},
		{"exact", strings.Repeat("A", Length)},
		{"long", strings.Repeat("ACGT", Length)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, l := Encode(tt.raw).Shape()
			if c != Channels || l != Length {
				t.Errorf("Encode().Shape() = (%d, %d), want (%d, %d)", c, l, Channels, Length)
			}
		})
	}
}

func TestEncode_padding(t *testing.T) {
	enc := Encode("ACGTACGTAC")

	want := [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	for pos, col := range want {
		got := enc.Column(pos)
		for c := range col {
			if got[c] != col[c] {
				t.Errorf("Column(%d) = %v, want %v", pos, got, col)
				break
			}
		}
	}

	for pos := 10; pos < Length; pos++ {
		for _, v := range enc.Column(pos) {
			if v != 0 {
				t.Fatalf("padded position %d encoded to %v, want the zero vector", pos, enc.Column(pos))
			}
		}
	}

	mask := enc.Mask()
	for pos, m := range mask {
		if want := pos < 10; (m == 1) != want {
			t.Fatalf("Mask()[%d] = %v", pos, m)
		}
	}
}

func TestEncode_truncates(t *testing.T) {
	raw := strings.Repeat("G", Length) + "TTTT"
	enc := Encode(raw)

	if got := enc.Base(Length - 1); got != 'G' {
		t.Errorf("Base(%d) = %c, want G", Length-1, got)
	}
	if strings.Contains(enc.String(), "T") {
		t.Error("tail past the fixed length leaked into the encoding")
	}
}

// decoding every column gives back the normalized sequence
func TestEncode_roundTrip(t *testing.T) {
	raws := []string{
		"acgtNNacgt\nRYKM",
		"",
		strings.Repeat("TTGACCA", 5000),
	}

	for _, raw := range raws {
		if got, want := Encode(raw).String(), Normalize(raw); got != want {
			t.Errorf("Encode(%.20q).String() differs from Normalize()", raw)
		}
	}
}

func TestEncode_deterministic(t *testing.T) {
	a := Encode("ACGTNACGT")
	b := Encode("ACGTNACGT")
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("Encode() differs at %d", i)
		}
	}
}

func TestTensor_Codon(t *testing.T) {
	enc := EncodeTo("ATGGC", 5)

	tests := []struct {
		pos  int
		want string
	}{
		{0, "ATG"},
		{3, "GCN"}, // runs off the end
		{-3, "NNN"},
	}
	for _, tt := range tests {
		if got := enc.Codon(tt.pos); got != tt.want {
			t.Errorf("Codon(%d) = %s, want %s", tt.pos, got, tt.want)
		}
	}
}

func TestFromData(t *testing.T) {
	if _, err := FromData(4, 3, make([]float64, 11)); err == nil {
		t.Error("FromData() expected an error for a short slice")
	}
	if _, err := FromData(4, 3, make([]float64, 12)); err != nil {
		t.Errorf("FromData() error = %v", err)
	}
}

func TestNormalizeTo_runes(t *testing.T) {
	tests := []struct {
		raw    string
		length int
		want   string
	}{
		{"AéC", 5, "ANCNN"},
		{"é\r\nA", 3, "NAN"},
		{"日本GT", 4, "NNGT"},
		{"ACGT🧬", 4, "ACGT"},
	}

	for _, tt := range tests {
		if got := NormalizeTo(tt.raw, tt.length); got != tt.want {
			t.Errorf("NormalizeTo(%q, %d) = %q, want %q", tt.raw, tt.length, got, tt.want)
		}
	}
}
