package cmd

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
)

func Test_makeDocs(t *testing.T) {
	dir := t.TempDir()
	if err := makeDocs(dir); err != nil {
		t.Fatalf("makeDocs() error = %v", err)
	}

	for name, p := range pages {
		contents, err := ioutil.ReadFile(filepath.Join(dir, name+".md"))
		if err != nil {
			t.Errorf("makeDocs() didn't write %s: %v", name, err)
			continue
		}
		if !strings.HasPrefix(string(contents), "---\nlayout: default\ntitle: "+p.title+"\n") {
			t.Errorf("%s.md is missing its front matter:\n%s", name, contents)
		}
	}

	// hidden commands aren't documented
	if _, err := ioutil.ReadFile(filepath.Join(dir, "coviscope_docs.md")); err == nil {
		t.Error("makeDocs() documented the hidden docs command")
	}
}

func Test_linkHandler(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"coviscope.md", "/"},
		{"coviscope_classify.md", "coviscope_classify"},
		{"coviscope_serve.md", "coviscope_serve"},
	}

	for _, tt := range tests {
		if got := linkHandler(tt.filename); got != tt.want {
			t.Errorf("linkHandler(%s) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func Test_commands(t *testing.T) {
	for _, name := range []string{"classify", "batch", "serve", "docs"} {
		c, _, err := RootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("RootCmd.Find(%s) = %v, %v", name, c, err)
		}
	}

	for _, flag := range []string{"config", "model", "reference", "top-n"} {
		if RootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}
