package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "models.toml", "models"},
		{"", "dir/models.yaml", "dir/models"},
		{"out/result.svg", "models.toml", "out/result"},
		{"out/result.txt", "models.toml", "out/result"},
		{"out/result", "models.toml", "out/result"},
		{"out/result.v2", "models.toml", "out/result.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	paths := artifactPaths([]string{"svg"}, "graph.out", "models.toml")
	if paths["svg"] != "graph.out" {
		t.Errorf("single format keeps output: got %q", paths["svg"])
	}

	paths = artifactPaths([]string{"text", "json", "dot"}, "", "models.toml")
	want := map[string]string{"text": "models.txt", "json": "models.json", "dot": "models.dot"}
	for f, p := range want {
		if paths[f] != p {
			t.Errorf("paths[%s] = %q, want %q", f, paths[f], p)
		}
	}
}

func TestToStdout(t *testing.T) {
	if !toStdout([]string{"svg"}, "-") {
		t.Error(`"-" should always write to stdout`)
	}
	if !toStdout([]string{"text"}, "") {
		t.Error("text without output should write to stdout")
	}
	if toStdout([]string{"json"}, "") {
		t.Error("json without output should write a file")
	}
	if toStdout([]string{"text", "dot"}, "") {
		t.Error("several formats should write files")
	}
}

func TestWriteArtifactsStdout(t *testing.T) {
	var buf bytes.Buffer
	artifacts := map[string][]byte{"text": []byte("T"), "dot": []byte("D")}
	written, err := writeArtifacts(&buf, artifacts, []string{"dot", "text"}, "-", "models.toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 0 {
		t.Errorf("written = %v, want none", written)
	}
	if buf.String() != "DT" {
		t.Errorf("stdout = %q, want formats in request order", buf.String())
	}
}

func TestWriteArtifactsFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "nested", "result")
	artifacts := map[string][]byte{"json": []byte("{}"), "dot": []byte("digraph G {}")}

	written, err := writeArtifacts(&bytes.Buffer{}, artifacts, []string{"json", "dot"}, base, "models.toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 || written[0] != base+".json" || written[1] != base+".dot" {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(base + ".dot")
	if err != nil || string(data) != "digraph G {}" {
		t.Errorf("dot file = %q, %v", data, err)
	}
}
