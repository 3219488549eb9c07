package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dci/pkg/render"
)

// stdoutPath makes commands write their artifacts to standard output.
const stdoutPath = "-"

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, f := range render.Formats {
		if f.Ext() == ext {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// artifactPaths maps each format to the file it is written to. A single
// format with an explicit output keeps the output path as given.
func artifactPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + render.Format(f).Ext()
	}
	return paths
}

// toStdout reports whether artifacts go to w instead of files: either the
// output is "-", or nothing was named and only text was requested.
func toStdout(formats []string, output string) bool {
	if output == stdoutPath {
		return true
	}
	return output == "" && len(formats) == 1 && formats[0] == string(render.FormatText)
}

// writeArtifacts writes artifacts in format order, to w or to files.
// It returns the files written.
func writeArtifacts(w io.Writer, artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if toStdout(formats, output) {
		for _, f := range formats {
			if _, err := w.Write(artifacts[f]); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	paths := artifactPaths(formats, output, input)
	var written []string
	for _, f := range formats {
		path := paths[f]
		if filepath.Clean(path) == filepath.Clean(input) {
			return written, fmt.Errorf("output %s would overwrite the input file", path)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
