package render

import (
	"fmt"
	"strings"
)

// Format is an output encoding for search results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", s, strings.Join(Names(), ", "))
}

// Names returns the format names for help text.
func Names() []string {
	out := make([]string, len(Formats))
	for i, f := range Formats {
		out[i] = string(f)
	}
	return out
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "text/plain; charset=utf-8"
}
