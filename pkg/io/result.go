package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/pag"
)

type result struct {
	Variables []string      `json:"variables"`
	Graphs    []resultGraph `json:"graphs"`
}

type resultGraph struct {
	Key         string   `json:"key"`
	Fingerprint string   `json:"fingerprint"`
	Edges       []string `json:"edges"`
}

// WriteJSON encodes the variables and graphs of a search result to w as
// indented JSON.
func WriteJSON(w io.Writer, variables []string, graphs []*pag.Graph) error {
	out := result{Variables: variables, Graphs: make([]resultGraph, len(graphs))}
	if out.Variables == nil {
		out.Variables = []string{}
	}
	for i, g := range graphs {
		edges := g.Edges()
		rg := resultGraph{
			Key:         g.Key(),
			Fingerprint: strconv.FormatUint(g.Fingerprint(), 16),
			Edges:       make([]string, len(edges)),
		}
		for j, e := range edges {
			rg.Edges[j] = e.String()
		}
		out.Graphs[i] = rg
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// ReadJSON decodes a result written by [WriteJSON]. Each graph is rebuilt
// over the result's variables and must carry a key that it reproduces.
func ReadJSON(r io.Reader) ([]string, []*pag.Graph, error) {
	var data result
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}

	graphs := make([]*pag.Graph, len(data.Graphs))
	for i, rg := range data.Graphs {
		g, err := pag.New(data.Variables...)
		if err != nil {
			return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph %d", i)
		}
		for _, s := range rg.Edges {
			e, err := pag.ParseEdge(s)
			if err != nil {
				return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph %d", i)
			}
			if err := g.AddEdge(e.X, e.Y, e.AtX, e.AtY); err != nil {
				return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph %d: edge %s", i, s)
			}
		}
		if rg.Key == "" {
			return nil, nil, errs.New(errs.ErrCodeInvalidFormat, "graph %d: missing key", i)
		}
		if rg.Key != g.Key() {
			return nil, nil, errs.New(errs.ErrCodeInvalidFormat, "graph %d: key mismatch", i)
		}
		graphs[i] = g
	}
	return data.Variables, graphs, nil
}

// ExportJSON writes a result file at path.
func ExportJSON(path string, variables []string, graphs []*pag.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, variables, graphs); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ImportJSON reads a result file written by [ExportJSON].
func ImportJSON(path string) ([]string, []*pag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
