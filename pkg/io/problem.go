package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dci/pkg/adjacency"
	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/search"
	"github.com/matzehuels/dci/pkg/sepset"
)

// Format is a problem file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported problem file %s", path)
}

// Problem is the decoded content of a problem file.
type Problem struct {
	Options OptionsSpec `toml:"options" yaml:"options" json:"options"`
	Truth   *TruthSpec  `toml:"truth" yaml:"truth" json:"truth,omitempty"`
	Specs   []ModelSpec `toml:"models" yaml:"models" json:"models"`
}

// OptionsSpec holds the search options a file may set. Unset fields keep
// the caller's defaults.
type OptionsSpec struct {
	Depth         *int  `toml:"depth" yaml:"depth" json:"depth,omitempty"`
	Workers       *int  `toml:"workers" yaml:"workers" json:"workers,omitempty"`
	CompleteRules *bool `toml:"complete_rules" yaml:"complete_rules" json:"complete_rules,omitempty"`
	MaxTrekLength *int  `toml:"max_trek_length" yaml:"max_trek_length" json:"max_trek_length,omitempty"`
}

// ModelSpec is one local model.
type ModelSpec struct {
	Name         string      `toml:"name" yaml:"name" json:"name,omitempty"`
	Variables    []string    `toml:"variables" yaml:"variables" json:"variables"`
	Separations  []Statement `toml:"separations" yaml:"separations" json:"separations,omitempty"`
	Associations []Statement `toml:"associations" yaml:"associations" json:"associations,omitempty"`
}

// Statement says that X and Y are separated, or associated, given Given.
type Statement struct {
	X     string   `toml:"x" yaml:"x" json:"x"`
	Y     string   `toml:"y" yaml:"y" json:"y"`
	Given []string `toml:"given" yaml:"given" json:"given,omitempty"`
}

// Decode reads a problem in the given format.
func Decode(r io.Reader, format Format) (*Problem, error) {
	var p Problem
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&p)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&p)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return &p, nil
}

// Load reads the problem file at path.
func Load(path string) (*Problem, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, format)
}

// SearchOptions returns base with the options the file sets applied.
func (p *Problem) SearchOptions(base search.Options) search.Options {
	o := p.Options
	if o.Depth != nil {
		base.Depth = *o.Depth
	}
	if o.Workers != nil {
		base.Workers = *o.Workers
	}
	if o.CompleteRules != nil {
		base.CompleteRuleSet = *o.CompleteRules
	}
	if o.MaxTrekLength != nil {
		base.MaxTrekLength = *o.MaxTrekLength
	}
	return base
}

// Models converts the problem into local models. Models without evidence
// of their own take it from the truth graph when there is one.
func (p *Problem) Models() ([]search.LocalModel, error) {
	if len(p.Specs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidModel, "problem has no models")
	}
	var truth *truthSource
	if p.Truth != nil {
		var err error
		if truth, err = p.Truth.source(p.Specs); err != nil {
			return nil, err
		}
	}

	out := make([]search.LocalModel, len(p.Specs))
	for i, m := range p.Specs {
		lm := search.LocalModel{Name: m.Name, Variables: m.Variables}
		if len(m.Separations) > 0 {
			lm.Ledger = sepset.New()
			for _, s := range m.Separations {
				if s.X == "" || s.Y == "" {
					return nil, errs.New(errs.ErrCodeInvalidModel, "model %s: separation needs x and y", label(m, i))
				}
				lm.Ledger.Add(s.X, s.Y, s.Given)
			}
		}
		for _, a := range m.Associations {
			if a.X == "" || a.Y == "" {
				return nil, errs.New(errs.ErrCodeInvalidModel, "model %s: association needs x and y", label(m, i))
			}
			lm.Associations = append(lm.Associations, adjacency.Association{X: a.X, Y: a.Y, Z: a.Given})
		}
		if truth != nil && len(m.Separations) == 0 && len(m.Associations) == 0 {
			truth.apply(&lm)
		}
		out[i] = lm
	}
	return out, nil
}

func label(m ModelSpec, i int) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
