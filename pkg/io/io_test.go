package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dci/pkg/adjacency"
	errs "github.com/matzehuels/dci/pkg/errors"
	"github.com/matzehuels/dci/pkg/pag"
	"github.com/matzehuels/dci/pkg/search"
)

const tomlProblem = `
[options]
depth = 2
complete_rules = true

[[models]]
name = "left"
variables = ["A", "B", "C"]
separations = [{ x = "A", y = "C", given = ["B"] }]

[[models]]
name = "right"
variables = ["B", "C", "D"]
associations = [{ x = "B", y = "C" }]
`

const yamlProblem = `
options:
  workers: 3
  max_trek_length: 4
models:
  - name: left
    variables: [A, B, C]
    separations:
      - {x: A, y: C, given: [B]}
`

const jsonProblem = `{
  "truth": {"edges": ["A --> B", "C --> B"], "ledger": "closure"},
  "models": [{"name": "all", "variables": ["A", "B", "C"]}]
}`

func TestDecodeTOML(t *testing.T) {
	p, err := Decode(strings.NewReader(tomlProblem), FormatTOML)
	require.NoError(t, err)
	require.Len(t, p.Specs, 2)

	models, err := p.Models()
	require.NoError(t, err)
	assert.Equal(t, "left", models[0].Name)
	z, ok := models[0].Ledger.Get("C", "A")
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, z)
	assert.Nil(t, models[1].Ledger)
	assert.Equal(t, []adjacency.Association{{X: "B", Y: "C"}}, models[1].Associations)

	opts := p.SearchOptions(search.DefaultOptions())
	assert.Equal(t, 2, opts.Depth)
	assert.True(t, opts.CompleteRuleSet)
	assert.Equal(t, search.Unlimited, opts.MaxTrekLength)
}

func TestDecodeYAML(t *testing.T) {
	p, err := Decode(strings.NewReader(yamlProblem), FormatYAML)
	require.NoError(t, err)

	base := search.DefaultOptions()
	base.Depth = 1
	opts := p.SearchOptions(base)
	assert.Equal(t, 1, opts.Depth)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 4, opts.MaxTrekLength)

	models, err := p.Models()
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.True(t, models[0].Ledger.Has("A", "C"))
}

func TestDecodeJSONClosure(t *testing.T) {
	p, err := Decode(strings.NewReader(jsonProblem), FormatJSON)
	require.NoError(t, err)
	models, err := p.Models()
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Nil(t, m.Oracle)
	require.NotNil(t, m.Ledger)
	assert.True(t, m.Ledger.Has("A", "C"))
	assert.False(t, m.Ledger.Has("A", "B"))
	assert.False(t, m.Ledger.Contains("A", "C", "B"))
}

func TestTruthOracle(t *testing.T) {
	p := &Problem{
		Truth: &TruthSpec{Edges: []string{"A --> B", "B --> C"}, Nodes: []string{"D"}},
		Specs: []ModelSpec{
			{Name: "ac", Variables: []string{"A", "C"}},
			{Name: "bd", Variables: []string{"B", "D"},
				Separations: []Statement{{X: "B", Y: "D"}}},
		},
	}
	models, err := p.Models()
	require.NoError(t, err)

	oracle, ok := models[0].Oracle.(adjacency.DSepOracle)
	require.True(t, ok)
	assert.Nil(t, models[0].Ledger)
	assert.Equal(t, []string{"D", "A", "B", "C"}, oracle.Graph.Nodes())
	assert.True(t, oracle.Graph.IsDSeparated("A", "C", []string{"B"}))

	assert.Nil(t, models[1].Oracle)
	assert.True(t, models[1].Ledger.Has("B", "D"))
}

func TestTruthErrors(t *testing.T) {
	tests := []struct {
		name  string
		truth TruthSpec
	}{
		{"bad edge", TruthSpec{Edges: []string{"A -> B"}}},
		{"bad name", TruthSpec{Edges: []string{"A --> 1B"}}},
		{"duplicate edge", TruthSpec{Edges: []string{"A --> B", "B --> A"}}},
		{"ledger mode", TruthSpec{Edges: []string{"A --> B"}, Ledger: "guess"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Problem{Truth: &tt.truth, Specs: []ModelSpec{{Variables: []string{"A", "B"}}}}
			_, err := p.Models()
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidModel), err.Error())
		})
	}
}

func TestModelsErrors(t *testing.T) {
	_, err := (&Problem{}).Models()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidModel))

	p := &Problem{Specs: []ModelSpec{{Variables: []string{"A", "B"}, Separations: []Statement{{X: "A"}}}}}
	_, err = p.Models()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#1")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("models = ["), FormatTOML)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))

	_, err = Decode(strings.NewReader(`{"modles": []}`), FormatJSON)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))

	_, err = Decode(strings.NewReader(""), Format("ini"))
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problem.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlProblem), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Specs, 1)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))

	_, err = Load(filepath.Join(dir, "problem.ini"))
	assert.True(t, errs.Is(err, errs.ErrCodeUnsupported))
}

func TestLoadExamples(t *testing.T) {
	paths, err := filepath.Glob("../../examples/*")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := Load(path)
			require.NoError(t, err)
			models, err := p.Models()
			require.NoError(t, err)
			assert.NotEmpty(t, models)
		})
	}
}

func resultGraphs(t *testing.T) []*pag.Graph {
	t.Helper()
	g, err := pag.New("A", "B", "C")
	require.NoError(t, err)
	require.NoError(t, g.AddEdge("A", "B", pag.Circle, pag.Arrow))
	require.NoError(t, g.AddEdge("B", "C", pag.Arrow, pag.Circle))
	h := g.Clone()
	require.NoError(t, h.AddBidirectedEdge("A", "C"))
	return []*pag.Graph{g, h}
}

func TestResultRoundTrip(t *testing.T) {
	graphs := resultGraphs(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []string{"A", "B", "C"}, graphs))
	assert.Contains(t, buf.String(), `"A o-> B"`)
	assert.Contains(t, buf.String(), `"A <-> C"`)
	assert.NotContains(t, buf.String(), `\u003e`)

	vars, got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, vars)
	require.Len(t, got, 2)
	for i := range graphs {
		assert.True(t, graphs[i].Equal(got[i]))
	}
}

func TestReadJSONKeyMismatch(t *testing.T) {
	in := `{"variables": ["A", "B"], "graphs": [{"key": "A,B", "edges": ["A --> B"]}]}`
	_, _, err := ReadJSON(strings.NewReader(in))
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestReadJSONMissingKey(t *testing.T) {
	in := `{"variables": ["A", "B"], "graphs": [{"edges": ["A --> B"]}]}`
	_, _, err := ReadJSON(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
	assert.Contains(t, err.Error(), "missing key")
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportJSON(path, []string{"A", "B", "C"}, resultGraphs(t)))

	_, got, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, _, err = ImportJSON(path + ".missing")
	assert.True(t, errs.Is(err, errs.ErrCodeFileNotFound))
}

func TestEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, nil))
	vars, got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Empty(t, vars)
	assert.Empty(t, got)
}
