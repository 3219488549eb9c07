// Package pkg provides the libraries behind dci, which merges overlapping
// local causal models into every PAG consistent with all of them.
//
// # Overview
//
// Each local model covers some of the variables and records which pairs it
// found independent and under which conditioning sets. A PAG over the union
// of the variables is consistent when it predicts every one of those
// independences and dependences on the model's own variables. The search
// finds all such PAGs.
//
// # Architecture
//
// The data flow through dci:
//
//	problem file (TOML, YAML or JSON)
//	         ↓
//	    [io] package (decode models, derive evidence from a known truth)
//	         ↓
//	    [adjacency] + [sepset] (per-model skeletons and separating sets)
//	         ↓
//	    [trek] (paths that must stay open in the merged graph)
//	         ↓
//	    [search] (skeletons × collider sets, oriented by [orient])
//	         ↓
//	    [render] (text, JSON, DOT or SVG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/dci/pkg/io"
//	    "github.com/matzehuels/dci/pkg/search"
//	)
//
//	problem, _ := io.Load("models.toml")
//	models, _ := problem.Models()
//	s, _ := search.New(models, problem.SearchOptions(search.DefaultOptions()))
//	graphs, _ := s.Run(ctx)
//
// # Main Packages
//
// ## Graph Model
//
// [pag] - Partial ancestral graphs with circle, arrow and tail marks,
// underlined triples and m-separation.
//
// [combin] - Subsets, power sets and cross products used by the search.
//
// ## Local Evidence
//
// [sepset] - Separating-set ledgers, with restriction and closure.
//
// [adjacency] - Skeleton search against an independence oracle, including
// the d-separation oracle over a known graph.
//
// ## Merging
//
// [trek] - Treks between adjacent pairs, minimal spanning edge sets and
// witnesses that keep each trek open.
//
// [orient] - FCI orientation rules R0 to R10, including the discriminating
// path rule.
//
// [search] - The merge itself: necessary edges, candidate skeletons,
// collider sets and the final consistency checks.
//
// ## Infrastructure
//
// [pipeline] - Load → search → render with caching, shared by the CLI and
// the HTTP API.
//
// [cache] - File, Redis and MongoDB caches keyed by content hashes.
//
// [render] and [render/nodelink] - Text listings and Graphviz diagrams.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for search, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/search/...   # Specific package
//	go test -run Example       # Examples only
//
// [io]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/io
// [adjacency]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/adjacency
// [sepset]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/sepset
// [trek]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/trek
// [search]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/search
// [orient]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/orient
// [render]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/render/nodelink
// [pag]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/pag
// [combin]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/combin
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dci/pkg/buildinfo
package pkg
