// Package io reads problem files and reads and writes search results.
//
// # Problem Files
//
// A problem file describes the local models to merge and, optionally, the
// search options. TOML, YAML and JSON are accepted; [Load] picks the decoder
// from the file extension (.toml, .yaml or .yml, .json). A TOML example:
//
//	[options]
//	depth = 2
//	complete_rules = true
//
//	[[models]]
//	name = "left"
//	variables = ["A", "B", "C"]
//	separations = [{ x = "A", y = "C", given = ["B"] }]
//
//	[[models]]
//	name = "right"
//	variables = ["B", "C", "D"]
//	separations = [{ x = "B", y = "D", given = ["C"] }]
//
// Instead of writing separations by hand, a problem may carry a reference
// graph under "truth". Every model that lists neither separations nor
// associations then derives its evidence from that graph:
//
//	[truth]
//	edges = ["A --> B", "C --> B", "B --> D"]
//	ledger = "oracle"
//
// With ledger "oracle" (the default) each model gets a d-separation oracle
// and the search runs an adjacency search over its variables. With ledger
// "closure" every separating set among the model's variables is recorded
// up front.
//
// Edges use the notation of [pag.Edge.String]: "-->", "<->", "o->", "<-o",
// "o-o" and "---".
//
// # Result Files
//
// [WriteJSON] stores the output of a search as
//
//	{
//	  "variables": ["A", "B", "C"],
//	  "graphs": [
//	    {"key": "...", "fingerprint": "...", "edges": ["A o-> B", "C o-> B"]}
//	  ]
//	}
//
// and [ReadJSON] restores the graphs, checking each against its key.
package io
