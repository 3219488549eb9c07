// Package api serves the search pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe
//	GET  /version     build information
//	POST /v1/search   run a search and return graphs and artifacts
//
// A search request carries the problem inline, in the same shape as a JSON
// problem file, plus pipeline options:
//
//	{
//	  "problem": {"models": [{"variables": ["A", "B", "C"],
//	                          "separations": [{"x": "A", "y": "C"}]}]},
//	  "options": {"formats": ["dot"], "search": {"depth": 2}}
//	}
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// a status derived from the error code.
package api
