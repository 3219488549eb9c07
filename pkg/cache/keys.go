package cache

import (
	"strings"
	"time"
)

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey is the key of the search output for a problem.
	ResultKey(problemHash string, opts ResultKeyOpts) string

	// ArtifactKey is the key of a rendered result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds the search options that change the output. Worker
// count and exhaustive mode do not and are left out.
type ResultKeyOpts struct {
	Depth         int  `json:"depth"`
	MaxTrekLength int  `json:"max_trek_length"`
	CompleteRules bool `json:"complete_rules"`
}

// ArtifactKeyOpts holds the rendering options of an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Title      string `json:"title,omitempty"`
	Underlines bool   `json:"underlines,omitempty"`
	Index      int    `json:"index"`
}

// DefaultKeyer produces "result:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey hashes the problem hash together with opts.
func (DefaultKeyer) ResultKey(problemHash string, opts ResultKeyOpts) string {
	return hashKey("result", problemHash, opts)
}

// ArtifactKey hashes the result hash together with opts.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// keyType returns the part of key before the first colon after any scope
// prefix, e.g. "result" for "user:1:result:ab12".
func keyType(key string) string {
	for _, t := range []string{"result", "artifact"} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	return "other"
}

// Entry lifetimes used by the pipeline.
const (
	TTLResult   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
