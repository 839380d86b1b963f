package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// namespaced hashes the JSON encoding of parts under a namespace, giving
// keys such as "analysis:3f1c…". Parts are strings and flat option
// structs, which always encode.
func namespaced(ns string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return ns + ":" + Hash(data)
}

// Keyer derives cache keys for cached artifacts.
type Keyer interface {
	// AnalysisKey keys a whole-graph report.
	AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string

	// RenderKey keys a rendered diagram.
	RenderKey(snapshotHash string, opts RenderKeyOpts) string
}

// AnalysisKeyOpts are the options that change an analysis result.
type AnalysisKeyOpts struct {
	// Version invalidates entries written by older engines.
	Version string `json:"version,omitempty"`
}

// RenderKeyOpts are the options that change a rendered diagram.
type RenderKeyOpts struct {
	Format    string `json:"format"`
	Direction string `json:"direction,omitempty"`
	Detailed  bool   `json:"detailed,omitempty"`
	HideRules bool   `json:"hide_rules,omitempty"`
}

// DefaultKeyer hashes the snapshot and options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey returns "analysis:<sha256>".
func (DefaultKeyer) AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string {
	return namespaced("analysis", snapshotHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(snapshotHash string, opts RenderKeyOpts) string {
	return namespaced("render", snapshotHash, opts)
}
