package cache

// ScopedKeyer wraps a Keyer with a prefix so that several builds or
// workspaces can share one cache directory without seeing each other's
// entries.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "configtower:v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed key for report caching.
func (k *ScopedKeyer) AnalysisKey(snapshotHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(snapshotHash, opts)
}

// RenderKey generates a prefixed key for diagram caching.
func (k *ScopedKeyer) RenderKey(snapshotHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(snapshotHash, opts)
}
