package cache

// ScopedKeyer wraps a Keyer with a prefix, so several workspaces can share
// one backend without seeing each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ws:handbook:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TOCKey generates a prefixed TOC key.
func (k *ScopedKeyer) TOCKey(inputHash string, opts TOCKeyOpts) string {
	return k.prefix + k.inner.TOCKey(inputHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(tocHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tocHash, opts)
}
