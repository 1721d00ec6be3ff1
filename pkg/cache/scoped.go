package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Shared deployments use this to keep per-tenant datasets from colliding
// in one Redis instance.
//
// Example usage:
//
//	// Tenant-specific keys
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
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

// DatasetKey generates a prefixed key for an expanded dataset.
func (k *ScopedKeyer) DatasetKey(inputHash string, opts ExpandKeyOpts) string {
	return k.prefix + k.inner.DatasetKey(inputHash, opts)
}

// ArtifactKey generates a prefixed key for rendered chart options.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
