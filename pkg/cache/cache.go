// Package cache provides caching for expansion results and rendered chart
// options.
//
// Expanding a dataset and building its chart options are deterministic, so
// both stages are cached by content hash: the dataset key covers the input
// bytes plus the expansion options, the artifact key covers the expanded
// dataset plus the output format. Backends share one small interface;
// [FileCache] serves single-user CLI runs, [RedisCache] serves shared
// deployments of the HTTP API, and [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached pipeline stages.
const (
	// TTLDataset bounds how long an expanded dataset is kept.
	TTLDataset = 24 * time.Hour

	// TTLArtifact bounds how long rendered chart options are kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ExpandKeyOpts are the expansion options that shape a dataset cache key.
type ExpandKeyOpts struct {
	Delta  float64
	Policy string
}

// ArtifactKeyOpts are the render options that shape an artifact cache key.
type ArtifactKeyOpts struct {
	Format string
	Title  string
	Colors []string
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DatasetKey keys an expanded dataset by input hash and options.
	DatasetKey(inputHash string, opts ExpandKeyOpts) string

	// ArtifactKey keys rendered chart options by dataset hash and options.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all option fields into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DatasetKey generates a key for an expanded dataset.
func (DefaultKeyer) DatasetKey(inputHash string, opts ExpandKeyOpts) string {
	return hashKey("dataset", inputHash, opts)
}

// ArtifactKey generates a key for rendered chart options.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}
