package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Way/highcharts-utils/pkg/cache"
	"github.com/Way/highcharts-utils/pkg/chart"
	"github.com/Way/highcharts-utils/pkg/errors"
	pkgio "github.com/Way/highcharts-utils/pkg/io"
	"github.com/Way/highcharts-utils/pkg/observability"
	"github.com/Way/highcharts-utils/pkg/series"
	"github.com/Way/highcharts-utils/pkg/series/gapfix"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → expand → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	list, raw, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.SeriesCount = len(list)
	for _, s := range list {
		result.Stats.PointCount += s.Len()
		result.Stats.GapCount += s.GapCount()
	}

	r.Logger.Info("loaded series",
		"series", result.Stats.SeriesCount,
		"points", result.Stats.PointCount,
		"gaps", result.Stats.GapCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Expand
	expandStart := time.Now()
	expanded, expandHit, err := r.ExpandWithCacheInfo(ctx, raw, list, opts)
	if err != nil {
		return nil, err
	}
	result.Series = expanded
	result.Stats.ExpandTime = time.Since(expandStart)
	result.CacheInfo.ExpandHit = expandHit
	result.Stats.FixCount = countFixes(expanded)

	// Compute dataset hash for cache keys and API responses
	if data, err := marshalDataset(expanded); err == nil {
		result.DatasetHash = cache.Hash(data)
	}

	r.Logger.Info("expanded gaps",
		"fixes", result.Stats.FixCount,
		"cached", expandHit,
		"duration", result.Stats.ExpandTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, expanded, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input and returns the parsed series set alongside the raw
// input bytes. The raw bytes feed the expand stage's cache key.
func (r *Runner) Load(ctx context.Context, opts Options) ([]*series.Series, []byte, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	source := opts.Input
	if source == "" {
		source = "inline"
	}
	observability.Pipeline().OnLoadStart(ctx, source, opts.InputFormat)

	raw := opts.Data
	if opts.Input != "" {
		var err error
		raw, err = os.ReadFile(opts.Input)
		if os.IsNotExist(err) {
			err = errors.New(errors.ErrCodeFileNotFound, "input file not found: %s", opts.Input)
		} else if err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read input")
		}
		if err != nil {
			observability.Pipeline().OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
			return nil, nil, err
		}
	}

	var list []*series.Series
	var err error
	switch opts.InputFormat {
	case InputCSV:
		list, err = pkgio.ReadCSV(bytes.NewReader(raw))
	default:
		list, err = pkgio.ReadJSON(bytes.NewReader(raw))
	}
	points := 0
	for _, s := range list {
		points += s.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, source, len(list), points, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return list, raw, nil
}

// ExpandWithCacheInfo expands gaps with caching and returns cache hit info.
// The raw input bytes and the expansion options form the cache key, so the
// same input never gets expanded twice.
func (r *Runner) ExpandWithCacheInfo(ctx context.Context, raw []byte, list []*series.Series, opts Options) ([]*series.Series, bool, error) {
	if err := opts.ValidateForExpand(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	gopts, err := opts.GapfixOptions()
	if err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.DatasetKey(cache.Hash(raw), opts.ExpandKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := pkgio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "dataset")

	gaps := 0
	for _, s := range list {
		gaps += s.GapCount()
	}

	start := time.Now()
	observability.Pipeline().OnExpandStart(ctx, len(list), gaps)
	inserted, err := gapfix.Expand(list, gopts)
	observability.Pipeline().OnExpandComplete(ctx, inserted, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := marshalDataset(list); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDataset); err == nil {
			observability.Cache().OnCacheSet(ctx, "dataset", len(data))
		}
	}

	return list, false, nil // Cache miss
}

// Expand is a convenience wrapper that calls ExpandWithCacheInfo and discards the cache hit info.
func (r *Runner) Expand(ctx context.Context, raw []byte, list []*series.Series, opts Options) ([]*series.Series, error) {
	expanded, _, err := r.ExpandWithCacheInfo(ctx, raw, list, opts)
	return expanded, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, list []*series.Series, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the expanded dataset
	datasetData, err := marshalDataset(list)
	if err != nil {
		return nil, false, err
	}
	datasetHash := cache.Hash(datasetData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatDataset:
			data = datasetData
		default:
			data, err = chart.Marshal(chart.Build(list, chart.Config{
				Title:  opts.Title,
				Colors: opts.Colors,
			}))
		}
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		rendered[format] = data
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, list []*series.Series, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, list, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// marshalDataset serializes a series set in the canonical dataset form.
func marshalDataset(list []*series.Series) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(list, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countFixes counts boundary-fix points across a series set.
func countFixes(list []*series.Series) int {
	n := 0
	for _, s := range list {
		for _, p := range s.Points {
			if p.Kind == series.KindBoundaryFix {
				n++
			}
		}
	}
	return n
}
