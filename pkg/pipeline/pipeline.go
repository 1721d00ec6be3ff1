// Package pipeline provides the core chart pipeline.
//
// This package implements the complete load → expand → render pipeline that
// is shared by the CLI and the HTTP API. By centralizing this logic, both
// entry points behave identically and caching works the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a series set from JSON or CSV input
//  2. Expand: Insert boundary-fix points around null gaps
//  3. Render: Generate output artifacts (Highcharts options, dataset JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// The expand and render stages are cached by content hash.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "metrics.json",
//	    Delta:   1000,
//	    Formats: []string{"highcharts"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chartJSON := result.Artifacts["highcharts"]
//
// Run individual stages:
//
//	// Load only
//	list, raw, err := runner.Load(ctx, opts)
//
//	// Expand an already-loaded series set
//	list, err = runner.Expand(ctx, raw, list, opts)
//
//	// Render an expanded series set
//	artifacts, err := runner.Render(ctx, list, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Way/highcharts-utils/pkg/cache"
	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series"
	"github.com/Way/highcharts-utils/pkg/series/gapfix"
)

// Input format constants.
const (
	InputJSON = "json"
	InputCSV  = "csv"
)

// Output format constants.
const (
	// FormatHighcharts is the renderer-facing chart options JSON.
	FormatHighcharts = "highcharts"

	// FormatDataset is the expanded dataset in the canonical JSON form,
	// re-importable by the load stage.
	FormatDataset = "dataset"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHighcharts: true,
	FormatDataset:    true,
}

// ValidInputFormats is the set of supported input formats.
var ValidInputFormats = map[string]bool{
	InputJSON: true,
	InputCSV:  true,
}

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Input       string `json:"input,omitempty"`        // path to a JSON or CSV file
	Data        []byte `json:"data,omitempty"`         // raw input bytes, used when Input is empty
	InputFormat string `json:"input_format,omitempty"` // json or csv, inferred from Input when empty
	Refresh     bool   `json:"refresh,omitempty"`      // bypass the cache and recompute

	// Expansion options
	Delta  float64 `json:"delta,omitempty"`  // fix point offset, 0 means the default
	Policy string  `json:"policy,omitempty"` // nearest or immediate

	// Render options
	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`
	Colors  []string `json:"colors,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Series is the expanded series set.
	Series []*series.Series

	// DatasetHash is the content hash of the expanded dataset.
	DatasetHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SeriesCount int
	PointCount  int
	GapCount    int
	FixCount    int
	LoadTime    time.Duration
	ExpandTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each cached pipeline stage.
type CacheInfo struct {
	ExpandHit bool // Whether the expanded dataset came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid format: %q (must be one of: highcharts, dataset)", format)
	}
	return nil
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInputFormat checks that an input format is valid.
func ValidateInputFormat(format string) error {
	if !ValidInputFormats[format] {
		return errors.New(errors.ErrCodeUnsupported,
			"invalid input format: %q (must be one of: json, csv)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForExpand(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading and infers the input format.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input path or data is required")
	}
	if o.InputFormat == "" {
		o.InputFormat = InputJSON
		if strings.EqualFold(filepath.Ext(o.Input), ".csv") {
			o.InputFormat = InputCSV
		}
	}
	if err := ValidateInputFormat(o.InputFormat); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForExpand validates the expansion options and applies defaults.
func (o *Options) ValidateForExpand() error {
	if _, err := o.GapfixOptions(); err != nil {
		return err
	}
	if o.Delta == 0 {
		o.Delta = gapfix.DefaultDelta
	}
	if o.Policy == "" {
		o.Policy = gapfix.PolicyNearestNonGap.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHighcharts}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// GapfixOptions converts the pipeline options into expansion options.
func (o *Options) GapfixOptions() (gapfix.Options, error) {
	policy := gapfix.PolicyNearestNonGap
	if o.Policy != "" {
		var err error
		policy, err = gapfix.ParsePolicy(o.Policy)
		if err != nil {
			return gapfix.Options{}, err
		}
	}
	return gapfix.Options{Delta: o.Delta, Policy: policy}, nil
}

// ExpandKeyOpts returns cache key options for the expand stage.
func (o *Options) ExpandKeyOpts() cache.ExpandKeyOpts {
	return cache.ExpandKeyOpts{
		Delta:  o.Delta,
		Policy: o.Policy,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Title:  o.Title,
		Colors: o.Colors,
	}
}
