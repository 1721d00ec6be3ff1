// Package chart builds Highcharts-compatible series options from expanded
// series sets.
//
// The output is the renderer-facing contract of this module: plain structs
// that marshal to the JSON a stacked-area chart consumes. Boundary-fix
// points are emitted with their marker and hover state disabled so the
// synthetic points never show up as symbols or tooltips, and series are
// configured with connectNulls off so the renderer breaks the area at every
// absent value.
package chart

import (
	"encoding/json"
	"io"

	"github.com/Way/highcharts-utils/pkg/series"
)

// Default color palette, assigned round-robin when the caller does not
// provide colors.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Options is the top-level Highcharts configuration fragment.
type Options struct {
	Chart       ChartOptions    `json:"chart"`
	Title       *TitleOptions   `json:"title,omitempty"`
	XAxis       AxisOptions     `json:"xAxis"`
	PlotOptions PlotOptions     `json:"plotOptions"`
	Series      []SeriesOptions `json:"series"`
}

// ChartOptions selects the chart type.
type ChartOptions struct {
	Type string `json:"type"`
}

// TitleOptions carries the chart title.
type TitleOptions struct {
	Text string `json:"text"`
}

// AxisOptions configures the X axis.
type AxisOptions struct {
	Type string `json:"type"`
}

// PlotOptions carries the area-stacking defaults.
type PlotOptions struct {
	Area AreaOptions `json:"area"`
}

// AreaOptions configures stacked-area behavior.
type AreaOptions struct {
	Stacking     string `json:"stacking"`
	ConnectNulls bool   `json:"connectNulls"`
}

// SeriesOptions is one renderable series.
type SeriesOptions struct {
	Name  string         `json:"name"`
	Color string         `json:"color,omitempty"`
	Data  []PointOptions `json:"data"`
}

// PointOptions is one renderable point. Y is null for gaps and for
// nil-valued fix points; Marker is set only on boundary-fix points.
type PointOptions struct {
	X      float64        `json:"x"`
	Y      *float64       `json:"y"`
	Marker *MarkerOptions `json:"marker,omitempty"`
}

// MarkerOptions disables the point symbol and its hover state.
type MarkerOptions struct {
	Enabled bool          `json:"enabled"`
	States  *StateOptions `json:"states,omitempty"`
}

// StateOptions holds per-state marker overrides.
type StateOptions struct {
	Hover HoverOptions `json:"hover"`
}

// HoverOptions toggles the hover highlight.
type HoverOptions struct {
	Enabled bool `json:"enabled"`
}

// Config controls how Build assembles the options.
type Config struct {
	Title  string   // chart title, omitted when empty
	Colors []string // series colors, default palette when empty
}

// suppressedMarker is shared by every boundary-fix point.
var suppressedMarker = &MarkerOptions{
	Enabled: false,
	States:  &StateOptions{Hover: HoverOptions{Enabled: false}},
}

// Build assembles stacked-area options for an expanded series set.
// It reads the series without modifying them, so it can run on any set,
// expanded or not.
func Build(list []*series.Series, cfg Config) *Options {
	colors := cfg.Colors
	if len(colors) == 0 {
		colors = defaultColors
	}

	opts := &Options{
		Chart: ChartOptions{Type: "area"},
		XAxis: AxisOptions{Type: "datetime"},
		PlotOptions: PlotOptions{
			Area: AreaOptions{Stacking: "normal", ConnectNulls: false},
		},
		Series: make([]SeriesOptions, 0, len(list)),
	}
	if cfg.Title != "" {
		opts.Title = &TitleOptions{Text: cfg.Title}
	}

	for i, s := range list {
		so := SeriesOptions{
			Name:  s.ID,
			Color: colors[i%len(colors)],
			Data:  make([]PointOptions, len(s.Points)),
		}
		for j, p := range s.Points {
			po := PointOptions{X: p.X, Y: p.Y}
			if p.Kind == series.KindBoundaryFix {
				po.Marker = suppressedMarker
			}
			so.Data[j] = po
		}
		opts.Series = append(opts.Series, so)
	}
	return opts
}

// Write encodes the options as indented JSON.
func Write(opts *Options, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(opts)
}

// Marshal returns the options as JSON bytes.
func Marshal(opts *Options) ([]byte, error) {
	return json.MarshalIndent(opts, "", "  ")
}
