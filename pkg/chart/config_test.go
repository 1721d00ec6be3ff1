package chart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Way/highcharts-utils/pkg/series"
	"github.com/Way/highcharts-utils/pkg/series/gapfix"
)

func expanded(t *testing.T) []*series.Series {
	t.Helper()
	xs := []float64{0, 1000, 2000, 3000, 4000}
	list := []*series.Series{
		series.New("cpu", xs, []*float64{series.Float(1), series.Float(1), nil, series.Float(1), series.Float(1)}),
		series.New("mem", xs, []*float64{series.Float(2), series.Float(2), series.Float(2), series.Float(2), series.Float(2)}),
	}
	if _, err := gapfix.Expand(list, gapfix.Options{Delta: 100}); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	return list
}

func TestBuild_SuppressesFixMarkers(t *testing.T) {
	list := expanded(t)
	opts := Build(list, Config{Title: "usage"})

	if len(opts.Series) != 2 {
		t.Fatalf("series count = %d, want 2", len(opts.Series))
	}
	for si, so := range opts.Series {
		if len(so.Data) != len(list[si].Points) {
			t.Fatalf("series %q data length = %d, want %d", so.Name, len(so.Data), len(list[si].Points))
		}
		for j, po := range so.Data {
			isFix := list[si].Points[j].Kind == series.KindBoundaryFix
			if isFix && po.Marker == nil {
				t.Errorf("series %q: fix point at x=%v has no marker suppression", so.Name, po.X)
			}
			if !isFix && po.Marker != nil {
				t.Errorf("series %q: non-fix point at x=%v carries a marker override", so.Name, po.X)
			}
			if po.Marker != nil {
				if po.Marker.Enabled {
					t.Errorf("fix marker at x=%v enabled", po.X)
				}
				if po.Marker.States == nil || po.Marker.States.Hover.Enabled {
					t.Errorf("fix marker at x=%v hover not disabled", po.X)
				}
			}
		}
	}
}

func TestBuild_StackingDefaults(t *testing.T) {
	opts := Build(expanded(t), Config{})
	if opts.Chart.Type != "area" {
		t.Errorf("chart type = %q, want area", opts.Chart.Type)
	}
	if opts.PlotOptions.Area.Stacking != "normal" {
		t.Errorf("stacking = %q, want normal", opts.PlotOptions.Area.Stacking)
	}
	if opts.PlotOptions.Area.ConnectNulls {
		t.Error("connectNulls must stay false so the renderer breaks at gaps")
	}
	if opts.Title != nil {
		t.Error("empty title should be omitted")
	}
}

func TestBuild_JSONShape(t *testing.T) {
	data, err := Marshal(Build(expanded(t), Config{Title: "usage"}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	out := string(data)
	// Gaps and nil fixes must serialize as explicit nulls, never be omitted.
	if !strings.Contains(out, `"y": null`) {
		t.Error("expected explicit null y values in output")
	}
	if !strings.Contains(out, `"connectNulls": false`) {
		t.Error("expected connectNulls:false in output")
	}
	if !strings.Contains(out, `"enabled": false`) {
		t.Error("expected disabled markers in output")
	}
}

func TestBuild_ColorAssignment(t *testing.T) {
	list := expanded(t)
	opts := Build(list, Config{Colors: []string{"#111111"}})
	for _, so := range opts.Series {
		if so.Color != "#111111" {
			t.Errorf("series %q color = %q, want #111111", so.Name, so.Color)
		}
	}
}
