// Package pkg provides the core libraries for highcharts-utils.
//
// # Overview
//
// highcharts-utils prepares aligned time series for stacked-area Highcharts
// rendering. When a series has null gaps, the renderer interpolates across
// them and draws misleading triangles; this module inserts boundary fix
// points around every gap so the area breaks cleanly instead. The pkg
// directory is organized into five main areas:
//
//  1. [series] - Domain model (points, series sets, validation) and the
//     gap expansion algorithm in [series/gapfix]
//  2. [chart] - Highcharts options generation for expanded series sets
//  3. [io] - Dataset serialization (JSON and CSV)
//  4. [pipeline] - Orchestration (load → expand → render) used by CLI and API
//  5. [cache], [store] - Infrastructure (file/Redis result cache, MongoDB
//     dataset persistence)
//
// # Architecture
//
// The typical data flow:
//
//	JSON/CSV input
//	      ↓
//	 [io] package (parse into series sets)
//	      ↓
//	 [series/gapfix] package (insert boundary fix points)
//	      ↓
//	 [chart] package (build stacked-area chart options)
//	      ↓
//	 Highcharts options JSON
//
// # Quick Start
//
// Expand a series set and build chart options:
//
//	import (
//	    "github.com/Way/highcharts-utils/pkg/chart"
//	    "github.com/Way/highcharts-utils/pkg/io"
//	    "github.com/Way/highcharts-utils/pkg/series/gapfix"
//	)
//
//	// 1. Load aligned series
//	list, _ := io.Import("metrics.json")
//
//	// 2. Insert boundary fix points
//	inserted, _ := gapfix.Expand(list, gapfix.Options{})
//
//	// 3. Build renderer-facing options
//	opts := chart.Build(list, chart.Config{Title: "CPU usage"})
//	data, _ := chart.Marshal(opts)
//
// Callers that want caching and output handling should use [pipeline]
// instead of wiring these stages by hand.
//
// [series]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/series
// [series/gapfix]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/series/gapfix
// [chart]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/chart
// [io]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/cache
// [store]: https://pkg.go.dev/github.com/Way/highcharts-utils/pkg/store
package pkg
