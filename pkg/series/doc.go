// Package series provides the data model for aligned numeric time series
// used throughout highcharts-utils.
//
// # Overview
//
// A [Series] is an identifier plus an ordered sequence of [Point] values.
// Points carry a numeric X timestamp and an optional Y value; a nil Y marks
// an explicit gap (no data for that timestamp). Series sets processed by
// this module are index-aligned: every series has the same length and the
// same strictly increasing X sequence, so index i refers to the same
// timestamp in every series.
//
// # Point Kinds
//
// Each point carries a classification used by the gap expansion pipeline:
//
//   - [KindOriginal]: a point supplied by the caller
//   - [KindGap]: an original point whose value is absent (nil Y)
//   - [KindBoundaryFix]: a synthetic point inserted next to a gap boundary
//
// Boundary-fix points exist only to narrow the interpolation region a
// stacked-area renderer would otherwise fill; they are never drawn with a
// marker symbol and never respond to hover. The chart package derives that
// suppression from the kind tag when building renderer options.
//
// # Validation
//
// [ValidateAligned] checks the cross-series alignment precondition that the
// gap expander relies on. Validation runs before any mutation, so a failed
// check never leaves a series set partially modified.
//
// # Concurrency
//
// Series values are not safe for concurrent use. Callers must not share the
// same series slice across simultaneous expansion calls without external
// locking.
package series
