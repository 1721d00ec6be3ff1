// Package io provides import and export of series datasets.
//
// # Overview
//
// This package serializes aligned series sets to and from the formats the
// CLI and HTTP API exchange with callers:
//
//   - JSON: the canonical round-trip format, preserving point kinds so an
//     exported, already-expanded dataset re-imports identically
//   - CSV: a convenience import format for spreadsheet-shaped data
//
// # JSON Format
//
// The format has one required top-level array:
//
//	{
//	  "series": [
//	    {"id": "cpu", "points": [
//	      {"x": 0, "y": 1.5},
//	      {"x": 1000, "y": null, "kind": "gap"},
//	      {"x": 1900, "y": null, "kind": "fix"}
//	    ]}
//	  ]
//	}
//
// Each point requires a numeric "x"; "y" is null for absent values. The
// optional "kind" tag distinguishes gap points and synthetic boundary-fix
// points; untagged points are originals. Unknown kinds are rejected.
//
// The same record types carry bson tags and back the Mongo dataset store.
//
// # CSV Format
//
// The first column is the shared X value; every further column is one
// series, named by its header. An empty cell marks a gap:
//
//	x,cpu,mem
//	0,1.5,2.0
//	1000,,2.1
//	2000,1.7,2.2
//
// CSV import always produces original points; kinds only exist in JSON.
//
// # Validation
//
// Import functions check structural validity (parsable numbers, known
// kinds, consistent column counts) but not the cross-series alignment
// precondition; gapfix.Expand validates that before mutating anything.
package io
