// Package gapfix expands gaps in aligned series so stacked-area renderers
// draw visually correct breaks.
//
// # Overview
//
// Charting engines that linearly interpolate between consecutive non-null
// points turn an explicit gap into a spurious filled triangle: the renderer
// connects the last real value straight to the next one (or to an implicit
// zero baseline), spanning the whole missing interval. [Expand] inserts
// synthetic boundary-fix points a small offset δ inside each gap's true
// boundaries, which narrows the interpolated region to a visually negligible
// sliver immediately adjacent to the gap.
//
// # Algorithm
//
// Expand runs two passes over the series set:
//
//  1. Scan: validate the alignment precondition, then discover every gap
//     region. Regions are keyed by X value rather than raw point index, so
//     a gap shared by several series is a single cross-series entity. For
//     each region the scan records the nearest non-gap boundary X on either
//     side, or "no boundary" when the region touches the sequence edge.
//  2. Rewrite: for every series (not only the gapped ones), synthesize one
//     fix point per region side and rebuild the point sequence by merging
//     originals and fixes in X order. A series that is absent in the region
//     gets nil-valued fixes; any other series carries its own boundary
//     value through, so it is not visually altered.
//
// The scan pass performs all validation before the rewrite pass touches
// anything, so a failed Expand never leaves a series partially modified.
// Original points are never moved, re-valued, or removed.
//
// # Boundary Policies
//
// Two boundary-search policies exist in the wild and behave differently for
// runs of consecutive gaps:
//
//   - [PolicyNearestNonGap] (default): a run of adjacent gaps is one region
//     with exactly one predecessor-side and one successor-side fix. This is
//     the correct behavior for multi-point gaps.
//   - [PolicyImmediateNeighbor]: every gap index is treated independently
//     and its direct neighbors are used as boundaries even when they are
//     gaps themselves. Kept for compatibility with data pipelines that
//     expect the historical per-index output; fixes inside a multi-point
//     run carry absent values.
//
// Migrating between policies changes the number and placement of fix points
// for consecutive gaps; the policy is therefore an explicit option, never an
// internal default swap.
//
// # Fix Offset
//
// Fix points are placed at boundaryX ± δ ([Options.Delta], default 1000
// time units, suitable for millisecond timestamps with second-or-coarser
// spacing). δ must stay below the minimum real inter-point spacing; when it
// does not, the offset is clamped to half the local boundary-to-gap
// distance so strict X ordering survives regardless of caller input.
//
// # Idempotence
//
// A boundary point that is itself a fix point marks a region as already
// expanded and suppresses insertion on that side, so running Expand twice
// over the same data equals running it once.
//
// # Concurrency
//
// Expand mutates the given series in place and is not safe for concurrent
// calls on the same slice. Distinct series sets can be expanded in parallel
// freely; the operation does no I/O and holds no global state.
package gapfix
