package gapfix

import (
	"cmp"
	"slices"

	"github.com/Way/highcharts-utils/pkg/series"
)

// region is a contiguous range of gap indices shared across the series set.
// Regions are transient scan artifacts and never escape Expand.
type region struct {
	start, end int // inclusive index range of gap points
	pred, succ int // boundary indices, -1 when the region touches an edge
	absent     map[string]struct{}
}

// Expand inserts boundary-fix points around every gap region in the given
// series set and returns the number of points inserted.
//
// All series are mutated in place: each gains the same fix X positions so
// the set stays index-aligned. Series that are absent in a region receive
// nil-valued fixes; all others carry their own boundary value through.
// Validation failures abort before any series is touched.
//
// An empty or nil list is a no-op. See the package documentation for the
// boundary policies, the offset clamping rule, and the idempotence guard.
func Expand(list []*series.Series, opts Options) (int, error) {
	if err := opts.validate(); err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, nil
	}
	if err := series.ValidateAligned(list); err != nil {
		return 0, err
	}

	regions := discover(list, opts.Policy)
	tagGaps(list)
	if len(regions) == 0 {
		return 0, nil
	}

	ref := list[0].Points
	inserted := 0
	for _, s := range list {
		fixes := synthesize(s, ref, regions, opts.Delta)
		if len(fixes) == 0 {
			continue
		}
		merged := merge(s.Points, fixes)
		inserted += len(merged) - len(s.Points)
		s.Points = merged
	}
	return inserted, nil
}

// discover scans the aligned sequence once and returns the gap regions in
// ascending X order. An index is a gap index when any series has an absent
// value there; a run of adjacent gap indices forms one region under the
// nearest-non-gap policy and one region per index under the
// immediate-neighbor policy.
func discover(list []*series.Series, policy BoundaryPolicy) []region {
	n := len(list[0].Points)
	gapAt := make([]bool, n)
	for _, s := range list {
		for i, p := range s.Points {
			if p.IsGap() {
				gapAt[i] = true
			}
		}
	}

	var regions []region
	for i := 0; i < n; i++ {
		if !gapAt[i] {
			continue
		}
		end := i
		for end+1 < n && gapAt[end+1] {
			end++
		}
		if policy == PolicyImmediateNeighbor {
			for j := i; j <= end; j++ {
				regions = append(regions, newRegion(list, j, j))
			}
		} else {
			regions = append(regions, newRegion(list, i, end))
		}
		i = end
	}
	return regions
}

func newRegion(list []*series.Series, start, end int) region {
	n := len(list[0].Points)
	r := region{
		start:  start,
		end:    end,
		pred:   start - 1,
		succ:   end + 1,
		absent: make(map[string]struct{}),
	}
	if r.succ >= n {
		r.succ = -1
	}
	for _, s := range list {
		for i := start; i <= end; i++ {
			if s.Points[i].IsGap() {
				r.absent[s.ID] = struct{}{}
				break
			}
		}
	}
	return r
}

// tagGaps classifies every absent-valued original point as a gap.
func tagGaps(list []*series.Series) {
	for _, s := range list {
		for i := range s.Points {
			if s.Points[i].IsGap() {
				s.Points[i].Kind = series.KindGap
			}
		}
	}
}

// synthesize builds the fix points one series needs for all regions,
// sorted by X. A boundary that is already a fix point marks the region as
// expanded and suppresses insertion on that side.
func synthesize(s *series.Series, ref []series.Point, regions []region, delta float64) []series.Point {
	var fixes []series.Point
	for _, r := range regions {
		if r.pred >= 0 && ref[r.pred].Kind != series.KindBoundaryFix {
			boundX := ref[r.pred].X
			off := offset(delta, ref[r.start].X-boundX)
			fixes = append(fixes, fixPoint(boundX+off, s, r, r.pred))
		}
		if r.succ >= 0 && ref[r.succ].Kind != series.KindBoundaryFix {
			boundX := ref[r.succ].X
			off := offset(delta, boundX-ref[r.end].X)
			fixes = append(fixes, fixPoint(boundX-off, s, r, r.succ))
		}
	}
	slices.SortFunc(fixes, func(a, b series.Point) int { return cmp.Compare(a.X, b.X) })
	return fixes
}

// offset clamps delta to half the boundary-to-gap distance so a fix point
// always lands strictly between the boundary and the gap it brackets.
func offset(delta, span float64) float64 {
	if half := span / 2; delta > half {
		return half
	}
	return delta
}

// fixPoint synthesizes one boundary-fix point for series s. Series absent
// in the region get a nil value; everyone else carries the value of their
// own point at the boundary index.
func fixPoint(x float64, s *series.Series, r region, boundIdx int) series.Point {
	p := series.Point{X: x, Kind: series.KindBoundaryFix}
	if _, gapped := r.absent[s.ID]; !gapped {
		if y := s.Points[boundIdx].Y; y != nil {
			v := *y
			p.Y = &v
		}
	}
	return p
}

// merge rebuilds a point sequence from the originals and the sorted fixes.
// Originals win X collisions; a fix colliding with the previously merged
// point is dropped, which keeps X strictly increasing for any input.
func merge(orig, fixes []series.Point) []series.Point {
	out := make([]series.Point, 0, len(orig)+len(fixes))
	i, j := 0, 0
	for i < len(orig) || j < len(fixes) {
		switch {
		case j >= len(fixes):
			out = append(out, orig[i])
			i++
		case i >= len(orig):
			out = appendFix(out, fixes[j])
			j++
		case orig[i].X == fixes[j].X:
			j++ // collision: the original point keeps its slot
		case orig[i].X < fixes[j].X:
			out = append(out, orig[i])
			i++
		default:
			out = appendFix(out, fixes[j])
			j++
		}
	}
	return out
}

func appendFix(out []series.Point, f series.Point) []series.Point {
	if n := len(out); n > 0 && out[n-1].X == f.X {
		return out
	}
	return append(out, f)
}
