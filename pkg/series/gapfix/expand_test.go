package gapfix

import (
	"testing"

	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series"
)

func f(v float64) *float64 { return series.Float(v) }

func xsOf(s *series.Series) []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.X
	}
	return out
}

func assertIncreasing(t *testing.T, s *series.Series) {
	t.Helper()
	if err := series.Validate(s); err != nil {
		t.Fatalf("series %q not strictly increasing after expand: %v", s.ID, err)
	}
}

func assertXs(t *testing.T, s *series.Series, want []float64) {
	t.Helper()
	got := xsOf(s)
	if len(got) != len(want) {
		t.Fatalf("series %q: got %d points %v, want %d %v", s.ID, len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("series %q: x[%d] = %v, want %v (full: %v)", s.ID, i, got[i], want[i], got)
		}
	}
}

func TestExpand_GapSymmetry(t *testing.T) {
	a := series.New("a", []float64{10, 15, 20}, []*float64{f(5), nil, f(5)})
	b := series.New("b", []float64{10, 15, 20}, []*float64{f(5), nil, f(5)})

	inserted, err := Expand([]*series.Series{a, b}, Options{Delta: 1})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if inserted != 4 {
		t.Errorf("inserted = %d, want 4", inserted)
	}

	for _, s := range []*series.Series{a, b} {
		assertXs(t, s, []float64{10, 11, 15, 19, 20})
		assertIncreasing(t, s)

		// Both series are absent in the gap, so the fixes carry null.
		for _, i := range []int{1, 3} {
			p := s.Points[i]
			if p.Kind != series.KindBoundaryFix {
				t.Errorf("series %q point %d kind = %v, want boundary-fix", s.ID, i, p.Kind)
			}
			if p.Y != nil {
				t.Errorf("series %q fix at x=%v carries %v, want null", s.ID, p.X, *p.Y)
			}
		}

		// The original gap point is retained untouched.
		gap := s.Points[2]
		if gap.X != 15 || gap.Y != nil || gap.Kind != series.KindGap {
			t.Errorf("series %q gap point = %+v, want x=15 null gap", s.ID, gap)
		}
	}
}

func TestExpand_AsymmetricSeries(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	s1 := series.New("s1", xs, []*float64{f(1), f(1), f(1), f(1), f(1)})
	s2 := series.New("s2", xs, []*float64{f(2), f(2), nil, f(2), f(2)})

	if _, err := Expand([]*series.Series{s1, s2}, Options{Delta: 1}); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	// Both series end up with 7 points: 5 originals plus one fix per side.
	// Delta 1 exceeds half the unit spacing, so the offsets clamp to 0.5.
	assertXs(t, s1, []float64{0, 1, 1.5, 2, 2.5, 3, 4})
	assertXs(t, s2, []float64{0, 1, 1.5, 2, 2.5, 3, 4})

	for _, i := range []int{2, 4} {
		if y := s1.Points[i].Y; y == nil || *y != 1 {
			t.Errorf("s1 fix at x=%v = %v, want carried value 1", s1.Points[i].X, y)
		}
		if y := s2.Points[i].Y; y != nil {
			t.Errorf("s2 fix at x=%v = %v, want null", s2.Points[i].X, *y)
		}
	}
	if s2.Points[3].Y != nil || s2.Points[3].Kind != series.KindGap {
		t.Errorf("s2 original gap disturbed: %+v", s2.Points[3])
	}
}

func TestExpand_GapAtStart(t *testing.T) {
	s := series.New("s", []float64{0, 1000, 2000}, []*float64{nil, f(2), f(3)})

	inserted, err := Expand([]*series.Series{s}, Options{Delta: 1})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1 (successor side only)", inserted)
	}
	assertXs(t, s, []float64{0, 999, 1000, 2000})
	if s.Points[0].Kind != series.KindGap {
		t.Errorf("leading gap kind = %v, want gap", s.Points[0].Kind)
	}
}

func TestExpand_GapAtEnd(t *testing.T) {
	s := series.New("s", []float64{0, 1000, 2000}, []*float64{f(1), f(2), nil})

	inserted, err := Expand([]*series.Series{s}, Options{Delta: 1})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1 (predecessor side only)", inserted)
	}
	assertXs(t, s, []float64{0, 1000, 1001, 2000})
}

func TestExpand_ConsecutiveRun_NearestPolicy(t *testing.T) {
	xs := []float64{0, 1000, 2000, 3000, 4000, 5000}
	s := series.New("s", xs, []*float64{f(1), f(1), nil, nil, f(1), f(1)})

	inserted, err := Expand([]*series.Series{s}, Options{Delta: 1})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	// One contiguous region, exactly one fix pair for the whole run.
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}
	assertXs(t, s, []float64{0, 1000, 1001, 2000, 3000, 3999, 4000, 5000})
}

func TestExpand_ConsecutiveRun_ImmediatePolicy(t *testing.T) {
	xs := []float64{0, 1000, 2000, 3000, 4000, 5000}
	s := series.New("s", xs, []*float64{f(1), f(1), nil, nil, f(1), f(1)})

	inserted, err := Expand([]*series.Series{s}, Options{Delta: 1, Policy: PolicyImmediateNeighbor})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	// The historical per-index behavior: each gap index gets its own pair,
	// with boundaries taken verbatim even when they are gaps themselves.
	if inserted != 4 {
		t.Errorf("inserted = %d, want 4", inserted)
	}
	assertXs(t, s, []float64{0, 1000, 1001, 2000, 2001, 2999, 3000, 3999, 4000, 5000})
	assertIncreasing(t, s)

	// The interior fixes border a gap point, so they carry its absent value.
	for _, p := range s.Points {
		if p.Kind == series.KindBoundaryFix && p.X > 2000 && p.X < 3000 && p.Y != nil {
			t.Errorf("interior fix at x=%v carries %v, want null", p.X, *p.Y)
		}
	}
}

func TestExpand_Idempotent(t *testing.T) {
	build := func() []*series.Series {
		xs := []float64{0, 1000, 2000, 3000, 4000}
		return []*series.Series{
			series.New("a", xs, []*float64{f(1), f(1), nil, f(1), f(1)}),
			series.New("b", xs, []*float64{f(2), f(2), f(2), f(2), f(2)}),
		}
	}

	once := build()
	if _, err := Expand(once, Options{Delta: 250}); err != nil {
		t.Fatalf("first Expand() error = %v", err)
	}

	twice := build()
	if _, err := Expand(twice, Options{Delta: 250}); err != nil {
		t.Fatalf("first Expand() error = %v", err)
	}
	inserted, err := Expand(twice, Options{Delta: 250})
	if err != nil {
		t.Fatalf("second Expand() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Expand() inserted %d points, want 0", inserted)
	}

	for i := range once {
		a, b := once[i], twice[i]
		if len(a.Points) != len(b.Points) {
			t.Fatalf("series %q: %d points after one pass, %d after two", a.ID, len(a.Points), len(b.Points))
		}
		for j := range a.Points {
			pa, pb := a.Points[j], b.Points[j]
			if pa.X != pb.X || pa.Kind != pb.Kind || (pa.Y == nil) != (pb.Y == nil) {
				t.Fatalf("series %q point %d differs: %+v vs %+v", a.ID, j, pa, pb)
			}
		}
	}
}

func TestExpand_OriginalsUntouched(t *testing.T) {
	xs := []float64{0, 1000, 2000, 3000}
	a := series.New("a", xs, []*float64{f(1), nil, f(3), f(4)})
	b := series.New("b", xs, []*float64{f(5), f(6), f(7), f(8)})
	orig := []*series.Series{a.Clone(), b.Clone()}

	if _, err := Expand([]*series.Series{a, b}, Options{Delta: 100}); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}

	for si, s := range []*series.Series{a, b} {
		var kept []series.Point
		for _, p := range s.Points {
			if p.Kind != series.KindBoundaryFix {
				kept = append(kept, p)
			}
		}
		want := orig[si].Points
		if len(kept) != len(want) {
			t.Fatalf("series %q: %d non-fix points, want %d", s.ID, len(kept), len(want))
		}
		for i := range want {
			if kept[i].X != want[i].X {
				t.Errorf("series %q: original x moved from %v to %v", s.ID, want[i].X, kept[i].X)
			}
			switch {
			case want[i].Y == nil && kept[i].Y != nil:
				t.Errorf("series %q: gap at x=%v gained a value", s.ID, want[i].X)
			case want[i].Y != nil && (kept[i].Y == nil || *kept[i].Y != *want[i].Y):
				t.Errorf("series %q: value at x=%v changed", s.ID, want[i].X)
			}
		}
	}
}

func TestExpand_Empty(t *testing.T) {
	if inserted, err := Expand(nil, Options{}); err != nil || inserted != 0 {
		t.Errorf("Expand(nil) = (%d, %v), want (0, nil)", inserted, err)
	}
	if inserted, err := Expand([]*series.Series{}, Options{}); err != nil || inserted != 0 {
		t.Errorf("Expand([]) = (%d, %v), want (0, nil)", inserted, err)
	}
}

func TestExpand_NoGaps(t *testing.T) {
	s := series.New("s", []float64{0, 1000}, []*float64{f(1), f(2)})
	inserted, err := Expand([]*series.Series{s}, Options{})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if inserted != 0 || len(s.Points) != 2 {
		t.Errorf("no-gap series changed: inserted=%d len=%d", inserted, len(s.Points))
	}
}

func TestExpand_AllGaps(t *testing.T) {
	// A region spanning the whole sequence has no boundary on either side.
	s := series.New("s", []float64{0, 1000, 2000}, []*float64{nil, nil, nil})
	inserted, err := Expand([]*series.Series{s}, Options{})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if inserted != 0 || len(s.Points) != 3 {
		t.Errorf("all-gap series changed: inserted=%d len=%d", inserted, len(s.Points))
	}
}

func TestExpand_Misaligned(t *testing.T) {
	a := series.New("a", []float64{0, 1000, 2000}, []*float64{f(1), nil, f(3)})
	b := series.New("b", []float64{0, 1000}, []*float64{f(1), f(2)})

	_, err := Expand([]*series.Series{a, b}, Options{})
	if !errors.Is(err, errors.ErrCodeMisaligned) {
		t.Fatalf("Expand() error = %v, want MISALIGNED_SERIES", err)
	}
	// All-or-nothing: neither series was mutated.
	if len(a.Points) != 3 || len(b.Points) != 2 {
		t.Error("misaligned input was partially mutated")
	}
	if a.Points[1].Kind != series.KindOriginal {
		t.Error("misaligned input was tagged before validation completed")
	}
}

func TestExpand_InvalidSeries(t *testing.T) {
	s := series.New("s", []float64{0, 0}, []*float64{f(1), nil})
	if _, err := Expand([]*series.Series{s}, Options{}); !errors.Is(err, errors.ErrCodeInvalidSeries) {
		t.Fatalf("Expand() error = %v, want INVALID_SERIES", err)
	}
}

func TestExpand_InvalidDelta(t *testing.T) {
	s := series.New("s", []float64{0, 1000}, []*float64{f(1), nil})
	if _, err := Expand([]*series.Series{s}, Options{Delta: -5}); !errors.Is(err, errors.ErrCodeInvalidOptions) {
		t.Fatalf("Expand() error = %v, want INVALID_OPTIONS", err)
	}
}

func TestExpand_DeltaClampedToLocalSpacing(t *testing.T) {
	// Delta far beyond the spacing must not break strict X ordering.
	s := series.New("s", []float64{0, 1000, 2000, 3000}, []*float64{f(1), nil, f(3), f(4)})
	if _, err := Expand([]*series.Series{s}, Options{Delta: 50000}); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertXs(t, s, []float64{0, 500, 1000, 1500, 2000, 3000})
	assertIncreasing(t, s)
}

func TestExpand_DefaultDelta(t *testing.T) {
	s := series.New("s", []float64{0, 60000, 120000}, []*float64{f(1), nil, f(3)})
	if _, err := Expand([]*series.Series{s}, Options{}); err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertXs(t, s, []float64{0, 1000, 60000, 119000, 120000})
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    BoundaryPolicy
		wantErr bool
	}{
		{"", PolicyNearestNonGap, false},
		{"nearest", PolicyNearestNonGap, false},
		{"immediate", PolicyImmediateNeighbor, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
