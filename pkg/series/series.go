package series

// Kind classifies a point within the gap expansion pipeline.
type Kind int

const (
	// KindOriginal marks a point supplied by the caller.
	KindOriginal Kind = iota

	// KindGap marks an original point whose value is absent.
	KindGap

	// KindBoundaryFix marks a synthetic point inserted next to a gap
	// boundary. Fix points are rendered without a marker or hover state.
	KindBoundaryFix
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindGap:
		return "gap"
	case KindBoundaryFix:
		return "boundary-fix"
	default:
		return "original"
	}
}

// Point is a single (x, y) sample. A nil Y marks an explicit gap.
type Point struct {
	X    float64
	Y    *float64
	Kind Kind
}

// IsGap reports whether the point has an absent value. Synthetic fix points
// with a nil Y are not gaps: they exist to bracket one.
func (p Point) IsGap() bool {
	return p.Y == nil && p.Kind != KindBoundaryFix
}

// Series is an identifier plus an ordered point sequence.
// X values must be strictly increasing; the gap expander preserves that
// invariant and never modifies or removes an original point.
type Series struct {
	ID     string
	Points []Point
}

// New creates a series from parallel X values and optional Y values.
// A nil entry in ys marks a gap. New panics if the slices differ in length;
// it performs no other validation (see ValidateAligned).
func New(id string, xs []float64, ys []*float64) *Series {
	if len(xs) != len(ys) {
		panic("series: xs and ys must have equal length")
	}
	pts := make([]Point, len(xs))
	for i := range xs {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	return &Series{ID: id, Points: pts}
}

// Len returns the number of points in the series.
func (s *Series) Len() int { return len(s.Points) }

// Clone returns a deep copy of the series. Y pointers are copied by value,
// so mutating the clone never touches the original.
func (s *Series) Clone() *Series {
	out := &Series{ID: s.ID, Points: make([]Point, len(s.Points))}
	for i, p := range s.Points {
		cp := p
		if p.Y != nil {
			y := *p.Y
			cp.Y = &y
		}
		out.Points[i] = cp
	}
	return out
}

// GapCount returns the number of gap points in the series.
func (s *Series) GapCount() int {
	n := 0
	for _, p := range s.Points {
		if p.IsGap() {
			n++
		}
	}
	return n
}

// Float returns a pointer to v. It is a convenience for building point
// sequences with literal values.
func Float(v float64) *float64 { return &v }
