package series

import (
	"math"

	"github.com/Way/highcharts-utils/pkg/errors"
)

// Validate checks a single series for well-formed X values:
// finite numbers in strictly increasing order.
func Validate(s *Series) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidSeries, "series is nil")
	}
	for i, p := range s.Points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
			return errors.New(errors.ErrCodeInvalidSeries,
				"series %q: point %d has non-finite x", s.ID, i)
		}
		if i > 0 && p.X <= s.Points[i-1].X {
			return errors.New(errors.ErrCodeInvalidSeries,
				"series %q: x not strictly increasing at index %d (%v after %v)",
				s.ID, i, p.X, s.Points[i-1].X)
		}
	}
	return nil
}

// ValidateAligned checks the cross-series alignment precondition: every
// series is individually valid, all series have equal length, and all X
// sequences are identical. Duplicate series IDs are rejected so gap records
// can reference series unambiguously.
//
// An empty or nil list is valid (expansion on it is a no-op).
func ValidateAligned(list []*Series) error {
	if len(list) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if err := Validate(s); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return errors.New(errors.ErrCodeInvalidSeries, "duplicate series id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	ref := list[0]
	for _, s := range list[1:] {
		if len(s.Points) != len(ref.Points) {
			return errors.New(errors.ErrCodeMisaligned,
				"series %q has %d points, series %q has %d",
				s.ID, len(s.Points), ref.ID, len(ref.Points))
		}
		for i := range s.Points {
			if s.Points[i].X != ref.Points[i].X {
				return errors.New(errors.ErrCodeMisaligned,
					"series %q and %q diverge at index %d (x=%v vs x=%v)",
					s.ID, ref.ID, i, s.Points[i].X, ref.Points[i].X)
			}
		}
	}
	return nil
}

// MinSpacing returns the smallest distance between adjacent X values in the
// series, or 0 if the series has fewer than two points.
func MinSpacing(s *Series) float64 {
	if len(s.Points) < 2 {
		return 0
	}
	min := math.Inf(1)
	for i := 1; i < len(s.Points); i++ {
		if d := s.Points[i].X - s.Points[i-1].X; d < min {
			min = d
		}
	}
	return min
}
