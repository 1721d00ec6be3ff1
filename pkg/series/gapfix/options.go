package gapfix

import (
	"math"

	"github.com/Way/highcharts-utils/pkg/errors"
)

// DefaultDelta is the default fix offset in series time units. It matches
// millisecond timestamps with one-second or coarser spacing.
const DefaultDelta = 1000

// BoundaryPolicy selects how gap boundaries are located during the scan
// pass. See the package documentation for the behavioral difference on
// runs of consecutive gaps.
type BoundaryPolicy int

const (
	// PolicyNearestNonGap walks past consecutive absent points and treats
	// a whole run of adjacent gaps as one region with a single fix pair.
	PolicyNearestNonGap BoundaryPolicy = iota

	// PolicyImmediateNeighbor uses the points at index-1/index+1 as
	// boundaries for every gap index, even when they are gaps themselves.
	PolicyImmediateNeighbor
)

// String returns the canonical name of the policy.
func (p BoundaryPolicy) String() string {
	switch p {
	case PolicyImmediateNeighbor:
		return "immediate"
	default:
		return "nearest"
	}
}

// ParsePolicy converts a policy name to a BoundaryPolicy.
// Accepted values are "nearest" and "immediate".
func ParsePolicy(name string) (BoundaryPolicy, error) {
	switch name {
	case "", "nearest":
		return PolicyNearestNonGap, nil
	case "immediate":
		return PolicyImmediateNeighbor, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidOptions,
			"unknown boundary policy %q (must be nearest or immediate)", name)
	}
}

// Options configures gap expansion.
// The zero value selects the nearest-non-gap policy with the default delta.
type Options struct {
	// Delta is the fix offset subtracted from (added to) the successor
	// (predecessor) boundary X. Zero selects DefaultDelta.
	Delta float64

	// Policy selects the boundary-search behavior.
	Policy BoundaryPolicy
}

// validate checks option values and applies defaults.
func (o *Options) validate() error {
	if o.Delta == 0 {
		o.Delta = DefaultDelta
	}
	if o.Delta < 0 || math.IsNaN(o.Delta) || math.IsInf(o.Delta, 0) {
		return errors.New(errors.ErrCodeInvalidOptions, "delta must be a positive finite number, got %v", o.Delta)
	}
	if o.Policy != PolicyNearestNonGap && o.Policy != PolicyImmediateNeighbor {
		return errors.New(errors.ErrCodeInvalidOptions, "unknown boundary policy %d", o.Policy)
	}
	return nil
}
