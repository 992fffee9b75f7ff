package core

import "math"

// Interval is a closed range of real numbers. An interval with Min > Max
// has no extent.
type Interval struct {
	Min, Max float64
}

var (
	// EmptyInterval contains nothing and is the identity for Union.
	EmptyInterval = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// UniverseInterval contains every finite number.
	UniverseInterval = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates an interval from min to max
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Size returns Max - Min (negative for empty intervals)
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// IsEmpty reports whether the interval has no extent
func (i Interval) IsEmpty() bool {
	return i.Min > i.Max
}

// Contains reports whether min <= x <= max
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether min < x < max
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Union returns the smallest interval containing both intervals
func (i Interval) Union(other Interval) Interval {
	return Interval{Min: math.Min(i.Min, other.Min), Max: math.Max(i.Max, other.Max)}
}

// Expand pads the interval by delta/2 on each side
func (i Interval) Expand(delta float64) Interval {
	padding := delta / 2
	return Interval{Min: i.Min - padding, Max: i.Max + padding}
}

// WithMax returns a copy of the interval with a new upper bound
func (i Interval) WithMax(max float64) Interval {
	return Interval{Min: i.Min, Max: max}
}
