// package stars converts numeric user ratings into a star display breakdown
package stars

import "math"

// Breakdown describes how a rating renders as a five-star row.
type Breakdown struct {
	Full  int  // number of fully filled stars
	Half  bool // whether a half star follows the full ones
	Empty int  // number of empty stars
}

// Filled returns the number of filled positions (full plus half).
func (b Breakdown) Filled() int {
	if b.Half {
		return b.Full + 1
	}
	return b.Full
}

// Compute converts a rating into a [Breakdown].
//
// Ratings round up to the nearest star unless doing so overshoots by half a
// star or more, in which case the last star renders as a half star.
// Full + half + empty always totals five positions.
//
// The rating must be in [0, 5]; the service clamps ratings before serving
// them, so out-of-range input is a precondition violation and the result
// for it is unspecified.
func Compute(rating float64) Breakdown {
	full := int(math.Ceil(rating))
	half := false

	if float64(full)-rating >= 0.5 {
		full--
		half = true
	}

	empty := 5 - full
	if half {
		empty--
	}

	return Breakdown{Full: full, Half: half, Empty: empty}
}
