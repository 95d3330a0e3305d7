package workshare

import "golang.org/x/exp/constraints"

// ceilDiv computes the signed ceiling division a/b. b must be positive;
// a may be negative. Used consistently by static, guided, and adaptive
// so that none of them need to special-case the sign of the numerator.
func ceilDiv[T constraints.Signed](a, b T) T {
	if b <= 0 {
		panic(`workshare: ceilDiv: b must be positive`)
	}
	if a <= 0 {
		return -((-a) / b)
	}
	return (a + b - 1) / b
}

// numIterations returns the number of iterations in [start, end) stepping
// by incr. incr must be nonzero. A negative result means the bounds are
// inverted relative to incr's sign, i.e. a precondition violation that
// callers must reject rather than clamp.
func numIterations(start, end, incr int64) int64 {
	if incr > 0 {
		return ceilDiv(end-start, incr)
	}
	return ceilDiv(start-end, -incr)
}

// boundsOverflow reports whether computing numIterations(start, end, incr)
// would first need to overflow int64 subtraction, i.e. whether end-start
// (incr>0) or start-end (incr<0) wraps. New uses this to reject
// pathological bounds with a clear panic instead of silently deriving a
// wrong-signed iteration count from wrapped arithmetic.
func boundsOverflow(start, end, incr int64) bool {
	a, b := end, start
	if incr < 0 {
		a, b = start, end
	}
	diff := a - b
	if b > 0 {
		return diff > a
	}
	if b < 0 {
		return diff < a
	}
	return false
}

// fromIndex converts a zero-based iteration index back into the original
// loop variable's space.
func fromIndex(start, incr, idx int64) int64 {
	return start + idx*incr
}

// pastEnd reports whether i has reached or passed end, in the direction
// incr moves.
func pastEnd(i, end, incr int64) bool {
	if incr > 0 {
		return i >= end
	}
	return i <= end
}

// leEnd reports whether v has not yet passed end, in the direction incr
// moves (the complement boundary used by the adaptive owner's local
// acquisition check: "new begin <= end").
func leEnd(v, end, incr int64) bool {
	if incr > 0 {
		return v <= end
	}
	return v >= end
}

// ahead reports whether a is strictly further along than b, in the
// direction incr moves; used to detect whether a deque still has work.
func ahead(a, b, incr int64) bool {
	if incr > 0 {
		return a > b
	}
	return a < b
}

// clampToEnd clamps v so that it never moves past end, in the direction
// incr moves.
func clampToEnd(v, end, incr int64) int64 {
	if incr > 0 {
		if v > end {
			return end
		}
		return v
	}
	if v < end {
		return end
	}
	return v
}
