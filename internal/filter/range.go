package filter

// Range is an inclusive interval with optional bounds. A nil bound leaves
// that side unconstrained.
type Range[V any] struct {
	Lower *V
	Upper *V
}

// NewRange returns a range over the given bounds.
func NewRange[V any](lower, upper *V) Range[V] {
	return Range[V]{Lower: lower, Upper: upper}
}

// IsUnbounded reports whether neither bound is set.
func (r Range[V]) IsUnbounded() bool {
	return r.Lower == nil && r.Upper == nil
}

// Between returns field >= Lower AND field <= Upper for whichever bounds are
// set, or Always(true) when r is unbounded. Inverted bounds are not rejected;
// they simply match nothing.
func Between[T Record, V any](f Field, r Range[V]) Predicate[T] {
	p := Always[T](true)
	if r.Lower != nil {
		p = And(p, Cond[T](f, Gte, *r.Lower))
	}
	if r.Upper != nil {
		p = And(p, Cond[T](f, Lte, *r.Upper))
	}
	return p
}
