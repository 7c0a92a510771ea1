package filter

// And returns the conjunction of ps.
//
// Nested conjunctions are flattened, Always(true) operands are dropped and any
// Always(false) operand makes the result Always(false). With no remaining
// operands the result is Always(true); with one it is that operand unchanged.
func And[T Record](ps ...Predicate[T]) Predicate[T] {
	return combine(KindAnd, ps)
}

// Or returns the disjunction of ps, folded the same way as And with the
// roles of true and false swapped.
func Or[T Record](ps ...Predicate[T]) Predicate[T] {
	return combine(KindOr, ps)
}

// AllOf folds ps with And. AllOf(nil) is Always(true).
func AllOf[T Record](ps []Predicate[T]) Predicate[T] {
	return combine(KindAnd, ps)
}

// AnyOf folds ps with Or. AnyOf(nil) is Always(false).
func AnyOf[T Record](ps []Predicate[T]) Predicate[T] {
	return combine(KindOr, ps)
}

// Not returns the negation of p.
func Not[T Record](p Predicate[T]) Predicate[T] {
	r := p.Root()
	switch r.Kind {
	case KindConst:
		return Always[T](!r.Const)
	case KindNot:
		return Predicate[T]{root: r.Children[0]}
	}
	return Predicate[T]{root: &Node{Kind: KindNot, Children: []*Node{r}}}
}

func combine[T Record](kind Kind, ps []Predicate[T]) Predicate[T] {
	// identity is the neutral element, absorbing short-circuits the whole fold.
	identity := kind == KindAnd
	absorbing := !identity

	children := make([]*Node, 0, len(ps))
	for _, p := range ps {
		r := p.Root()
		switch {
		case r.Kind == KindConst && r.Const == identity:
			continue
		case r.Kind == KindConst && r.Const == absorbing:
			return Always[T](absorbing)
		case r.Kind == kind:
			children = append(children, r.Children...)
		default:
			children = append(children, r)
		}
	}

	switch len(children) {
	case 0:
		return Always[T](identity)
	case 1:
		return Predicate[T]{root: children[0]}
	}
	return Predicate[T]{root: &Node{Kind: kind, Children: children}}
}
