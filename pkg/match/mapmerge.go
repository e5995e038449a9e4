// Package match implements the non-deterministic second-order pattern
// matcher (MapInto), the substitution combinator (MapMerge), and the
// ≤/< pre-order built on top of them (spec §4.2-§4.3, §4.1's ordering).
package match

import "github.com/gitrdm/natded/pkg/term"

// MapMerge computes the greatest consistent union of two substitutions
// under the ≤ pre-order (spec §4.3). It returns ok=false ("conflict")
// when some shared key's two bindings are incomparable and unequal.
//
// mapMerge is associative and commutative up to ≤; either operand being
// empty returns the other unchanged.
func MapMerge(a, b term.Substitution) (term.Substitution, bool) {
	if a.IsEmpty() {
		return b, true
	}
	if b.IsEmpty() {
		return a, true
	}

	merged := a
	for _, k := range b.Keys() {
		bv, _ := b.Lookup(k)
		if av, ok := merged.Lookup(k); ok {
			winner, ok := greater(av, bv)
			if !ok {
				return term.Empty(), false
			}
			merged = merged.With(k, winner)
		} else {
			merged = merged.With(k, bv)
		}
	}
	return merged, true
}

// greater returns whichever of x, y subsumes the other (the one
// carrying more structure), or ok=false if they are incomparable and
// unequal.
func greater(x, y *term.Term) (*term.Term, bool) {
	if x.Equal(y) {
		return x, true
	}
	xLeqY := Leq(x, y)
	yLeqX := Leq(y, x)
	switch {
	case xLeqY && yLeqX:
		// Mutually subsuming but not structurally equal: prefer the
		// more concrete (y, the "later" operand) per mapMerge's
		// "keep the greater" rule — ties broken towards the second
		// argument, matching an associative left-to-right fold.
		return y, true
	case yLeqX:
		return x, true
	case xLeqY:
		return y, true
	default:
		return nil, false
	}
}
