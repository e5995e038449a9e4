package match

import "github.com/gitrdm/natded/pkg/term"

// Leq reports whether a ≤ b: there exists a substitution σ such that
// substitute(a, σ) == b (spec §4.1). This is the pre-order backbone of
// rule matching; Variable ≤ anything atomic, Wff ≤ anything, Literal ≤
// Literal only when equal, Compounds compare pointwise.
func Leq(a, b *term.Term) bool {
	return len(MapInto(a, b, true)) > 0
}

// Lt reports strict subsumption: a ≤ b and not b ≤ a. Equal (==) is
// purely structural and is not induced by ≤, so Lt is never special
// cased for equal terms — two equal terms are mutually ≤ each other
// and Lt between them is false, same as for any other term.
func Lt(a, b *term.Term) bool {
	return Leq(a, b) && !Leq(b, a)
}
