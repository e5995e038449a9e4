package rule

import (
	"github.com/gitrdm/natded/pkg/match"
	"github.com/gitrdm/natded/pkg/term"
)

// IsValid decides whether r justifies target from supports (spec
// §4.4). A rule with no conclusion is vacuously valid. Otherwise every
// substitution mapping the conclusion to target is tried; for each, the
// premises are assigned to supports via a backtracking injective
// bipartite match (same count, one premise per reference), and any
// freshness obligation is checked against every cited support with no
// exclusion (spec §4.4 step 4's "must not occur in any supporting
// reference sentence" — literally any, including the one that
// witnessed the obligated premise). The function returns true as soon
// as one conclusion-mapping/assignment succeeds.
func (r *Rule) IsValid(target *term.Term, supports []*term.Term) bool {
	if r.Conclusion == nil {
		return true
	}
	if len(r.Premises) != len(supports) {
		return false
	}

	for _, conclusionMap := range match.MapInto(r.Conclusion, target, true) {
		found := false
		used := make([]bool, len(supports))
		assign(r.Premises, supports, used, 0, conclusionMap, func(sigma term.Substitution) bool {
			if freshnessHolds(r.FreshObligs, sigma, supports) {
				found = true
				return true
			}
			return false
		})
		if found {
			return true
		}
	}
	return false
}

// Assign runs the same backtracking injective bipartite match IsValid
// uses internally, exposed so pkg/proof can reuse it for derived-rule
// promotion's premise/reference matching (spec §4.6 step 4, which is
// explicitly "the same algorithm" as §4.4 step 3 under the name
// makeMapping). Derived rules carry no freshness obligations (those
// belong to atomic Rule values only), so every assignment found is
// collected unconditionally.
func Assign(premises, refs []*term.Term, base term.Substitution) []term.Substitution {
	var all []term.Substitution
	used := make([]bool, len(refs))
	assign(premises, refs, used, 0, base, func(sigma term.Substitution) bool {
		all = append(all, sigma)
		return false // keep searching; collect every solution
	})
	return all
}

// assign performs the backtracking premise/reference assignment.
// Premises are tried most-constrained-first is a performance note only
// (spec §4.4 step 3); correctness does not depend on order, so this
// walks premises in the order given. emit is called with each complete
// substitution found; returning true from emit stops the search early.
func assign(premises, refs []*term.Term, used []bool, idx int, sigma term.Substitution, emit func(term.Substitution) bool) bool {
	if idx == len(premises) {
		return emit(sigma)
	}
	p := premises[idx]
	for i, ref := range refs {
		if used[i] {
			continue
		}
		for _, mu := range match.MapInto(p, ref, true) {
			merged, ok := match.MapMerge(sigma, mu)
			if !ok {
				continue
			}
			used[i] = true
			stop := assign(premises, refs, used, idx+1, merged, emit)
			used[i] = false
			if stop {
				return true
			}
		}
	}
	return false
}

// freshnessHolds checks that, for every freshness obligation, the final
// substitution's image of the obligation's variable does not occur in
// any cited support (spec §4.4 step 4). There is no exclusion for the
// support that witnessed the obligated premise: if that is the only
// support cited, the obligation fails, since the witness trivially
// occurs in the very sentence that introduced it (spec §8 scenario 3).
func freshnessHolds(obligs []FreshObligation, sigma term.Substitution, supports []*term.Term) bool {
	for _, ob := range obligs {
		resolved := term.Substitute(ob.Var, sigma, true)[0]
		for _, ref := range supports {
			if ref.Contains(resolved) {
				return false
			}
		}
	}
	return true
}
