// Package rule implements inference rules and the core rule-application
// algorithm (spec §4.4): given a target sentence and a set of candidate
// supporting references, decide whether some substitution justifies the
// rule's conclusion from its premises, honoring any freshness
// side-conditions.
package rule

import "github.com/gitrdm/natded/pkg/term"

// Like is the capability set a rule-like value must provide to be
// applied against a target sentence and a list of supports: an atomic
// Rule and a verified Proof (used as a derived rule, spec §4.6) both
// implement it as a sum-type alternative, never by one inheriting from
// the other (spec §9's "Derived rules vs inference rules").
type Like interface {
	Name() string
	IsValid(target *term.Term, supports []*term.Term) bool
}

// FreshObligation records that the substitution chosen for Var must
// not occur free in any cited supporting reference (spec §4.4 step 4,
// §3's "fresh-variable obligations"), attached by the parser to the
// premise annotated with the "$name" marker. Premise identifies that
// annotated premise for diagnostics; the check itself (freshnessHolds)
// applies to every cited support without exception — including the one
// that premise is matched against, per spec §8 scenario 3.
type FreshObligation struct {
	Premise *term.Term
	Var     *term.Term // always a Variable term
}

// Rule is an inference rule: premises → conclusion, plus an optional
// set of freshness side-conditions (spec §3). A Rule with Conclusion
// == nil derives nothing and IsValid always succeeds for it (spec
// §4.4's "A rule with no conclusion returns true").
type Rule struct {
	RuleName     string
	Conclusion   *term.Term // nil for a vacuously-valid rule
	Premises     []*term.Term
	FreshObligs  []FreshObligation
}

// New constructs a Rule. conclusion may be nil.
func New(name string, conclusion *term.Term, premises []*term.Term, fresh []FreshObligation) *Rule {
	return &Rule{RuleName: name, Conclusion: conclusion, Premises: premises, FreshObligs: fresh}
}

// Name returns the rule's declared name.
func (r *Rule) Name() string { return r.RuleName }

// Equal implements structural rule equality (spec §3): same premise
// set, same conclusion. Rule names are not part of equality — two
// differently-named rules with identical premises/conclusion are the
// same rule.
func (r *Rule) Equal(other *Rule) bool {
	if (r.Conclusion == nil) != (other.Conclusion == nil) {
		return false
	}
	if r.Conclusion != nil && !r.Conclusion.Equal(other.Conclusion) {
		return false
	}
	if len(r.Premises) != len(other.Premises) {
		return false
	}
	used := make([]bool, len(other.Premises))
	for _, p := range r.Premises {
		found := false
		for i, q := range other.Premises {
			if !used[i] && p.Equal(q) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
