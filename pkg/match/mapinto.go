package match

import (
	"fmt"
	"sync/atomic"

	"github.com/gitrdm/natded/pkg/term"
)

// MapInto computes the set of all minimal substitutions σ such that
// substitute(schema, σ) == target (spec §4.2). An empty result means
// "no match"; a one-element result containing the empty substitution
// means "matches trivially".
//
// replaceAll is accepted for signature fidelity with spec §4.2's
// mapInto(schema, target, replaceAll=true); it is forwarded unchanged
// to the recursive MapInto calls case 5 (Compound) and case 6
// (ContextualOperator) make on sub-positions. It does not change which
// of the six cases below fires — the case dispatch depends only on the
// shapes of schema and target. The two Substitute calls that case 6
// performs internally (closing body's match over itself, and rewriting
// matched occurrences in target with a sentinel) have fixed semantics
// dictated by the algorithm itself (replaceAll=true and replaceAll=false
// respectively, spec §4.2 case 6) regardless of the caller's replaceAll.
func MapInto(schema, target *term.Term, replaceAll bool) []term.Substitution {
	switch schema.Kind() {
	case term.KindLiteral:
		return matchLiteral(schema, target)
	case term.KindVariable:
		return matchVariable(schema, target)
	case term.KindWff:
		return []term.Substitution{term.Singleton(schema, target)}
	case term.KindCompound:
		return matchCompound(schema, target, replaceAll)
	case term.KindContextual:
		return matchContextual(schema, target, replaceAll)
	default:
		return nil
	}
}

// Case 1 & 2: Literal ↔ Literal succeeds trivially iff names are equal;
// Literal against anything else always fails.
func matchLiteral(schema, target *term.Term) []term.Substitution {
	if target.Kind() == term.KindLiteral && schema.Name() == target.Name() {
		return []term.Substitution{term.Empty()}
	}
	return nil
}

// Case 3: Variable ↔ target succeeds, binding the variable to target,
// iff target is atomic (Literal, Variable, or Wff). A Variable never
// matches a Compound or ContextualOperator target — variables range
// over atoms only, which is the entire reason Variable and Wff are
// distinct kinds.
func matchVariable(schema, target *term.Term) []term.Substitution {
	if target.IsAtomic() {
		return []term.Substitution{term.Singleton(schema, target)}
	}
	return nil
}

// Case 5: Compound ↔ Compound. Fails unless arities match; otherwise
// recurses on the operator and each argument position and collects the
// Cartesian product of per-position matchers through MapMerge.
func matchCompound(schema, target *term.Term, replaceAll bool) []term.Substitution {
	if target.Kind() != term.KindCompound || schema.Arity() != target.Arity() {
		return nil
	}

	positions := make([][]*term.Term, 0, 1+schema.Arity())
	positions = append(positions, []*term.Term{schema.Op(), target.Op()})
	for i := 0; i < schema.Arity(); i++ {
		positions = append(positions, []*term.Term{schema.Args()[i], target.Args()[i]})
	}

	results := []term.Substitution{term.Empty()}
	for _, pos := range positions {
		posSchema, posTarget := pos[0], pos[1]
		posSubs := MapInto(posSchema, posTarget, replaceAll)
		if len(posSubs) == 0 {
			return nil
		}
		var combined []term.Substitution
		for _, acc := range results {
			for _, ps := range posSubs {
				merged, ok := MapMerge(acc, ps)
				if ok {
					combined = append(combined, merged)
				}
			}
		}
		if len(combined) == 0 {
			return nil
		}
		results = combined
	}
	return results
}

var sentinelCounter int64

// freshSentinel returns a Wff guaranteed not to collide with any term
// constructed so far, used to mark the position of a matched
// sub-structure while the surrounding context is read back out.
func freshSentinel() *term.Term {
	n := atomic.AddInt64(&sentinelCounter, 1)
	return term.Wff(fmt.Sprintf("__contextual_sentinel_%d", n))
}

// Case 6: ContextualOperator "hole[body]" ↔ target. For every sub-term
// s of target (in the deterministic pre-order Term.SubSentences
// establishes — spec §9's "commit to [a pre-order] and document it")
// and every matching μ of body against s, the matched occurrence is
// abstracted out of target by replacing it with a fresh sentinel Wff,
// enumerating every partial-replacement combination (spec's
// substitute(target, {s'↦@}, replaceAll=false)). Each resulting
// "structure" — target with one or more copies of s' abstracted out —
// is a candidate value for hole, accepted when hole ≤ structureOp(structure).
//
// The gate checks the rewritten structure's own operator, not the whole
// structure (original_source/sentence.py:563's "if not op <= structure.op()"):
// a Compound structure's op is its operator term (e.g. "if" in
// if(@,B(y))); an atomic structure (including a fully-absorbed sentinel,
// or any Literal/Variable/Wff leaf) has no distinct operator, so its
// "op" is itself, mirroring the original's Wff/Variable/Literal base
// class where op() returns self. Binding the hole to the whole
// structure (not just its op) happens regardless, once the gate passes.
func matchContextual(schema, target *term.Term, replaceAll bool) []term.Substitution {
	hole := schema.Hole()
	body := schema.Body()

	var results []term.Substitution
	for _, s := range target.SubSentences() {
		for _, mu := range MapInto(body, s, replaceAll) {
			resolved := term.Substitute(body, mu, true)
			sPrime := resolved[0]

			sentinel := freshSentinel()
			for _, structure := range term.Substitute(target, term.Singleton(sPrime, sentinel), false) {
				if !Leq(hole, structureOp(structure)) {
					continue
				}
				binding, ok := MapMerge(term.Singleton(hole, structure), mu)
				if !ok {
					continue
				}
				results = append(results, binding)
			}
		}
	}
	return results
}

// structureOp returns a Compound structure's operator term, or structure
// itself for an atomic structure — matching original_source/sentence.py's
// Sentence.op() (returns self._data[0] for a compound "Operator") versus
// Wff.op() (returns self, inherited by Variable and Literal).
func structureOp(structure *term.Term) *term.Term {
	if structure.Kind() == term.KindCompound {
		return structure.Op()
	}
	return structure
}
