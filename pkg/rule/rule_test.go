package rule

import (
	"testing"

	"github.com/gitrdm/natded/pkg/term"
)

func TestRuleEqual(t *testing.T) {
	mp1 := New("MP",
		term.Variable("Q"),
		[]*term.Term{
			term.Compound(term.Literal("if"), term.Variable("P"), term.Variable("Q")),
			term.Variable("P"),
		},
		nil,
	)
	// Same premise set in a different order, different rule name.
	mp2 := New("ModusPonens",
		term.Variable("Q"),
		[]*term.Term{
			term.Variable("P"),
			term.Compound(term.Literal("if"), term.Variable("P"), term.Variable("Q")),
		},
		nil,
	)

	if !mp1.Equal(mp2) {
		t.Error("rule equality should be structural and order-independent, ignoring names")
	}

	different := New("MP2", term.Variable("R"), mp1.Premises, nil)
	if mp1.Equal(different) {
		t.Error("rules with different conclusions should not be equal")
	}
}

func TestRuleIsValidVacuousConclusion(t *testing.T) {
	r := New("Noop", nil, nil, nil)
	if !r.IsValid(term.Literal("anything"), nil) {
		t.Error("a rule with no conclusion should be vacuously valid")
	}
}

func TestRuleIsValidModusPonens(t *testing.T) {
	mp := New("MP",
		term.Variable("Q"),
		[]*term.Term{
			term.Compound(term.Literal("if"), term.Variable("P"), term.Variable("Q")),
			term.Variable("P"),
		},
		nil,
	)

	supports := []*term.Term{
		term.Compound(term.Literal("if"), term.Literal("A"), term.Literal("B")),
		term.Literal("A"),
	}
	if !mp.IsValid(term.Literal("B"), supports) {
		t.Error("MP should justify B from {if(A,B), A}")
	}

	if mp.IsValid(term.Literal("C"), supports) {
		t.Error("MP should not justify an unrelated conclusion")
	}
}

func TestRuleIsValidWrongSupportCount(t *testing.T) {
	mp := New("MP",
		term.Variable("Q"),
		[]*term.Term{
			term.Compound(term.Literal("if"), term.Variable("P"), term.Variable("Q")),
			term.Variable("P"),
		},
		nil,
	)
	supports := []*term.Term{term.Compound(term.Literal("if"), term.Literal("A"), term.Literal("B"))}
	if mp.IsValid(term.Literal("B"), supports) {
		t.Error("a rule must reject a support list of the wrong length")
	}
}

func TestRuleIsValidFreshnessViolation(t *testing.T) {
	// spec §8 scenario 3's exact shape: premise ?P[?x] $?x, conclusion
	// ∀[?x](?P[?x]). A single premise, matched against its own cited
	// support, necessarily forces ?x's resolved image to occur inside
	// that very support (that is how the match produced the binding in
	// the first place) — so freshness has no "other" support to be
	// lenient about and must fail whenever there is only one support.
	x := term.Variable("x")
	hole := term.Variable("P")
	schemaPremise := term.ContextualOperator(hole, x)
	conclusion := term.Compound(term.Literal("forall"), x, term.ContextualOperator(hole, x))

	universal := New("UniversalIntro",
		conclusion,
		[]*term.Term{schemaPremise},
		[]FreshObligation{{Premise: schemaPremise, Var: x}},
	)

	target := term.Compound(term.Literal("forall"), term.Literal("a"),
		term.Compound(term.Literal("A"), term.Literal("a")))
	witnessLine := term.Compound(term.Literal("A"), term.Literal("a"))

	t.Run("fails when the sole cited support is the one that witnessed ?x", func(t *testing.T) {
		if universal.IsValid(target, []*term.Term{witnessLine}) {
			t.Error("expected freshness to fail: the only cited support necessarily contains the witness")
		}
	})

	// A case where freshness genuinely holds: ?x is resolved entirely
	// from the conclusion side (forall's first argument), and the
	// obligated premise is an unrelated variable ?Q that never binds
	// ?x, so nothing forces the witness into any cited support.
	q := term.Variable("Q")
	simpleConclusion := term.Compound(term.Literal("forall"), x, term.Literal("placeholder"))
	simple := New("UniversalIntroSimple",
		simpleConclusion,
		[]*term.Term{q},
		[]FreshObligation{{Premise: q, Var: x}},
	)
	simpleTarget := term.Compound(term.Literal("forall"), term.Literal("a"), term.Literal("placeholder"))

	t.Run("holds when nothing cited mentions the witness", func(t *testing.T) {
		if !simple.IsValid(simpleTarget, []*term.Term{term.Literal("c")}) {
			t.Error("expected freshness to hold when \"a\" occurs in no cited support")
		}
	})

	t.Run("fails when the witness occurs in a cited support", func(t *testing.T) {
		if simple.IsValid(simpleTarget, []*term.Term{term.Literal("a")}) {
			t.Error("expected freshness to fail: \"a\" occurs in a cited support")
		}
	})
}
