package match

import (
	"testing"

	"github.com/gitrdm/natded/pkg/term"
)

func TestMapMergeDisjointKeys(t *testing.T) {
	a := term.Singleton(term.Variable("x"), term.Literal("a"))
	b := term.Singleton(term.Variable("y"), term.Literal("b"))

	merged, ok := MapMerge(a, b)
	if !ok {
		t.Fatal("disjoint substitutions should always merge")
	}
	if merged.Len() != 2 {
		t.Errorf("expected 2 bindings, got %d", merged.Len())
	}
}

func TestMapMergeIdenticalBinding(t *testing.T) {
	a := term.Singleton(term.Variable("x"), term.Literal("a"))
	b := term.Singleton(term.Variable("x"), term.Literal("a"))

	merged, ok := MapMerge(a, b)
	if !ok || merged.Len() != 1 {
		t.Errorf("identical bindings for the same key should merge to one, got %v ok=%v", merged, ok)
	}
}

func TestMapMergeConflict(t *testing.T) {
	a := term.Singleton(term.Variable("x"), term.Literal("a"))
	b := term.Singleton(term.Variable("x"), term.Literal("b"))

	if _, ok := MapMerge(a, b); ok {
		t.Error("two incomparable bindings for the same key must conflict")
	}
}

func TestMapMergeKeepsMoreConcrete(t *testing.T) {
	// ?x bound to @P (a Wff, matches anything) vs ?x bound to a Literal:
	// the Wff binding is ≤ the Literal binding (anything maps into a
	// Wff trivially... careful: Leq(a,b) asks whether a maps into b).
	// Here the Wff key itself is just a value being compared, not a
	// schema being matched, so greater() falls back to Leq(wffValue,
	// literalValue) which holds (Wff ≤ anything) while the reverse does
	// not — so the Literal value should win as the "more concrete" one.
	wffValue := term.Wff("anything")
	litValue := term.Literal("a")

	a := term.Singleton(term.Variable("x"), wffValue)
	b := term.Singleton(term.Variable("x"), litValue)

	merged, ok := MapMerge(a, b)
	if !ok {
		t.Fatal("a Wff value and a Literal value are comparable under ≤ and should merge")
	}
	got, _ := merged.Lookup(term.Variable("x"))
	if got != litValue {
		t.Errorf("expected the more concrete Literal value to win, got %s", got)
	}
}

func TestMapMergeEmptyIdentity(t *testing.T) {
	a := term.Singleton(term.Variable("x"), term.Literal("a"))

	merged, ok := MapMerge(a, term.Empty())
	if !ok || merged.Len() != 1 {
		t.Error("merging with Empty() should return the other substitution unchanged")
	}

	merged2, ok2 := MapMerge(term.Empty(), a)
	if !ok2 || merged2.Len() != 1 {
		t.Error("Empty() merged with a should return a unchanged")
	}
}
