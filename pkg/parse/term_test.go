package parse

import (
	"strings"
	"testing"

	"github.com/gitrdm/natded/pkg/term"
)

func TestParseTermLiteral(t *testing.T) {
	got, rest, err := ParseTerm("foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Errorf("expected no remainder, got %q", rest)
	}
	want := term.Literal("foo")
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseTermVariableAndWff(t *testing.T) {
	v, _, err := ParseTerm("?x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != term.KindVariable || v.Name() != "x" {
		t.Errorf("expected Variable(x), got %s", v)
	}

	w, _, err := ParseTerm("@P")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Kind() != term.KindWff || w.Name() != "P" {
		t.Errorf("expected Wff(P), got %s", w)
	}
}

func TestParseTermCompound(t *testing.T) {
	got, rest, err := ParseTerm("if(A,B)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Errorf("expected no remainder, got %q", rest)
	}
	want := term.Compound(term.Literal("if"), term.Literal("A"), term.Literal("B"))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseTermNestedCompound(t *testing.T) {
	got, _, err := ParseTerm("if(and(A,B),C)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := term.Compound(term.Literal("if"),
		term.Compound(term.Literal("and"), term.Literal("A"), term.Literal("B")),
		term.Literal("C"))
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseTermContextualOperator(t *testing.T) {
	got, _, err := ParseTerm("P[x]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != term.KindContextual {
		t.Fatalf("expected a ContextualOperator, got %s", got)
	}
	if !got.Hole().Equal(term.Literal("P")) {
		t.Errorf("expected hole P, got %s", got.Hole())
	}
	if !got.Body().Equal(term.Literal("x")) {
		t.Errorf("expected body x, got %s", got.Body())
	}
}

func TestParseTermContextualOperatorMultiArg(t *testing.T) {
	got, _, err := ParseTerm("P[x,y]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := term.Compound(term.Literal(""), term.Literal("x"), term.Literal("y"))
	if !got.Body().Equal(want) {
		t.Errorf("expected body %s, got %s", want, got.Body())
	}
}

func TestParseTermRemainder(t *testing.T) {
	got, rest, err := ParseTerm("A , B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(term.Literal("A")) {
		t.Errorf("got %s, want A", got)
	}
	if strings.TrimSpace(rest) != ", B" {
		t.Errorf("expected remainder \", B\", got %q", rest)
	}
}

// TestUnmatchedParenthesis mirrors spec §8 scenario 6: an unbalanced
// open parenthesis is reported with the exact documented wording.
func TestUnmatchedParenthesis(t *testing.T) {
	_, _, err := ParseTerm("if(A,B")
	if err == nil {
		t.Fatal("expected an error for an unbalanced parenthesis")
	}
	if !strings.Contains(err.Error(), "Unmatched Open Parenthesis.") {
		t.Errorf("expected the documented message, got: %v", err)
	}
}

func TestUnmatchedBracket(t *testing.T) {
	_, _, err := ParseTerm("P[x,y")
	if err == nil {
		t.Fatal("expected an error for an unbalanced bracket")
	}
	if !strings.Contains(err.Error(), "Unmatched Open Bracket.") {
		t.Errorf("expected the documented message, got: %v", err)
	}
}

func TestParseSentenceWithFreshness(t *testing.T) {
	sen, fresh, err := ParseSentenceWithFreshness("A(?x) $x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := term.Compound(term.Literal("A"), term.Variable("x"))
	if !sen.Equal(want) {
		t.Errorf("got sentence %s, want %s", sen, want)
	}
	if len(fresh) != 1 || !fresh[0].Equal(term.Variable("x")) {
		t.Errorf("expected a single freshness marker for ?x, got %v", fresh)
	}
}

func TestParseSentenceWithMultipleFreshnessMarkers(t *testing.T) {
	_, fresh, err := ParseSentenceWithFreshness("A(?x,?y) $x $y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("expected 2 freshness markers, got %d", len(fresh))
	}
}

func TestParseSentenceRejectsNonVariableFreshnessMarker(t *testing.T) {
	_, _, err := ParseSentenceWithFreshness("A(a) $a")
	if err == nil {
		t.Fatal("expected an error: a freshness marker must name a variable")
	}
}

func TestParseSentenceRejectsTrailingInput(t *testing.T) {
	_, _, err := ParseSentenceWithFreshness("A B")
	if err == nil {
		t.Fatal("expected an error for unconsumed trailing input")
	}
}
