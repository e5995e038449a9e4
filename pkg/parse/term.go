package parse

import (
	"strings"
	"unicode"

	"github.com/gitrdm/natded/pkg/term"
)

// parser is a bounded recursive-descent parser over a single source
// line, producing pkg/term values per spec §4.7's grammar:
//
//	term  := wff | var | lit | compound | ctxop
//	wff   := '@' name
//	var   := '?' name
//	lit   := name
//	compound := name '(' term (',' term)* ')'
//	ctxop    := name '[' term (',' term)* ']'
//	fresh    := term ('$' name)*
type parser struct {
	src []rune
	pos int
}

func newParser(src string) *parser {
	return &parser{src: []rune(src)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.pos++
	}
}

func isDelim(r rune) bool {
	switch r {
	case '(', ')', '[', ']', ',', '$', '#', '@', '?':
		return true
	}
	return unicode.IsSpace(r)
}

// readName consumes a maximal run of non-delimiter characters (which
// may be empty — the grammar's "parenthesised list with no operator"
// case).
func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && !isDelim(p.peek()) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// ParseTerm parses a single term per spec §4.7's grammar. It returns
// the parsed term and the remainder of src following the consumed
// term.
func ParseTerm(src string) (*term.Term, string, error) {
	p := newParser(src)
	t, err := p.parseTerm()
	if err != nil {
		return nil, "", err
	}
	return t, string(p.src[p.pos:]), nil
}

// ParseSentenceWithFreshness parses a complete line as a term followed
// by zero or more "$name" freshness annotations (spec §4.7's fresh
// production), requiring the whole line to be consumed. The returned
// slice holds the Variable terms named by each "$" marker, in order,
// to be attached as freshness obligations on "the immediately
// enclosing premise" by the caller (spec §4.7).
func ParseSentenceWithFreshness(src string) (*term.Term, []*term.Term, error) {
	p := newParser(src)
	t, err := p.parseTerm()
	if err != nil {
		return nil, nil, err
	}

	var fresh []*term.Term
	for {
		p.skipSpace()
		if p.eof() || p.peek() != '$' {
			break
		}
		p.pos++ // consume '$'
		p.skipSpace()
		if p.peek() == '?' {
			p.pos++ // "$?x" and "$x" both name the variable ?x
		}
		name := p.readName()
		if name == "" {
			return nil, nil, newParseError("", 0, "malformed freshness annotation: expected a name, found %q", describeRune(p.peek()))
		}
		v := term.Variable(name)
		if !t.Contains(v) {
			return nil, nil, newParseError("", 0, "freshness annotation %q does not name a variable of the sentence", name)
		}
		fresh = append(fresh, v)
	}

	p.skipSpace()
	if !p.eof() {
		return nil, nil, newParseError("", 0, "unexpected trailing input %q", string(p.src[p.pos:]))
	}
	return t, fresh, nil
}

func (p *parser) parseTerm() (*term.Term, error) {
	p.skipSpace()
	switch p.peek() {
	case '@':
		p.pos++
		name := p.readName()
		return term.Wff(name), nil
	case '?':
		p.pos++
		name := p.readName()
		return term.Variable(name), nil
	}

	name := p.readName()
	p.skipSpace()
	switch p.peek() {
	case '(':
		args, err := p.parseArgList('(', ')')
		if err != nil {
			return nil, err
		}
		return term.Compound(term.Literal(name), args...), nil
	case '[':
		args, err := p.parseArgList('[', ']')
		if err != nil {
			return nil, err
		}
		var body *term.Term
		switch len(args) {
		case 0:
			body = term.Literal("")
		case 1:
			body = args[0]
		default:
			body = term.Compound(term.Literal(""), args...)
		}
		return term.ContextualOperator(term.Literal(name), body), nil
	default:
		if name == "" {
			return nil, newParseError("", 0, "expected a term, found %q", describeRune(p.peek()))
		}
		return term.Literal(name), nil
	}
}

func (p *parser) parseArgList(open, close rune) ([]*term.Term, error) {
	p.pos++ // consume open
	var args []*term.Term
	p.skipSpace()
	if p.peek() == close {
		p.pos++
		return args, nil
	}
	for {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		p.skipSpace()
		switch {
		case p.peek() == ',':
			p.pos++
			continue
		case p.peek() == close:
			p.pos++
			return args, nil
		default:
			return nil, unmatchedError(open)
		}
	}
}

func unmatchedError(open rune) error {
	switch open {
	case '(':
		return newParseError("", 0, "Unmatched Open Parenthesis.")
	case '[':
		return newParseError("", 0, "Unmatched Open Bracket.")
	default:
		return newParseError("", 0, "Unmatched delimiter.")
	}
}

func describeRune(r rune) string {
	if r == 0 {
		return "end of input"
	}
	return strings.TrimSpace(string(r))
}
