package proof

import (
	"github.com/gitrdm/natded/pkg/match"
	"github.com/gitrdm/natded/pkg/rule"
	"github.com/gitrdm/natded/pkg/term"
)

// Turnstile is the object-language "|-" operator (spec §4.6 step 3): a
// Compound Turnstile(left, right) denotes "right follows given left as
// a subproof assumption" when a derived rule's conclusion is matched
// against it.
var Turnstile = term.Literal("|-")

// Assumption is the built-in rule every unattributed proof line is
// justified by. Its conclusion is a Wff (matches any sentence
// whatsoever — assumption lines are frequently compound, e.g. "(1,
// if(A,B))" in spec §8 scenario 1) and it takes no premises, so it
// only accepts lines with zero supports.
var Assumption = rule.New(AssumptionRuleName, term.Wff("_assumption_"), nil, nil)

// State is a Proof's position in the clean/dirty/verified state
// machine of spec §4.5.
type State int

const (
	// StateClean: no line carries a number (a freshly created proof, or
	// one whose last Verify failed and that has not been edited since).
	StateClean State = iota
	// StateDirty: at least one structural edit happened since the last
	// verify, so all numbers are cleared.
	StateDirty
	// StateVerified: the last Verify call succeeded and every line
	// carries its assigned number.
	StateVerified
)

// Numbering maps a zero-based textual line index to the value exposed
// to callers as that line's display number (spec's "under the proof's
// numbering function"). The default is 1-based.
type Numbering func(index int) int

func defaultNumbering(index int) int { return index + 1 }

// Proof is a named, ordered sequence of Lines plus the table of
// inference rules (and other Proofs, used as derived rules) its lines
// may cite by name. A Proof is itself a Rule-Like value: its premises
// are its assumption lines, its conclusions are all of its derived
// lines (spec §3's "A Proof is a Rule").
type Proof struct {
	ProofName  string
	order      []LineID
	lines      map[LineID]*Line
	nextID     LineID
	Inferences map[string]rule.Like
	Numbering  Numbering
	state      State
}

// New creates an empty, clean Proof. The built-in Assumption rule is
// always present in Inferences (spec §3's proof-inferences invariant).
func New(name string) *Proof {
	return &Proof{
		ProofName:  name,
		lines:      make(map[LineID]*Line),
		Inferences: map[string]rule.Like{AssumptionRuleName: Assumption},
		Numbering:  defaultNumbering,
		state:      StateClean,
	}
}

// Name implements rule.Like.
func (p *Proof) Name() string { return p.ProofName }

// State returns the proof's current clean/dirty/verified state.
func (p *Proof) State() State { return p.state }

// Lines returns the proof's lines in textual order.
func (p *Proof) Lines() []*Line {
	out := make([]*Line, 0, len(p.order))
	for _, id := range p.order {
		if l, ok := p.lines[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Line looks up a line by LineID. The second return is false if the
// line has been removed (a dangling weak reference).
func (p *Proof) Line(id LineID) (*Line, bool) {
	l, ok := p.lines[id]
	return l, ok
}

// markDirty clears every line's assigned number and drops the proof
// out of StateVerified (spec §4.5: "any structural edit to any line →
// dirty").
func (p *Proof) markDirty() {
	for _, l := range p.lines {
		l.number = nil
	}
	p.state = StateDirty
}

// AddLine appends a new line to the proof and returns its LineID. An
// empty ruleName defaults to AssumptionRuleName (spec §4.7: "lines with
// only (lineNum, sentence) are implicitly assumptions").
func (p *Proof) AddLine(sentence *term.Term, ruleName string, supports []LineID) LineID {
	if ruleName == "" {
		ruleName = AssumptionRuleName
	}
	p.nextID++
	id := p.nextID
	p.lines[id] = &Line{
		id:         id,
		sentence:   sentence,
		ruleName:   ruleName,
		supportIDs: append([]LineID(nil), supports...),
	}
	p.order = append(p.order, id)
	p.markDirty()
	return id
}

// EditLine replaces an existing line's content in place, preserving its
// position in the textual order. It invalidates every line's number.
func (p *Proof) EditLine(id LineID, sentence *term.Term, ruleName string, supports []LineID) bool {
	l, ok := p.lines[id]
	if !ok {
		return false
	}
	if ruleName == "" {
		ruleName = AssumptionRuleName
	}
	l.sentence = sentence
	l.ruleName = ruleName
	l.supportIDs = append([]LineID(nil), supports...)
	p.markDirty()
	return true
}

// RemoveLine deletes a line from the proof. Any other line that cites
// it as a support now holds a dangling reference, which Verify reports
// as a failure at that citing line rather than a use-after-free (spec
// §5's "Line supports must be lifecycle-weak").
func (p *Proof) RemoveLine(id LineID) bool {
	if _, ok := p.lines[id]; !ok {
		return false
	}
	delete(p.lines, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.markDirty()
	return true
}

// VerifyResult is the outcome of a Verify call.
type VerifyResult struct {
	OK          bool
	FailingLine int // display number of the first failing line; 0 if OK
}

// Verify walks the proof's lines in textual order (spec §4.5). For
// each line it resolves every support's current display number
// (forward references and dangling weak references both fail the
// citing line), then calls the cited rule's IsValid. On the first
// failure every line's number is cleared and the failing line's
// display number is returned; on success every line's number is
// populated and the proof moves to StateVerified.
func (p *Proof) Verify() VerifyResult {
	assigned := make(map[LineID]int, len(p.order))

	for idx, id := range p.order {
		line := p.lines[id]

		supportSentences := make([]*term.Term, 0, len(line.supportIDs))
		for _, sid := range line.supportIDs {
			supportLine, ok := p.lines[sid]
			if !ok {
				p.fail()
				return VerifyResult{OK: false, FailingLine: p.Numbering(idx)}
			}
			if _, ok := assigned[sid]; !ok {
				// Not yet assigned in this pass: forward or self reference.
				p.fail()
				return VerifyResult{OK: false, FailingLine: p.Numbering(idx)}
			}
			supportSentences = append(supportSentences, supportLine.sentence)
		}

		if line.ruleName == "" {
			p.fail()
			return VerifyResult{OK: false, FailingLine: p.Numbering(idx)}
		}

		r, ok := p.Inferences[line.ruleName]
		if !ok || !r.IsValid(line.sentence, supportSentences) {
			p.fail()
			return VerifyResult{OK: false, FailingLine: p.Numbering(idx)}
		}

		n := p.Numbering(idx)
		line.number = &n
		assigned[id] = n
	}

	p.state = StateVerified
	return VerifyResult{OK: true}
}

func (p *Proof) fail() {
	for _, l := range p.lines {
		l.number = nil
	}
	p.state = StateClean
}

// isAtomicSchema reports whether t is atomic enough to be ≤ a bare
// Variable — equivalently (by the case analysis in §4.2), whether t is
// itself a Variable or a Wff. A Literal, Compound, or ContextualOperator
// can never map into a Variable target: Literal↔non-Literal always
// fails, and a Variable's atomic-only matching rejects Compound and
// ContextualOperator targets outright.
func isAtomicSchema(t *term.Term) bool {
	return t.Kind() == term.KindVariable || t.Kind() == term.KindWff
}

// IsValid implements derived-rule promotion (spec §4.6): does this
// proof prove that sen follows from refs? It fails fast if the proof
// has not been verified. A Turnstile sentence is treated as spec §4.6
// step 3 describes: sen's left child becomes an extra reference (the
// subproof's assumption) and its right child becomes the sentence
// actually searched for.
func (p *Proof) IsValid(sen *term.Term, refs []*term.Term) bool {
	if p.state != StateVerified {
		return false
	}

	effectiveSen := sen
	effectiveRefs := append([]*term.Term(nil), refs...)
	if sen.Kind() == term.KindCompound && sen.Arity() == 2 && sen.Op().Equal(Turnstile) {
		effectiveRefs = append(effectiveRefs, sen.Args()[0])
		effectiveSen = sen.Args()[1]
	}

	premises := p.generalizedPremises()

	for _, id := range p.order {
		line := p.lines[id]
		generalized := line.sentence.Generalize()
		for _, conclusionMap := range match.MapInto(generalized, effectiveSen, true) {
			if len(rule.Assign(premises, effectiveRefs, conclusionMap)) > 0 {
				return true
			}
		}
	}
	return false
}

// generalizedPremises returns the proof's parametric assumption lines
// — those whose rule is Assumption and whose sentence is itself a
// Variable or Wff schema, per spec §4.6 step 2 — with their literals
// generalized into rule-level parameters (spec §4.1's Generalize).
func (p *Proof) generalizedPremises() []*term.Term {
	var premises []*term.Term
	for _, id := range p.order {
		l := p.lines[id]
		if l.ruleName == AssumptionRuleName && isAtomicSchema(l.sentence) {
			premises = append(premises, l.sentence.Generalize())
		}
	}
	return premises
}
