// Package proof implements the Fitch-style line sequence, its verifier
// (spec §4.5), and derived-rule promotion (spec §4.6): a verified Proof
// can itself be used wherever an inference rule is expected.
package proof

import "github.com/gitrdm/natded/pkg/term"

// LineID identifies a line within a single Proof. It is stable across
// edits to other lines, which is what lets a support reference survive
// as a (proof, LineID) pair rather than a raw pointer — deleting the
// referenced line removes its entry from the Proof's line table, and
// any remaining reference to that LineID becomes dangling (spec §9's
// "Weak support references").
type LineID int

// AssumptionRuleName is the built-in no-premise rule every proof line
// without an explicit rule name is implicitly justified by (spec §3,
// §4.7's "lines with only (lineNum, sentence) are implicitly
// assumptions").
const AssumptionRuleName = "Assumption"

// Line is one line of a Proof: a sentence, the rule that is claimed to
// justify it, and the earlier lines (by LineID) cited as supports.
//
// Line has exactly two kinds of mutable state: the edit-triggering
// fields (sentence/rule/supports) and the derived numbering. The
// content fields are only ever changed through Proof.EditLine, which
// always clears every line's number, and the number is only ever set by
// Proof.Verify, so there is no way to change a line's content without
// also invalidating its position in a verified proof (spec §9's "Line
// metadata mutability").
type Line struct {
	id         LineID
	sentence   *term.Term
	ruleName   string
	supportIDs []LineID
	number     *int // nil means "dirty" (no assigned position)
}

// ID returns the line's stable identifier.
func (l *Line) ID() LineID { return l.id }

// Sentence returns the line's claimed sentence.
func (l *Line) Sentence() *term.Term { return l.sentence }

// RuleName returns the name of the rule the line cites. It is never ""
// for a line produced by Proof.AddLine, which defaults an empty rule
// name to AssumptionRuleName; a bare "" here models spec §4.5's "rule
// is absent" case for lines constructed without going through the
// normal API.
func (l *Line) RuleName() string { return l.ruleName }

// SupportIDs returns the LineIDs the line cites as supports.
func (l *Line) SupportIDs() []LineID { return append([]LineID(nil), l.supportIDs...) }

// Number returns the line's assigned display position and whether it
// is currently assigned. A verified proof has every line's number
// populated; any verification failure, or any edit, clears it.
func (l *Line) Number() (int, bool) {
	if l.number == nil {
		return 0, false
	}
	return *l.number, true
}
