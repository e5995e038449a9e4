package parse

import (
	"strings"

	"github.com/gitrdm/natded/pkg/proof"
	"github.com/gitrdm/natded/pkg/rule"
	"github.com/gitrdm/natded/pkg/term"
)

// FileOpener retrieves the text of an included file by path (spec §6's
// openIncluded collaborator interface). The core never touches a
// filesystem directly; callers supply this.
type FileOpener func(path string) (string, error)

// Document is the result of parsing one proof-file (after include
// expansion): every directive seen, every inference rule defined, and
// every proof encountered together with its eager verification result
// (spec's "proofs must be verified during parsing so later proofs in
// the same file can reuse them as derived rules").
type Document struct {
	Directives map[string]string
	Rules      map[string]*rule.Rule
	Proofs     []*proof.Proof
	Results    map[string]proof.VerifyResult
}

type sourceLine struct {
	file string
	num  int
	text string
}

// Parse reads file through opener, splices in every include directive
// (spec §6's "Includes ... splice another file's lines into the work
// queue"), and runs the { default, in-inference, in-proof } stream
// parser over the result.
func Parse(file string, opener FileOpener) (*Document, error) {
	text, err := opener(file)
	if err != nil {
		return nil, newParseError(file, 0, "cannot open %q: %v", file, err)
	}

	visited := map[string]bool{file: true}
	lines, err := expandIncludes(file, splitLines(file, text), opener, visited)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Directives: map[string]string{},
		Rules:      map[string]*rule.Rule{},
		Results:    map[string]proof.VerifyResult{},
	}
	return doc, runStateMachine(doc, lines)
}

func splitLines(file, text string) []sourceLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]sourceLine, 0, len(raw))
	for i, l := range raw {
		out = append(out, sourceLine{file: file, num: i + 1, text: l})
	}
	return out
}

// expandIncludes walks lines looking for "include" directives and
// splices the referenced file's lines in place. A path already in
// visited is skipped unless the directive carries a subset specifier,
// which is taken (per our documented reading of spec's unspecified
// "lineSpec") to be a comma-separated allow-list of inference/proof
// names; whenever a subset specifier is present (first inclusion or
// re-inclusion), the included file's lines are cut down to the named
// blocks by filterBlocksByName before they are spliced in.
func expandIncludes(file string, lines []sourceLine, opener FileOpener, visited map[string]bool) ([]sourceLine, error) {
	out := make([]sourceLine, 0, len(lines))
	for _, l := range lines {
		fields := tabFields(stripComment(l.text))
		if len(fields) == 0 || strings.TrimSpace(fields[0]) != "include" {
			out = append(out, l)
			continue
		}
		if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
			return nil, newParseError(l.file, l.num, "include directive missing a path")
		}
		path := strings.TrimSpace(fields[1])
		subset := ""
		if len(fields) >= 3 {
			subset = strings.TrimSpace(fields[2])
		}

		if visited[path] && subset == "" {
			continue // already included, no subset specifier: ignored (spec §6)
		}
		visited[path] = true

		text, err := opener(path)
		if err != nil {
			return nil, newParseError(l.file, l.num, "cannot open included file %q: %v", path, err)
		}
		included := splitLines(path, text)
		if subset != "" {
			included = filterBlocksByName(included, strings.Split(subset, ","))
		}
		nested, err := expandIncludes(path, included, opener, visited)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// filterBlocksByName keeps only "inference"/"proof" blocks whose name
// line matches one of names (trimmed), dropping every other block and
// every top-level directive line. This is the bounded, documented
// interpretation of an include's optional subset specifier.
func filterBlocksByName(lines []sourceLine, names []string) []sourceLine {
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[strings.TrimSpace(n)] = true
	}

	var out []sourceLine
	state := "default"
	keep := false
	var block []sourceLine
	nameSeen := false

	flush := func() {
		if keep {
			out = append(out, block...)
		}
		block = nil
		keep = false
		nameSeen = false
	}

	for _, l := range lines {
		trimmed := strings.TrimSpace(stripComment(l.text))
		switch state {
		case "default":
			if trimmed == "inference" || trimmed == "proof" {
				state = trimmed
				block = []sourceLine{l}
			}
		default:
			block = append(block, l)
			if trimmed == "" {
				continue
			}
			if !nameSeen {
				nameSeen = true
				keep = wanted[trimmed]
				continue
			}
			if trimmed == "done" {
				flush()
				state = "default"
			}
		}
	}
	return out
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func tabFields(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return strings.Split(line, "\t")
}

type pendingSentence struct {
	sentence *term.Term
	fresh    []*term.Term
}

func runStateMachine(doc *Document, lines []sourceLine) error {
	state := "default"

	var pendingName string
	var pendingSentences []pendingSentence

	var pendingProofName string
	var pendingProofLines []sourceLine

	for _, l := range lines {
		text := stripComment(l.text)
		fields := tabFields(text)
		trimmed := strings.TrimSpace(text)

		switch state {
		case "default":
			if len(fields) == 0 {
				continue
			}
			switch strings.TrimSpace(fields[0]) {
			case "set":
				if len(fields) < 3 {
					return newParseError(l.file, l.num, "set directive requires a key and a value")
				}
				doc.Directives[strings.TrimSpace(fields[1])] = strings.TrimSpace(fields[2])
			case "inference":
				state = "in-inference"
				pendingName = ""
				pendingSentences = nil
			case "proof":
				state = "in-proof"
				pendingProofName = ""
				pendingProofLines = nil
			default:
				return newParseError(l.file, l.num, "unexpected line %q outside any block", trimmed)
			}

		case "in-inference":
			if trimmed == "" {
				continue
			}
			if trimmed == "done" {
				r, err := finishInference(pendingName, pendingSentences, l.file, l.num)
				if err != nil {
					return err
				}
				doc.Rules[r.Name()] = r
				state = "default"
				continue
			}
			if pendingName == "" {
				pendingName = trimmed
				continue
			}
			sen, fresh, err := ParseSentenceWithFreshness(trimmed)
			if err != nil {
				return newParseError(l.file, l.num, "%v", err)
			}
			pendingSentences = append(pendingSentences, pendingSentence{sentence: sen, fresh: fresh})

		case "in-proof":
			if trimmed == "" {
				continue
			}
			if trimmed == "done" {
				p, result, err := finishProof(doc, pendingProofName, pendingProofLines)
				if err != nil {
					return err
				}
				doc.Proofs = append(doc.Proofs, p)
				doc.Results[p.Name()] = result
				state = "default"
				continue
			}
			if pendingProofName == "" {
				pendingProofName = trimmed
				continue
			}
			pendingProofLines = append(pendingProofLines, l)
		}
	}

	switch state {
	case "in-inference":
		return newParseError("", 0, "inference block %q missing closing \"done\"", pendingName)
	case "in-proof":
		return newParseError("", 0, "proof block %q missing closing \"done\"", pendingProofName)
	}
	return nil
}

// finishInference builds a rule.Rule from the name and the ordered
// sentence list gathered between "inference <name>" and "done": all
// sentences but the last are premises, the last is the conclusion
// (spec §6's proof-file format). A block with no sentences at all
// defines a vacuous, conclusion-less rule.
func finishInference(name string, sentences []pendingSentence, file string, lineNo int) (*rule.Rule, error) {
	if name == "" {
		return nil, newParseError(file, lineNo, "inference block has no name")
	}

	var premises []*term.Term
	var conclusion *term.Term
	var obligs []rule.FreshObligation

	for i, ps := range sentences {
		isConclusion := i == len(sentences)-1
		if isConclusion {
			conclusion = ps.sentence
			continue
		}
		premises = append(premises, ps.sentence)
		for _, v := range ps.fresh {
			obligs = append(obligs, rule.FreshObligation{Premise: ps.sentence, Var: v})
		}
	}

	return rule.New(name, conclusion, premises, obligs), nil
}

// finishProof resolves a buffered "proof <name> ... done" block into a
// verified proof.Proof. Line references are two-pass: a prescan maps
// each line's free-form lineNum token to the LineID it will receive
// (lines are always appended in file order, so the i-th buffered line
// always becomes LineID i+1), which lets a support field cite a token
// that appears later in the file — exactly the shape needed for
// spec §8 scenario 2's forward-reference test, where the failure must
// surface from Verify, not from parsing.
func finishProof(doc *Document, name string, lines []sourceLine) (*proof.Proof, proof.VerifyResult, error) {
	if name == "" {
		return nil, proof.VerifyResult{}, newParseError("", 0, "proof block has no name")
	}

	tokenToID := make(map[string]proof.LineID, len(lines))
	for i, l := range lines {
		fields := tabFields(stripComment(l.text))
		if len(fields) == 0 {
			continue
		}
		tokenToID[strings.TrimSpace(fields[0])] = proof.LineID(i + 1)
	}

	p := proof.New(name)
	for name, r := range doc.Rules {
		p.Inferences[name] = r
	}
	for _, other := range doc.Proofs {
		p.Inferences[other.Name()] = other
	}

	for _, l := range lines {
		fields := tabFields(stripComment(l.text))
		if len(fields) == 0 {
			continue
		}
		sentenceText := ""
		if len(fields) >= 2 {
			sentenceText = strings.TrimSpace(fields[1])
		}
		sen, _, err := ParseSentenceWithFreshness(sentenceText)
		if err != nil {
			return nil, proof.VerifyResult{}, newParseError(l.file, l.num, "%v", err)
		}

		ruleName := ""
		if len(fields) >= 3 {
			ruleName = strings.TrimSpace(fields[2])
		}

		var supports []proof.LineID
		if len(fields) >= 4 && strings.TrimSpace(fields[3]) != "" {
			for _, tok := range strings.Split(fields[3], ",") {
				tok = strings.TrimSpace(tok)
				id, ok := tokenToID[tok]
				if !ok {
					return nil, proof.VerifyResult{}, newParseError(l.file, l.num, "reference to unknown line %q", tok)
				}
				supports = append(supports, id)
			}
		}

		if ruleName != "" {
			if _, ok := p.Inferences[ruleName]; !ok {
				return nil, proof.VerifyResult{}, newParseError(l.file, l.num, "reference to unknown inference rule %q", ruleName)
			}
		} else if len(supports) > 0 {
			return nil, proof.VerifyResult{}, newParseError(l.file, l.num, "line cites supports but names no rule")
		}

		p.AddLine(sen, ruleName, supports)
	}

	result := p.Verify()
	return p, result, nil
}
