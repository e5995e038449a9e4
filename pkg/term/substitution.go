package term

import "strings"

// Substitution is a finite map from placeholder Terms (Variables, Wffs,
// or the hole of a ContextualOperator) to replacement Terms. Per spec
// §3's invariant, a Literal never appears as a key.
//
// Substitution is implemented as a plain map; it is not closed under
// application at insert time (spec §9). Resolution happens on demand
// inside Substitute, so a key's bound value may itself reference other
// placeholders without With needing to know about them.
type Substitution struct {
	bindings map[*Term]*Term
}

// Empty returns a substitution with no bindings.
func Empty() Substitution {
	return Substitution{bindings: nil}
}

// Singleton returns a substitution binding exactly key to value.
func Singleton(key, value *Term) Substitution {
	return Substitution{bindings: map[*Term]*Term{key: value}}
}

// IsEmpty reports whether the substitution carries no bindings.
func (s Substitution) IsEmpty() bool { return len(s.bindings) == 0 }

// Len returns the number of bindings.
func (s Substitution) Len() int { return len(s.bindings) }

// Lookup returns the term bound to key, and whether it was present.
func (s Substitution) Lookup(key *Term) (*Term, bool) {
	if s.bindings == nil {
		return nil, false
	}
	v, ok := s.bindings[key]
	return v, ok
}

// Keys returns the substitution's keys in map-iteration order. Callers
// that need determinism should sort by String().
func (s Substitution) Keys() []*Term {
	keys := make([]*Term, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	return keys
}

// With returns a new substitution with key bound to value, leaving s
// untouched. It does not check for conflicts — callers that need
// conflict detection should go through MapMerge.
func (s Substitution) With(key, value *Term) Substitution {
	out := make(map[*Term]*Term, len(s.bindings)+1)
	for k, v := range s.bindings {
		out[k] = v
	}
	out[key] = value
	return Substitution{bindings: out}
}

// maxSubstituteDepth bounds the resolution chase in Substitute, per
// spec §9's "detect divergence by bounding substitution depth per
// call". A well-formed substitution never needs anywhere near this
// many hops; hitting it means the substitution is circular.
const maxSubstituteDepth = 4096

// Substitute applies s to t. When replaceAll is true it rewrites every
// occurrence of every key and returns that single result. When
// replaceAll is false it enumerates every combination of "replace this
// occurrence" / "leave this occurrence" across the positions in t that
// structurally match one of s's keys (spec §4.1's Substitute and the
// contextual-operator sentinel rewrite of spec §4.2 case 6 both use
// this mode).
func Substitute(t *Term, s Substitution, replaceAll bool) []*Term {
	if replaceAll {
		return []*Term{substituteAll(t, s, 0)}
	}
	return substitutePartial(t, s)
}

func substituteAll(t *Term, s Substitution, depth int) *Term {
	if depth > maxSubstituteDepth {
		// Divergent substitution; return t unresolved rather than loop forever.
		return t
	}
	if v, ok := s.Lookup(t); ok {
		return substituteAll(v, s, depth+1)
	}
	switch t.kind {
	case KindCompound:
		newOp := substituteAll(t.op, s, depth+1)
		newArgs := make([]*Term, len(t.args))
		for i, a := range t.args {
			newArgs[i] = substituteAll(a, s, depth+1)
		}
		return Compound(newOp, newArgs...)
	case KindContextual:
		return ContextualOperator(
			substituteAll(t.op, s, depth+1),
			substituteAll(t.args[0], s, depth+1),
		)
	default:
		return t
	}
}

// maxPartialCombinations caps the combinatorial blow-up of
// substitutePartial, per spec §5's "cap the number of sub-term
// combinations explored ... and fail conservatively". The traversal
// order is pre-order and deterministic (spec §9), so truncation always
// drops the same, lowest-priority combinations across runs.
const maxPartialCombinations = 4096

func substitutePartial(t *Term, s Substitution) []*Term {
	var results []*Term

	if v, ok := s.Lookup(t); ok {
		results = append(results, v)
	}

	var kept []*Term
	switch t.kind {
	case KindCompound:
		opChoices := substitutePartial(t.op, s)
		argChoices := make([][]*Term, len(t.args))
		for i, a := range t.args {
			argChoices[i] = substitutePartial(a, s)
		}
		kept = cartesianRebuildCompound(opChoices, argChoices)
	case KindContextual:
		holeChoices := substitutePartial(t.op, s)
		bodyChoices := substitutePartial(t.args[0], s)
		for _, h := range holeChoices {
			for _, b := range bodyChoices {
				kept = append(kept, ContextualOperator(h, b))
				if len(kept) >= maxPartialCombinations {
					break
				}
			}
			if len(kept) >= maxPartialCombinations {
				break
			}
		}
	default:
		kept = []*Term{t}
	}

	results = append(results, kept...)
	if len(results) > maxPartialCombinations {
		results = results[:maxPartialCombinations]
	}
	return results
}

func cartesianRebuildCompound(opChoices []*Term, argChoices [][]*Term) []*Term {
	combos := [][]*Term{{}}
	allChoices := append([][]*Term{opChoices}, argChoices...)
	for _, choices := range allChoices {
		var next [][]*Term
		for _, combo := range combos {
			for _, c := range choices {
				extended := append(append([]*Term(nil), combo...), c)
				next = append(next, extended)
				if len(next) >= maxPartialCombinations {
					break
				}
			}
			if len(next) >= maxPartialCombinations {
				break
			}
		}
		combos = next
	}

	out := make([]*Term, 0, len(combos))
	for _, combo := range combos {
		out = append(out, Compound(combo[0], combo[1:]...))
	}
	return out
}

// String renders a substitution as {key=value, ...} for diagnostics.
func (s Substitution) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	var parts []string
	for k, v := range s.bindings {
		parts = append(parts, k.String()+"="+v.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
