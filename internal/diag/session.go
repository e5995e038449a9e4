// Package diag models the longer-lived, multi-file session a CLI
// collaborator may keep across several invocations of the core: it
// reproduces spec §7.2's "dead-weak" error class, where a Proof
// defined in one file is used as a derived rule from another and the
// defining file is later unloaded or reparsed out from under it.
package diag

import (
	"sync"

	"github.com/gitrdm/natded/pkg/parse"
	"github.com/gitrdm/natded/pkg/rule"
)

// Session keeps the most recently parsed Document for each path a
// caller has Load'ed. Unlike a parsed proof's Inferences map (which
// holds direct *rule.Rule/*proof.Proof pointers copied in at parse
// time), a Session resolves a name afresh on every Lookup against the
// Documents currently loaded: there is no pointer held across a Forget
// or Reload, so a stale lookup fails cleanly instead of resolving to a
// since-replaced value.
type Session struct {
	mu    sync.Mutex
	docs  map[string]*parse.Document
	order []string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{docs: make(map[string]*parse.Document)}
}

// Load parses path with opener and remembers its Document under path,
// replacing whatever was previously loaded for that path (spec §7.2's
// "the defining file has been freed" is the Forget/Reload half of this
// lifecycle; Load is the initial or refreshed half).
func (s *Session) Load(path string, opener parse.FileOpener) (*parse.Document, error) {
	doc, err := parse.Parse(path, opener)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.order = append(s.order, path)
	s.docs[path] = doc
	return doc, nil
}

// Forget drops path's Document entirely. Any name that was only
// defined there becomes unresolvable from this point on.
func (s *Session) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
}

// Lookup resolves name against every currently loaded Document, most
// recently loaded first, returning the rule or proof (both satisfy
// rule.Like) and whether it was found. A name defined only by a
// forgotten or stale-reloaded file reports ok == false — the
// "dead-weak" failure mode spec §7.2 calls for, modeled here as an
// ordinary missing-entry lookup rather than any language-level weak
// pointer.
func (s *Session) Lookup(name string) (rule.Like, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.order) - 1; i >= 0; i-- {
		doc, ok := s.docs[s.order[i]]
		if !ok {
			continue
		}
		if r, ok := doc.Rules[name]; ok {
			return r, true
		}
		for _, p := range doc.Proofs {
			if p.Name() == name {
				return p, true
			}
		}
	}
	return nil, false
}
