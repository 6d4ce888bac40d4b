package core

import (
	"strings"

	"github.com/webwormhole/wormhole/wordlist"
)

// inputMachine tracks the nameplates currently open on the server and
// serves completions over them and the fixed PGP wordlist, for
// embedders offering interactive code entry. Grounded on
// original_source/src/core.rs's input_helper_* methods: like them, its
// completion and commit methods are called directly rather than routed
// through the event queue, since they only read or update cached state
// and never need the rest of the engine to react.
type inputMachine struct {
	nameplates []Nameplate

	committed    Nameplate
	hasCommitted bool
}

func newInputMachine() inputMachine { return inputMachine{} }

func (m *inputMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toListerGotNameplates:
		m.nameplates = ev.Nameplates
	}
	return nil
}

// Nameplates returns the most recently refreshed nameplate list.
func (m *inputMachine) Nameplates() []Nameplate { return m.nameplates }

// CompleteNameplate returns every cached nameplate with the given
// prefix, in the order the server listed them.
func (m *inputMachine) CompleteNameplate(prefix string) []Nameplate {
	if prefix == "" {
		return nil
	}
	var out []Nameplate
	for _, n := range m.nameplates {
		if strings.HasPrefix(string(n), prefix) {
			out = append(out, n)
		}
	}
	return out
}

// CompleteWord returns every PGP wordlist entry with the given prefix,
// the same list EncodeCode draws from when allocating a code.
func (m *inputMachine) CompleteWord(prefix string) []string {
	return wordlist.CompleteWord(prefix)
}

// Commit records that the user has settled on nameplate as the
// nameplate half of their code. It only records the choice;
// CompleteNameplate keeps answering as before.
func (m *inputMachine) Commit(nameplate Nameplate) {
	m.committed = nameplate
	m.hasCommitted = true
}

// Committed returns the nameplate last passed to Commit, if any.
func (m *inputMachine) Committed() (Nameplate, bool) {
	return m.committed, m.hasCommitted
}
