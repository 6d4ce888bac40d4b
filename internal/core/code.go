package core

import (
	"strings"

	"github.com/webwormhole/wormhole/wordlist"
)

// codeMachine owns the human-readable code: either it asks the Allocator
// for a fresh nameplate and picks random words to append, or it takes a
// code the embedder already typed in and pulls the nameplate back out of
// it. Either way, once the nameplate is known it tells the Nameplate
// machine to claim it.
type codeMachine struct {
	words int
	got   bool
}

func newCodeMachine() codeMachine { return codeMachine{} }

func (m *codeMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toCodeAllocate:
		if m.got {
			return nil
		}
		m.words = ev.Words
		if m.words <= 0 {
			m.words = 2
		}
		return []Event{toAllocatorAllocate{Words: m.words}}

	case toCodeSetCode:
		if m.got {
			return nil
		}
		m.got = true
		nameplate, _, _ := strings.Cut(string(ev.Code), "-")
		return []Event{
			toCodeGotCode{Code: ev.Code},
			toNameplateClaim{Nameplate: Nameplate(nameplate)},
		}

	case toCodeGotNameplate:
		if m.got {
			return nil
		}
		m.got = true
		code, err := wordlist.EncodeCode(string(ev.Nameplate), m.words)
		if err != nil {
			return []Event{toBossError{Mood: MoodErrory, Err: err}}
		}
		return []Event{
			toCodeGotCode{Code: Code(code)},
			toNameplateClaim{Nameplate: ev.Nameplate},
		}
	}
	return nil
}
