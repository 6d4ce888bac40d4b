package core

// bossMachine is the entry point for every event the embedder raises and
// the landing point for every notification the other machines want
// surfaced to it. It owns no wire state of its own; it only sequences the
// session's lifecycle, mirroring original_source/src/core.rs's boss
// module.
type bossMachine struct {
	started bool
	closing bool
}

func newBossMachine() bossMachine { return bossMachine{} }

func (m *bossMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case EvStart:
		if m.started {
			return nil
		}
		m.started = true
		return []Event{toRendezvousStart{}}

	case EvAllocateCode:
		return []Event{toCodeAllocate{Words: ev.Words}}

	case EvSetCode:
		return []Event{toCodeSetCode{Code: ev.Code}}

	case EvInputCode:
		return []Event{toListerRefresh{}}

	case EvSend:
		return []Event{toSendQueue{Body: ev.Body}}

	case EvClose:
		if m.closing {
			return nil
		}
		m.closing = true
		return []Event{toTerminatorClose{Mood: MoodHappy}}

	case toBossWelcome:
		return []Event{ActGotWelcome{Welcome: ev.Welcome}}

	case toBossClosed:
		return []Event{ActGotClosed{Mood: ev.Mood}}

	case toBossError:
		if m.closing {
			return nil
		}
		m.closing = true
		return []Event{toTerminatorClose{Mood: ev.Mood}}

	case toCodeGotCode:
		return []Event{
			ActGotCode{Code: ev.Code},
			toKeySetCode{Code: ev.Code},
		}

	case toKeyGotVerifiedKey:
		// The unverified-key and verifier APIActions are already emitted
		// by the Key machine itself; Boss has nothing further to do.
		return nil

	case toReceiveScared:
		if m.closing {
			return nil
		}
		m.closing = true
		return []Event{toTerminatorClose{Mood: MoodScared}}
	}
	return nil
}
