package core

// nameplateMachine claims the nameplate both sides rendezvous on, learns
// the mailbox id that claim assigns, and releases the nameplate once the
// mailbox is open (the nameplate itself is scarce, four-digit, and
// reused across sessions; the mailbox is not).
type nameplateMachine struct {
	nameplate Nameplate
	mailbox   Mailbox
	claimed   bool
	released  bool
}

func newNameplateMachine() nameplateMachine { return nameplateMachine{} }

func (m *nameplateMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toNameplateClaim:
		if m.claimed {
			return nil
		}
		m.nameplate = ev.Nameplate
		return []Event{toRendezvousTX{Frame: claimFrame(ev.Nameplate)}}

	case toNameplateClaimed:
		m.claimed = true
		m.mailbox = ev.Mailbox
		m.released = true
		return []Event{
			toMailboxOpen{Mailbox: ev.Mailbox},
			toRendezvousTX{Frame: releaseFrame(m.nameplate)},
		}

	case toNameplateRelease:
		if !m.claimed {
			// Nothing was ever claimed, so no "released" frame is ever
			// coming back from the server: mirror mailbox.go's
			// !m.open guard and report done immediately.
			return []Event{toTerminatorNameplateDone{}}
		}
		if m.released {
			return nil
		}
		m.released = true
		return []Event{toRendezvousTX{Frame: releaseFrame(m.nameplate)}}

	case toNameplateReleased:
		return []Event{toTerminatorNameplateDone{}}
	}
	return nil
}
