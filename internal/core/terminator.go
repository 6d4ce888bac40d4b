package core

// terminatorMachine winds the session down: it instructs Nameplate and
// Mailbox to let go and Rendezvous to disconnect, and waits for
// confirmation from all three before telling Boss the session is closed.
// The nameplate release is usually a no-op by the time this runs, since
// Nameplate lets go of it right after the mailbox opens, but closing
// before a nameplate was ever claimed still needs somewhere to get its
// toTerminatorNameplateDone from.
type terminatorMachine struct {
	mood Mood

	closing bool
	done    bool

	nameplateDone  bool
	mailboxDone    bool
	rendezvousDone bool
}

func newTerminatorMachine() terminatorMachine { return terminatorMachine{} }

func (m *terminatorMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toTerminatorClose:
		if m.closing {
			return nil
		}
		m.closing = true
		m.mood = ev.Mood
		return append([]Event{
			toNameplateRelease{},
			toMailboxClose{Mood: ev.Mood},
		}, m.maybeDone()...)

	case toTerminatorNameplateDone:
		m.nameplateDone = true
		return m.maybeDone()

	case toTerminatorMailboxDone:
		m.mailboxDone = true
		out := m.maybeDone()
		if m.closing {
			out = append(out, toRendezvousStop{})
		}
		return out

	case toTerminatorRendezvousDone:
		m.rendezvousDone = true
		return m.maybeDone()
	}
	return nil
}

func (m *terminatorMachine) maybeDone() []Event {
	if m.done || !m.closing {
		return nil
	}
	if !m.nameplateDone || !m.mailboxDone || !m.rendezvousDone {
		return nil
	}
	m.done = true
	return []Event{toBossClosed{Mood: m.mood}}
}
