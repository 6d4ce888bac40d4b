package core

// mailboxMachine owns the open mailbox: it issues the "open" request,
// forwards our own phase messages as "add" frames (holding any that are
// sent before the mailbox is open until it is), and forwards inbound
// "message" frames (already demultiplexed and hex-decoded by Rendezvous)
// on to Order for reassembly. It also drops our own echo: the rendezvous
// server fans every "add" back out to both sides, itself included.
type mailboxMachine struct {
	side    Side
	mailbox Mailbox
	open    bool
	pending []toMailboxSend
}

func newMailboxMachine(side Side) mailboxMachine { return mailboxMachine{side: side} }

func (m *mailboxMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toMailboxOpen:
		if m.open {
			return nil
		}
		m.open = true
		m.mailbox = ev.Mailbox
		out := []Event{toRendezvousTX{Frame: openFrame(ev.Mailbox)}}
		for _, p := range m.pending {
			out = append(out, toRendezvousTX{Frame: addFrame(p.Phase, p.Body)})
		}
		m.pending = nil
		return out

	case toMailboxSend:
		if !m.open {
			m.pending = append(m.pending, ev)
			return nil
		}
		return []Event{toRendezvousTX{Frame: addFrame(ev.Phase, ev.Body)}}

	case toMailboxClose:
		if !m.open {
			return []Event{toTerminatorMailboxDone{}}
		}
		m.open = false
		return []Event{toRendezvousTX{Frame: closeFrame(m.mailbox, ev.Mood)}}

	case toMailboxRX:
		if ev.Side == m.side {
			return nil
		}
		return []Event{toOrderGotMessage{Side: ev.Side, Phase: ev.Phase, Body: ev.Body}}
	}
	return nil
}
