package core

// orderMachine reassembles inbound phase messages into the order the Key
// and Receive machines need: the "pake" phase first and always, then
// everything else held until the key exchange finishes (a numbered phase
// can arrive before Key has processed "pake" if the peer is faster than
// our own event loop turnaround).
type orderMachine struct {
	keyReady bool
	held     []toOrderGotMessage
}

func newOrderMachine() orderMachine { return orderMachine{} }

func (m *orderMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toOrderGotMessage:
		if ev.Phase == "pake" {
			return []Event{toKeyGotPake{Body: ev.Body}}
		}
		if !m.keyReady {
			m.held = append(m.held, ev)
			return nil
		}
		return []Event{toReceiveGotPhase{Side: ev.Side, Phase: ev.Phase, Body: ev.Body}}

	case toOrderKeyReady:
		m.keyReady = true
		var out []Event
		for _, h := range m.held {
			out = append(out, toReceiveGotPhase{Side: h.Side, Phase: h.Phase, Body: h.Body})
		}
		m.held = nil
		return out
	}
	return nil
}
