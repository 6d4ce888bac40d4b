package core

import (
	"encoding/hex"
	"encoding/json"
	"errors"
)

// rendezvousReconnectDelay is the flat reconnect wait after a lost
// connection, per spec.md's 5-second retry requirement.
const rendezvousReconnectDelay = 5

// rendezvousMachine owns the single WebSocket connection to the
// rendezvous server and the reconnect timer, and demultiplexes every
// inbound wire frame to the sub-machine that owns that concern. Grounded
// on wormhole/dial.go's dial sequence (bind, then per-step request/
// response) generalized from one-shot WebRTC offer exchange to a
// long-lived nameplate/mailbox session.
type rendezvousMachine struct {
	appid AppID
	side  Side
	url   string

	wsHandle    WSHandle
	timerHandle TimerHandle

	connected   bool
	stopped     bool
	reconnecting bool

	pending []wireFrame
}

func newRendezvousMachine(appid AppID, relayURL string, side Side) rendezvousMachine {
	return rendezvousMachine{appid: appid, side: side, url: relayURL}
}

func (m *rendezvousMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toRendezvousStart:
		m.stopped = false
		m.wsHandle++
		return []Event{ActWebSocketOpen{Handle: m.wsHandle, URL: m.url}}

	case toRendezvousStop:
		m.stopped = true
		if !m.connected {
			return nil
		}
		m.connected = false
		return []Event{ActWebSocketClose{Handle: m.wsHandle}}

	case toRendezvousTX:
		frame, _ := ev.Frame.(wireFrame)
		if !m.connected {
			m.pending = append(m.pending, frame)
			return nil
		}
		return []Event{m.send(frame)}

	case EvWebSocketConnectionMade:
		if ev.Handle != m.wsHandle {
			return nil
		}
		m.connected = true
		out := []Event{m.send(bindFrame(m.appid, m.side))}
		for _, f := range m.pending {
			out = append(out, m.send(f))
		}
		m.pending = nil
		return out

	case EvWebSocketMessageReceived:
		if ev.Handle != m.wsHandle {
			return nil
		}
		return m.dispatch(ev.Text)

	case EvWebSocketConnectionLost:
		if ev.Handle != m.wsHandle {
			return nil
		}
		m.connected = false
		if m.stopped {
			return []Event{toTerminatorRendezvousDone{}}
		}
		m.reconnecting = true
		m.timerHandle++
		return []Event{ActStartTimer{Handle: m.timerHandle, Seconds: rendezvousReconnectDelay}}

	case EvTimerExpired:
		if !m.reconnecting || ev.Handle != m.timerHandle {
			return nil
		}
		m.reconnecting = false
		m.wsHandle++
		return []Event{ActWebSocketOpen{Handle: m.wsHandle, URL: m.url}}
	}
	return nil
}

func (m *rendezvousMachine) send(f wireFrame) Event {
	body, err := json.Marshal(f)
	if err != nil {
		panic(err)
	}
	return ActWebSocketSendMessage{Handle: m.wsHandle, Message: string(body)}
}

// dispatch turns one inbound wire frame into whatever cross-machine
// directive its type calls for. The rendezvous server's frames are
// otherwise untyped JSON, so this type switch on f.Type is this module's
// analogue of original_source/src/core.rs's enum-tagged server messages.
func (m *rendezvousMachine) dispatch(text string) []Event {
	f, err := decodeWireFrame(text)
	if err != nil {
		return []Event{toBossError{Mood: MoodErrory, Err: err}}
	}
	switch f.Type {
	case "welcome":
		return []Event{toBossWelcome{Welcome: f.Welcome}}
	case "allocated":
		return []Event{toCodeGotNameplate{Nameplate: Nameplate(f.Nameplate)}}
	case "claimed":
		return []Event{toNameplateClaimed{Mailbox: Mailbox(f.Mailbox)}}
	case "released":
		return []Event{toNameplateReleased{}}
	case "closed":
		return []Event{toTerminatorMailboxDone{}}
	case "nameplates":
		nps := make([]Nameplate, 0, len(f.Nameplates))
		for _, n := range f.Nameplates {
			nps = append(nps, Nameplate(n.ID))
		}
		return []Event{toListerGotNameplates{Nameplates: nps}}
	case "message":
		body, err := hex.DecodeString(f.Body)
		if err != nil {
			return []Event{toBossError{Mood: MoodErrory, Err: err}}
		}
		return []Event{toMailboxRX{Side: Side(f.Side), Phase: f.Phase, Body: body}}
	case "error":
		return []Event{toBossError{Mood: MoodErrory, Err: errors.New(f.Error)}}
	case "ack", "pong":
		return nil
	}
	return nil
}
