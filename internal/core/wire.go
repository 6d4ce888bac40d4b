package core

import (
	"encoding/hex"
	"encoding/json"
)

// wireFrame is the minimal shape every rendezvous frame shares: a type
// discriminator. Concrete frames below are decoded into / encoded from
// this envelope. Grounded on spec.md §4.4's message catalogue.
type wireFrame struct {
	Type      string                 `json:"type"`
	AppID     string                 `json:"appid,omitempty"`
	Side      string                 `json:"side,omitempty"`
	ID        string                 `json:"id,omitempty"`
	Nameplate string                 `json:"nameplate,omitempty"`
	Mailbox   string                 `json:"mailbox,omitempty"`
	Phase     string                 `json:"phase,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Mood      string                 `json:"mood,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Orig      map[string]interface{} `json:"orig,omitempty"`
	Welcome   map[string]interface{} `json:"welcome,omitempty"`
	Nameplates []wireNameplate       `json:"nameplates,omitempty"`
}

type wireNameplate struct {
	ID string `json:"id"`
}

func bindFrame(appid AppID, side Side) wireFrame {
	return wireFrame{Type: "bind", AppID: string(appid), Side: string(side)}
}

func allocateFrame() wireFrame { return wireFrame{Type: "allocate"} }

func claimFrame(n Nameplate) wireFrame {
	return wireFrame{Type: "claim", Nameplate: string(n)}
}

func releaseFrame(n Nameplate) wireFrame {
	return wireFrame{Type: "release", Nameplate: string(n)}
}

func openFrame(m Mailbox) wireFrame {
	return wireFrame{Type: "open", Mailbox: string(m)}
}

func addFrame(phase string, body []byte) wireFrame {
	return wireFrame{Type: "add", Phase: phase, Body: hex.EncodeToString(body)}
}

func closeFrame(m Mailbox, mood Mood) wireFrame {
	return wireFrame{Type: "close", Mailbox: string(m), Mood: string(mood)}
}

func listFrame() wireFrame { return wireFrame{Type: "list"} }

// decodeWireFrame parses one JSON text frame from the rendezvous server.
func decodeWireFrame(text string) (wireFrame, error) {
	var f wireFrame
	err := json.Unmarshal([]byte(text), &f)
	return f, err
}
