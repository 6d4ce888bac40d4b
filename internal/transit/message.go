// Package transit implements the post-key-exchange file transfer
// subsystem: hint exchange over the mailbox, a direct/relay connection
// race, a keyed handshake, and AEAD-encrypted, checksum-verified record
// streaming. Grounded on original_source/src/io/blocking.rs's
// send_file/receive_file and their helpers.
package transit

import "encoding/json"

// Ability advertises a transport this side can use.
type Ability struct {
	Type string `json:"type"`
}

// DirectHint is one "connect here" address, used both for direct-tcp-v1
// hints and nested inside relay-v1 hints.
type DirectHint struct {
	Type     string  `json:"type"`
	Priority float64 `json:"priority"`
	Hostname string  `json:"hostname"`
	Port     int     `json:"port"`
}

func newDirectHint(host string, port int) DirectHint {
	return DirectHint{Type: "direct-tcp-v1", Priority: 0, Hostname: host, Port: port}
}

// RelayHint is a relay-v1 hint: a set of addresses for the same relay,
// any of which may be reachable.
type RelayHint struct {
	Type  string       `json:"type"`
	Hints []DirectHint `json:"hints"`
}

// transitMsg is the "transit" peer message: the abilities and hints one
// side offers for the file-transfer connection.
type transitMsg struct {
	Transit struct {
		AbilitiesV1 []Ability `json:"abilities-v1"`
		HintsV1     []Hint    `json:"hints-v1"`
	} `json:"transit"`
}

// Hint is either a DirectHint or a RelayHint; both shapes are carried in
// hints-v1, discriminated at decode time by "type".
type Hint struct {
	Direct *DirectHint
	Relay  *RelayHint
}

func (h Hint) MarshalJSON() ([]byte, error) {
	if h.Relay != nil {
		return json.Marshal(h.Relay)
	}
	return json.Marshal(h.Direct)
}

func (h *Hint) UnmarshalJSON(b []byte) error {
	var tagged struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &tagged); err != nil {
		return err
	}
	if tagged.Type == "relay-v1" {
		var r RelayHint
		if err := json.Unmarshal(b, &r); err != nil {
			return err
		}
		h.Relay = &r
		return nil
	}
	var d DirectHint
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	h.Direct = &d
	return nil
}

func buildTransitMsg(direct []DirectHint, relay RelayHint) []byte {
	var m transitMsg
	m.Transit.AbilitiesV1 = []Ability{{Type: "direct-tcp-v1"}, {Type: "relay-v1"}}
	for _, d := range direct {
		m.Transit.HintsV1 = append(m.Transit.HintsV1, Hint{Direct: &d})
	}
	if len(relay.Hints) > 0 {
		m.Transit.HintsV1 = append(m.Transit.HintsV1, Hint{Relay: &relay})
	}
	b, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

func parseTransitMsg(body []byte) (abilities []Ability, direct []DirectHint, relay []DirectHint, err error) {
	var m transitMsg
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, nil, err
	}
	for _, h := range m.Transit.HintsV1 {
		switch {
		case h.Direct != nil:
			direct = append(direct, *h.Direct)
		case h.Relay != nil:
			relay = append(relay, h.Relay.Hints...)
		}
	}
	return m.Transit.AbilitiesV1, direct, relay, nil
}

// offerMsg / answerMsg are the tiny JSON envelopes exchanged to agree
// what's being sent. Directory is parsed so an offer of one is refused
// cleanly instead of this side misreading its fields as a file offer,
// even though sending one is out of scope.
type offerMsg struct {
	Offer struct {
		File *struct {
			Filename string `json:"filename"`
			Filesize int64  `json:"filesize"`
		} `json:"file,omitempty"`
		Directory *struct {
			Dirname  string `json:"dirname"`
			Mode     string `json:"mode"`
			Numbytes int64  `json:"numbytes"`
			Numfiles int64  `json:"numfiles"`
		} `json:"directory,omitempty"`
		Message *string `json:"message,omitempty"`
	} `json:"offer"`
}

func buildFileOffer(filename string, filesize int64) []byte {
	var m offerMsg
	m.Offer.File = &struct {
		Filename string `json:"filename"`
		Filesize int64  `json:"filesize"`
	}{Filename: filename, Filesize: filesize}
	b, _ := json.Marshal(m)
	return b
}

// offerKind distinguishes the offer shapes this side can recognize.
// Only file is ever accepted; directory is recognized only so it can be
// rejected explicitly rather than silently misparsed.
type offerKind int

const (
	offerUnknown offerKind = iota
	offerFile
	offerDirectory
)

func parseOffer(body []byte) (filename string, filesize int64, kind offerKind, err error) {
	var m offerMsg
	if err := json.Unmarshal(body, &m); err != nil {
		return "", 0, offerUnknown, err
	}
	switch {
	case m.Offer.File != nil:
		return m.Offer.File.Filename, m.Offer.File.Filesize, offerFile, nil
	case m.Offer.Directory != nil:
		return m.Offer.Directory.Dirname, m.Offer.Directory.Numbytes, offerDirectory, nil
	default:
		return "", 0, offerUnknown, nil
	}
}

type answerMsg struct {
	Answer struct {
		FileAck    string `json:"file_ack,omitempty"`
		MessageAck string `json:"message_ack,omitempty"`
	} `json:"answer"`
}

func buildFileAck() []byte {
	var m answerMsg
	m.Answer.FileAck = "ok"
	b, _ := json.Marshal(m)
	return b
}

// transitAckMsg is sent back over the *transit connection itself*, not
// the mailbox, after the whole file is verified.
type transitAckMsg struct {
	Ack    string `json:"ack"`
	SHA256 string `json:"sha256"`
}

func buildTransitAck(sha256hex string) []byte {
	b, _ := json.Marshal(transitAckMsg{Ack: "ok", SHA256: sha256hex})
	return b
}

func parseTransitAck(body []byte) (sha256hex string, err error) {
	var m transitAckMsg
	if err := json.Unmarshal(body, &m); err != nil {
		return "", err
	}
	return m.SHA256, nil
}
