package core

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// receiveMachine decrypts each inbound phase using a sub-key scoped to
// the peer's side and that phase name, the mirror image of
// sendMachine.sealPhase. The "version" phase surfaces as ActGotVersions;
// every numbered phase after that surfaces as ActGotMessage. A failed
// open means the key doesn't match, i.e. the code was wrong or someone
// is tampering with the mailbox: that's reported as toReceiveScared so
// Boss can tear the session down with mood "scared".
type receiveMachine struct {
	side  Side
	key   [32]byte
	ready bool
}

func newReceiveMachine(side Side) receiveMachine { return receiveMachine{side: side} }

func (m *receiveMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toReceiveBegin:
		m.key = ev.Key
		m.ready = true
		return nil

	case toReceiveGotPhase:
		if !m.ready {
			return nil
		}
		return m.open(ev.Side, ev.Phase, ev.Body)
	}
	return nil
}

func (m *receiveMachine) open(peerSide Side, phase string, sealed []byte) []Event {
	if len(sealed) < 24 {
		return []Event{toReceiveScared{}}
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	purpose := fmt.Sprintf("%s:phase:%s", peerSide, phase)
	subkey := deriveKey(m.key[:], purpose, 32)
	var key [32]byte
	copy(key[:], subkey)

	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &key)
	if !ok {
		return []Event{toReceiveScared{}}
	}

	if phase == "version" {
		var versions map[string]interface{}
		if err := json.Unmarshal(plaintext, &versions); err != nil {
			versions = map[string]interface{}{}
		}
		return []Event{ActGotVersions{Versions: versions}}
	}
	return []Event{ActGotMessage{Body: plaintext}}
}
