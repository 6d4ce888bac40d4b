package core

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// sendMachine owns outbound phase numbering and encryption: the
// "version" phase goes out the moment the key is ready, then every
// EvSend body becomes the next numbered phase in order. Grounded on
// wormhole/dial.go's writeEncJSON, generalized from a single shared
// nonce-counter to one purpose-scoped sub-key per phase.
type sendMachine struct {
	side  Side
	key   [32]byte
	ready bool
	next  int
	queue [][]byte
}

func newSendMachine(side Side) sendMachine { return sendMachine{side: side} }

func (m *sendMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toSendBegin:
		m.key = ev.Key
		m.ready = true
		out := []Event{m.sealPhase("version", []byte("{}"))}
		for _, body := range m.queue {
			out = append(out, m.sealPhase(phaseName(m.next), body))
			m.next++
		}
		m.queue = nil
		return out

	case toSendQueue:
		if !m.ready {
			m.queue = append(m.queue, ev.Body)
			return nil
		}
		out := []Event{m.sealPhase(phaseName(m.next), ev.Body)}
		m.next++
		return out
	}
	return nil
}

func (m *sendMachine) sealPhase(phase string, plaintext []byte) Event {
	purpose := fmt.Sprintf("%s:phase:%s", m.side, phase)
	subkey := deriveKey(m.key[:], purpose, 32)
	var key [32]byte
	copy(key[:], subkey)

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		panic(err)
	}
	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &key)
	return toMailboxSend{Phase: phase, Body: sealed}
}
