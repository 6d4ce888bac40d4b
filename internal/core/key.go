package core

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
	"salsa.debian.org/vasudev/gospake2"
)

// deriveKey stretches a shared secret into a purpose-scoped sub-key via
// HKDF-SHA256, the same "hkdf.New(sha256.New, mk, nil, nil)" shape the
// teacher uses in wormhole/dial.go, but with the purpose string as HKDF's
// info parameter instead of discarding it. DeriveKey in driver.go wraps
// this for use outside the package.
func deriveKey(key []byte, purpose string, length int) []byte {
	out := make([]byte, length)
	r := hkdf.New(sha256.New, key, nil, []byte(purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		panic(err)
	}
	return out
}

// keyState is the Key machine's lifecycle: idle until a code is known,
// then mid-exchange until the peer's "pake" phase arrives, then done.
type keyState int

const (
	keyIdle keyState = iota
	keyExchanging
	keyDone
)

type keyMachine struct {
	appid AppID
	side  Side

	state keyState
	pake  *gospake2.SPAKE2
	key   [32]byte
}

func newKeyMachine(appid AppID, side Side) keyMachine {
	return keyMachine{appid: appid, side: side, state: keyIdle}
}

func (m *keyMachine) process(c *WormholeCore, e Event) []Event {
	switch ev := e.(type) {
	case toKeySetCode:
		return m.start(c, ev.Code)
	case toKeyGotPake:
		return m.finish(c, ev.Body)
	}
	return nil
}

func (m *keyMachine) start(c *WormholeCore, code Code) []Event {
	if m.state != keyIdle {
		return nil
	}
	m.state = keyExchanging
	// SPAKE2 symmetric mode keyed by the shared code, with the AppID as
	// the (shared) identity string, matching spec.md §4.2: "using
	// appid:appid, side, and the code as password."
	m.pake = gospake2.SPAKE2Symmetric(
		gospake2.NewPassword(string(code)),
		gospake2.NewIdentityS(string(m.appid)),
	)
	msgA := m.pake.Start()
	return []Event{
		toMailboxSend{Phase: "pake", Body: msgA},
	}
}

func (m *keyMachine) finish(c *WormholeCore, peerMsg []byte) []Event {
	if m.state != keyExchanging {
		return []Event{toBossError{Mood: MoodErrory}}
	}
	mk, err := m.pake.Finish(peerMsg)
	if err != nil {
		return []Event{toBossError{Mood: MoodErrory, Err: err}}
	}
	// The SPAKE2 shared secret *is* the session key; HKDF only enters the
	// picture for the per-phase and per-purpose sub-keys derived from it
	// (see deriveKey), matching the reference implementation's
	// derive_key(key, purpose) split.
	var key [32]byte
	copy(key[:], mk)
	m.key = key
	m.state = keyDone

	verifier := sha256.Sum256(key[:])
	return []Event{
		ActGotUnverifiedKey{Key: key},
		ActGotVerifier{Verifier: verifier},
		toKeyGotVerifiedKey{Key: key},
		toSendBegin{Key: key},
		toReceiveBegin{Key: key},
		toOrderKeyReady{},
	}
}
