package transit

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/webwormhole/wormhole/internal/core"
)

const (
	senderPurpose       = "transit_sender"
	receiverPurpose     = "transit_receiver"
	relayPurpose        = "transit_relay_token"
	recordSenderPurpose = "transit_record_sender_key"
	recordReceiverPurpose = "transit_record_receiver_key"
)

// recordKeys splits the transit key into the two directional keys used
// to encrypt file records: skey for what this side sends, rkey for what
// this side receives.
func recordKeys(key [32]byte) (skey, rkey [32]byte) {
	copy(skey[:], core.DeriveKey(key, recordSenderPurpose, 32))
	copy(rkey[:], core.DeriveKey(key, recordReceiverPurpose, 32))
	return
}

// newTransitSide generates a fresh random per-connection identifier used
// only in the relay handshake line, distinct from the protocol-wide Side.
func newTransitSide() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

func senderHandshakeLine(key [32]byte) string {
	subkey := core.DeriveKey(key, senderPurpose, 32)
	return fmt.Sprintf("transit sender %s ready\n\n", hex.EncodeToString(subkey))
}

func receiverHandshakeLine(key [32]byte) string {
	subkey := core.DeriveKey(key, receiverPurpose, 32)
	return fmt.Sprintf("transit receiver %s ready\n\n", hex.EncodeToString(subkey))
}

func relayHandshakeLine(key [32]byte, side string) string {
	subkey := core.DeriveKey(key, relayPurpose, 32)
	return fmt.Sprintf("please relay %s for side %s\n", hex.EncodeToString(subkey), side)
}

// relayHandshake asks the relay to pair this connection with our peer's,
// sent before the regular sender/receiver handshake when conn is a relay
// hop rather than a direct connection.
func relayHandshake(conn net.Conn, key [32]byte) error {
	side, err := newTransitSide()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(conn, relayHandshakeLine(key, side)); err != nil {
		return err
	}
	var ack [3]byte
	if _, err := io.ReadFull(conn, ack[:]); err != nil {
		return err
	}
	if string(ack[:]) != "ok\n" {
		return errors.New("transit: relay handshake refused")
	}
	return nil
}

// txHandshake is the handshake run by the side sending the file: it
// sends the 87-byte sender line, expects the 89-byte receiver line back,
// then sends "go\n" to release the peer into record streaming.
func txHandshake(conn net.Conn, key [32]byte, viaRelay bool) (skey, rkey [32]byte, err error) {
	if viaRelay {
		if err = relayHandshake(conn, key); err != nil {
			return
		}
	}
	sendLine := senderHandshakeLine(key)
	wantLine := receiverHandshakeLine(key)

	if _, err = io.WriteString(conn, sendLine); err != nil {
		return
	}
	got := make([]byte, len(wantLine))
	if _, err = io.ReadFull(conn, got); err != nil {
		return
	}
	if string(got) != wantLine {
		err = errors.New("transit: handshake mismatch")
		return
	}
	if _, err = io.WriteString(conn, "go\n"); err != nil {
		return
	}
	skey, rkey = recordKeys(key)
	return
}

// rxHandshake is the handshake run by the side receiving the file: it
// sends the 89-byte receiver line, then expects the peer's 87-byte
// sender line immediately followed by "go\n" (90 bytes combined).
func rxHandshake(conn net.Conn, key [32]byte, viaRelay bool) (skey, rkey [32]byte, err error) {
	if viaRelay {
		if err = relayHandshake(conn, key); err != nil {
			return
		}
	}
	sendLine := receiverHandshakeLine(key)
	wantLine := senderHandshakeLine(key) + "go\n"

	if _, err = io.WriteString(conn, sendLine); err != nil {
		return
	}
	got := make([]byte, len(wantLine))
	if _, err = io.ReadFull(conn, got); err != nil {
		return
	}
	if string(got) != wantLine {
		err = errors.New("transit: handshake mismatch")
		return
	}
	skey, rkey = recordKeys(key)
	return
}
