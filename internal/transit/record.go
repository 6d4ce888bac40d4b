package transit

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// nonceCounter is a little-endian counter that gets byte-reversed into
// the actual secretbox nonce before each seal, matching the reference
// implementation's "increment_le_inplace, then reverse for use on the
// wire" scheme: the bytes transmitted on the wire are the reversed
// (wire-order) bytes, not the raw little-endian counter.
type nonceCounter [nonceSize]byte

func (c *nonceCounter) wireOrder() [nonceSize]byte {
	var out [nonceSize]byte
	for i := range out {
		out[i] = c[nonceSize-1-i]
	}
	return out
}

func (c *nonceCounter) increment() {
	for i := range c {
		c[i]++
		if c[i] != 0 {
			return
		}
	}
}

// sealRecord encrypts one plaintext record under the current counter
// value and advances the counter. The returned bytes are
// nonce(24) || ciphertext, ready to length-prefix onto the wire.
func sealRecord(counter *nonceCounter, key [32]byte, plaintext []byte) []byte {
	nonce := counter.wireOrder()
	out := make([]byte, 0, nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plaintext, &nonce, &key)
	counter.increment()
	return out
}

// openRecord reverses sealRecord: packet is nonce(24) || ciphertext.
func openRecord(key [32]byte, packet []byte) ([]byte, error) {
	if len(packet) < nonceSize {
		return nil, errors.New("transit: record too short for a nonce")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], packet[:nonceSize])
	plaintext, ok := secretbox.Open(nil, packet[nonceSize:], &nonce, &key)
	if !ok {
		return nil, errors.New("transit: record authentication failed")
	}
	return plaintext, nil
}

// writeRecord length-prefixes buf with a big-endian uint32 and writes it.
func writeRecord(w io.Writer, buf []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(buf)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(buf)
	return err
}

// readRecord is writeRecord's inverse.
func readRecord(r io.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, err
	}
	buf := make([]byte, binary.BigEndian.Uint32(length[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
