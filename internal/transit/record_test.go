package transit

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestNonceCounterWireOrderReverses(t *testing.T) {
	var c nonceCounter
	c[0] = 0x01
	c[nonceSize-1] = 0xff
	w := c.wireOrder()
	if w[0] != 0xff || w[nonceSize-1] != 0x01 {
		t.Fatalf("wireOrder did not reverse bytes: %v", w)
	}
}

func TestNonceCounterIncrementCarries(t *testing.T) {
	var c nonceCounter
	c[0] = 0xff
	c[1] = 0xff
	c.increment()
	if c[0] != 0 || c[1] != 0 || c[2] != 1 {
		t.Fatalf("expected carry propagation, got %v", c[:3])
	}
}

func TestSealOpenRecordRoundTrip(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatal(err)
	}
	var counter nonceCounter
	plaintext := []byte("hello, wormhole")

	sealed := sealRecord(&counter, key, plaintext)
	got, err := openRecord(key, sealed)
	if err != nil {
		t.Fatalf("openRecord: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("roundtrip mismatch: got %q want %q", got, plaintext)
	}
}

func TestOpenRecordDetectsTampering(t *testing.T) {
	var key [32]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatal(err)
	}
	var counter nonceCounter
	sealed := sealRecord(&counter, key, []byte("payload"))
	sealed[len(sealed)-1] ^= 0xff

	if _, err := openRecord(key, sealed); err == nil {
		t.Fatal("expected tampered record to fail authentication")
	}
}

func TestOpenRecordRejectsWrongKey(t *testing.T) {
	var key, otherKey [32]byte
	rand.Read(key[:])
	rand.Read(otherKey[:])
	var counter nonceCounter
	sealed := sealRecord(&counter, key, []byte("payload"))
	if _, err := openRecord(otherKey, sealed); err == nil {
		t.Fatal("expected wrong key to fail authentication")
	}
}

func TestWriteReadRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := []byte("a length-prefixed record")
	if err := writeRecord(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := readRecord(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("roundtrip mismatch: got %q want %q", got, want)
	}
}
