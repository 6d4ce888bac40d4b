package transit

import (
	"crypto/rand"
	"net"
	"testing"
)

func TestHandshakeLineLengths(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])

	sender := senderHandshakeLine(key)
	if len(sender) != 87 {
		t.Fatalf("sender handshake line: got %d bytes, want 87: %q", len(sender), sender)
	}
	receiver := receiverHandshakeLine(key)
	if len(receiver) != 89 {
		t.Fatalf("receiver handshake line: got %d bytes, want 89: %q", len(receiver), receiver)
	}
}

func TestRecordKeysDeriveIdenticallyBothSides(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])
	skeyA, rkeyA := recordKeys(key)
	skeyB, rkeyB := recordKeys(key)
	if skeyA != skeyB || rkeyA != rkeyB {
		t.Fatal("recordKeys should be a deterministic function of the session key")
	}
	if skeyA == rkeyA {
		t.Fatal("sender and receiver record keys should differ")
	}
}

// TestTxRxHandshakeAgreeOverTCP runs both handshake halves over a real
// loopback TCP connection (not net.Pipe, which is fully synchronous
// and would deadlock two sides that each write before reading).
func TestTxRxHandshakeAgreeOverTCP(t *testing.T) {
	var key [32]byte
	rand.Read(key[:])

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	type result struct {
		skey, rkey [32]byte
		err        error
	}
	txc := make(chan result, 1)
	rxc := make(chan result, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			txc <- result{err: err}
			return
		}
		defer conn.Close()
		skey, rkey, err := txHandshake(conn, key, false)
		txc <- result{skey, rkey, err}
	}()
	go func() {
		conn, err := net.Dial("tcp", ln.Addr().String())
		if err != nil {
			rxc <- result{err: err}
			return
		}
		defer conn.Close()
		skey, rkey, err := rxHandshake(conn, key, false)
		rxc <- result{skey, rkey, err}
	}()

	tx := <-txc
	rx := <-rxc
	if tx.err != nil {
		t.Fatalf("txHandshake: %v", tx.err)
	}
	if rx.err != nil {
		t.Fatalf("rxHandshake: %v", rx.err)
	}
	if tx.skey != rx.skey || tx.rkey != rx.rkey {
		t.Fatal("both sides of the handshake should derive the same record keys")
	}
}
