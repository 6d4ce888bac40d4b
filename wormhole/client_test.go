package wormhole

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/webwormhole/wormhole/internal/rendezvoustest"
)

func TestDeriveTransitKeyRejectsBeforeKeyReady(t *testing.T) {
	cl := &Client{keyReady: make(chan struct{})}
	if _, err := cl.DeriveTransitKey("test-app"); !errors.Is(err, ErrKeyNotReady) {
		t.Fatalf("expected ErrKeyNotReady, got %v", err)
	}
}

func TestClientHandshakeAndMessageExchange(t *testing.T) {
	srv := rendezvoustest.New()
	defer srv.Close()

	a := New("test-app", srv.WS())
	defer a.Close()

	b := New("test-app", srv.WS())
	defer b.Close()

	a.AllocateCode(2)
	code := a.GetCode()
	b.SetCode(code)

	verifierA := a.GetVerifier()
	verifierB := b.GetVerifier()
	if verifierA != verifierB {
		t.Fatal("both sides should derive the same verifier from the same code")
	}

	if versA := a.GetVersions(); versA == nil {
		t.Fatal("expected a non-nil decoded version phase")
	}
	if versB := b.GetVersions(); versB == nil {
		t.Fatal("expected a non-nil decoded version phase")
	}

	a.SendMessage([]byte("hello from a"))
	gotB, err := b.GetMessage()
	if err != nil {
		t.Fatalf("b.GetMessage: %v", err)
	}
	if !bytes.Equal(gotB, []byte("hello from a")) {
		t.Fatalf("got %q, want %q", gotB, "hello from a")
	}

	b.SendMessage([]byte("hello from b"))
	gotA, err := a.GetMessage()
	if err != nil {
		t.Fatalf("a.GetMessage: %v", err)
	}
	if !bytes.Equal(gotA, []byte("hello from b")) {
		t.Fatalf("got %q, want %q", gotA, "hello from b")
	}
}

func TestClientWrongCodeFailsVerification(t *testing.T) {
	srv := rendezvoustest.New()
	defer srv.Close()

	a := New("test-app", srv.WS())
	defer a.Close()
	b := New("test-app", srv.WS())
	defer b.Close()

	a.AllocateCode(2)
	code := a.GetCode()

	// Corrupt the password portion, keeping the same nameplate so both
	// sides still land in the same mailbox.
	nameplate := string(code)[:indexOfDash(string(code))]
	b.SetCode(Code(nameplate + "-wrong-words"))

	verifierA := a.GetVerifier()
	verifierB := b.GetVerifier()
	if verifierA == verifierB {
		t.Fatal("different codes must not derive the same verifier")
	}

	// b's decrypt of a's version phase must fail and scare the session.
	select {
	case <-b.closedReady:
		if b.mood != "scared" {
			t.Fatalf("expected scared mood on key mismatch, got %q", b.mood)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mismatched session to close")
	}
}

func indexOfDash(s string) int {
	for i, c := range s {
		if c == '-' {
			return i
		}
	}
	return len(s)
}
