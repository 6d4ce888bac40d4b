package core

import "testing"

// TestTerminatorClosesWithoutAClaimedNameplate guards against the
// terminator waiting forever on a nameplateDone that can never arrive
// because the nameplate was never claimed in the first place.
func TestTerminatorClosesWithoutAClaimedNameplate(t *testing.T) {
	term := newTerminatorMachine()
	name := newNameplateMachine()
	mbox := newMailboxMachine(Side("abcd1234"))

	out := term.process(nil, toTerminatorClose{Mood: MoodLonely})

	var gotRelease, gotMailboxClose bool
	for _, e := range out {
		switch e.(type) {
		case toNameplateRelease:
			gotRelease = true
		case toMailboxClose:
			gotMailboxClose = true
		}
	}
	if !gotRelease {
		t.Fatal("expected toTerminatorClose to emit toNameplateRelease")
	}
	if !gotMailboxClose {
		t.Fatal("expected toTerminatorClose to emit toMailboxClose")
	}

	// Feed the release directive into a nameplate machine that never
	// claimed anything: it must report done immediately rather than
	// waiting on a server response that will never come.
	nameOut := name.process(nil, toNameplateRelease{})
	if len(nameOut) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(nameOut), nameOut)
	}
	if _, ok := nameOut[0].(toTerminatorNameplateDone); !ok {
		t.Fatalf("expected toTerminatorNameplateDone, got %T", nameOut[0])
	}

	// The mailbox was never opened either, so it short-circuits the
	// same way (pre-existing behavior, asserted here for completeness).
	mboxOut := mbox.process(nil, toMailboxClose{Mood: MoodLonely})
	if len(mboxOut) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(mboxOut), mboxOut)
	}
	if _, ok := mboxOut[0].(toTerminatorMailboxDone); !ok {
		t.Fatalf("expected toTerminatorMailboxDone, got %T", mboxOut[0])
	}

	if out := term.process(nil, toTerminatorNameplateDone{}); out != nil {
		t.Fatalf("expected no event yet (mailbox/rendezvous still pending), got %v", out)
	}
	mboxDoneOut := term.process(nil, toTerminatorMailboxDone{})
	if len(mboxDoneOut) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(mboxDoneOut), mboxDoneOut)
	}
	if _, ok := mboxDoneOut[0].(toRendezvousStop); !ok {
		t.Fatalf("expected toRendezvousStop once closing and mailbox are both done, got %T", mboxDoneOut[0])
	}
	out = term.process(nil, toTerminatorRendezvousDone{})
	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(out), out)
	}
	closed, ok := out[0].(toBossClosed)
	if !ok {
		t.Fatalf("expected toBossClosed, got %T", out[0])
	}
	if closed.Mood != MoodLonely {
		t.Fatalf("expected mood %q, got %q", MoodLonely, closed.Mood)
	}
}
