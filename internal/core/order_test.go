package core

import "testing"

func TestOrderHoldsNonPakePhasesUntilKeyReady(t *testing.T) {
	var m orderMachine = newOrderMachine()

	out := m.process(nil, toOrderGotMessage{Side: "b", Phase: "0", Body: []byte("first")})
	if out != nil {
		t.Fatalf("numbered phase should be held before key is ready, got %v", out)
	}
	if len(m.held) != 1 {
		t.Fatalf("expected 1 held message, got %d", len(m.held))
	}

	out = m.process(nil, toOrderGotMessage{Side: "b", Phase: "pake", Body: []byte("pakemsg")})
	if len(out) != 1 {
		t.Fatalf("expected 1 event for pake phase, got %d", len(out))
	}
	if _, ok := out[0].(toKeyGotPake); !ok {
		t.Fatalf("expected toKeyGotPake, got %T", out[0])
	}

	out = m.process(nil, toOrderKeyReady{})
	if len(out) != 1 {
		t.Fatalf("expected 1 flushed event, got %d", len(out))
	}
	phase, ok := out[0].(toReceiveGotPhase)
	if !ok {
		t.Fatalf("expected toReceiveGotPhase, got %T", out[0])
	}
	if phase.Phase != "0" || string(phase.Body) != "first" {
		t.Fatalf("unexpected flushed phase: %+v", phase)
	}
	if m.held != nil {
		t.Fatalf("held should be cleared after flush")
	}

	out = m.process(nil, toOrderGotMessage{Side: "b", Phase: "1", Body: []byte("second")})
	if len(out) != 1 {
		t.Fatalf("expected phases after keyReady to pass straight through")
	}
	if _, ok := out[0].(toReceiveGotPhase); !ok {
		t.Fatalf("expected toReceiveGotPhase, got %T", out[0])
	}
}
