package core

import (
	"strings"
	"testing"
)

func TestCodeMachineDefaultsWordCount(t *testing.T) {
	m := newCodeMachine()
	out := m.process(nil, toCodeAllocate{Words: 0})
	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	req, ok := out[0].(toAllocatorAllocate)
	if !ok {
		t.Fatalf("expected toAllocatorAllocate, got %T", out[0])
	}
	if req.Words != 2 {
		t.Fatalf("expected default word count 2, got %d", req.Words)
	}
}

func TestCodeMachineGotNameplateEncodesCode(t *testing.T) {
	m := newCodeMachine()
	m.process(nil, toCodeAllocate{Words: 3})
	out := m.process(nil, toCodeGotNameplate{Nameplate: "42"})
	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	got, ok := out[0].(toCodeGotCode)
	if !ok {
		t.Fatalf("expected toCodeGotCode, got %T", out[0])
	}
	if !strings.HasPrefix(string(got.Code), "42-") {
		t.Fatalf("expected code to start with nameplate 42-, got %q", got.Code)
	}
	if len(strings.Split(string(got.Code), "-")) != 4 {
		t.Fatalf("expected nameplate plus 3 words, got %q", got.Code)
	}
	claim, ok := out[1].(toNameplateClaim)
	if !ok {
		t.Fatalf("expected toNameplateClaim, got %T", out[1])
	}
	if claim.Nameplate != "42" {
		t.Fatalf("expected nameplate 42, got %q", claim.Nameplate)
	}
}

func TestCodeMachineSetCodeSplitsNameplate(t *testing.T) {
	m := newCodeMachine()
	out := m.process(nil, toCodeSetCode{Code: "7-purple-sausages"})
	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	claim, ok := out[1].(toNameplateClaim)
	if !ok {
		t.Fatalf("expected toNameplateClaim, got %T", out[1])
	}
	if claim.Nameplate != "7" {
		t.Fatalf("expected nameplate 7, got %q", claim.Nameplate)
	}
}

func TestCodeMachineIgnoresSecondAllocate(t *testing.T) {
	m := newCodeMachine()
	m.process(nil, toCodeSetCode{Code: "1-a-b"})
	if out := m.process(nil, toCodeAllocate{Words: 2}); out != nil {
		t.Fatalf("expected no events once a code is already set, got %v", out)
	}
}
