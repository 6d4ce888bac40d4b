package wordlist

import (
	"strings"
	"testing"
)

func TestEncodeCodeRoundTripsThroughDecode(t *testing.T) {
	code, err := EncodeCode("12", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(code, "12-") {
		t.Fatalf("expected code to start with nameplate 12-, got %q", code)
	}
	nameplate, pass, ok := DecodeCode(code)
	if !ok {
		t.Fatalf("expected %q to decode", code)
	}
	if nameplate != "12" {
		t.Fatalf("expected decoded nameplate 12, got %q", nameplate)
	}
	if len(pass) != 3 {
		t.Fatalf("expected 3 decoded bytes, got %d", len(pass))
	}
}

func TestEncodeCodeRejectsNonNumericNameplate(t *testing.T) {
	if _, err := EncodeCode("not-a-number", 2); err == nil {
		t.Fatal("expected an error for a non-numeric nameplate")
	}
}

func TestEncodeCodeWordCount(t *testing.T) {
	code, err := EncodeCode("1", 4)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(code, "-")
	if len(parts) != 5 {
		t.Fatalf("expected nameplate + 4 words, got %d parts: %q", len(parts), code)
	}
}

func TestDecodeCodeRejectsGarbage(t *testing.T) {
	if _, _, ok := DecodeCode("not a real code"); ok {
		t.Fatal("expected a garbage code to fail to decode")
	}
	if _, _, ok := DecodeCode(""); ok {
		t.Fatal("expected an empty code to fail to decode")
	}
}

func TestCompleteWord(t *testing.T) {
	matches := CompleteWord("crossov")
	found := false
	for _, w := range matches {
		if w == "crossover" {
			found = true
		}
	}
	if !found {
		t.Fatalf(`expected "crossov" to complete to "crossover", got %v`, matches)
	}

	if got := CompleteWord(""); got != nil {
		t.Fatalf("expected no completions for an empty prefix, got %v", got)
	}
	if got := CompleteWord("zzzzznotaword"); got != nil {
		t.Fatalf("expected no completions for an unmatched prefix, got %v", got)
	}
}
