package core

import "testing"

func TestInputMachineCompletesNameplatesAndWords(t *testing.T) {
	m := newInputMachine()

	m.process(nil, toListerGotNameplates{Nameplates: []Nameplate{"1", "12", "13", "2"}})

	got := m.CompleteNameplate("1")
	want := []Nameplate{"1", "12", "13"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if got := m.CompleteNameplate(""); got != nil {
		t.Fatalf("expected no completions for an empty prefix, got %v", got)
	}
	if got := m.CompleteNameplate("9"); got != nil {
		t.Fatalf("expected no completions for an unmatched prefix, got %v", got)
	}

	found := false
	for _, w := range m.CompleteWord("crossov") {
		if w == "crossover" {
			found = true
		}
	}
	if !found {
		t.Fatal(`expected "crossov" to complete to "crossover"`)
	}
}

func TestInputMachineTracksCommittedNameplate(t *testing.T) {
	m := newInputMachine()

	if _, ok := m.Committed(); ok {
		t.Fatal("expected no committed nameplate before Commit is called")
	}

	m.Commit(Nameplate("7"))

	got, ok := m.Committed()
	if !ok {
		t.Fatal("expected a committed nameplate after Commit")
	}
	if got != Nameplate("7") {
		t.Fatalf("expected committed nameplate 7, got %q", got)
	}
}
