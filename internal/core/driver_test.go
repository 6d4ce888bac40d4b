package core

import "testing"

func TestMarkMilestoneRecordsLifecycleEvents(t *testing.T) {
	c := New(AppID("test-app"), "ws://example.invalid/v1", NewSide())

	c.markMilestone(ActGotCode{Code: Code("4-purple-sausages")})
	c.markMilestone(ActGotUnverifiedKey{})
	c.markMilestone(ActGotVerifier{})
	c.markMilestone(ActGotClosed{Mood: MoodHappy})

	marks := c.Marks()
	if len(marks) != 4 {
		t.Fatalf("expected 4 marks, got %d: %v", len(marks), marks)
	}
	want := []string{"got-code", "got-key", "got-verifier", "closed:happy"}
	for i, name := range want {
		if marks[i].Name != name {
			t.Fatalf("mark %d: got %q, want %q", i, marks[i].Name, name)
		}
	}
}

func TestMarkMilestoneIgnoresNonLifecycleActions(t *testing.T) {
	c := New(AppID("test-app"), "ws://example.invalid/v1", NewSide())
	c.markMilestone(ActGotMessage{Body: []byte("hi")})
	if marks := c.Marks(); len(marks) != 0 {
		t.Fatalf("expected no marks for a steady-state message, got %v", marks)
	}
}
