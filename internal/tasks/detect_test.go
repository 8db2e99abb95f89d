package tasks

import "testing"

func titles(detected []DetectedTask) []string {
	out := make([]string, len(detected))
	for i, d := range detected {
		out[i] = d.Title
	}
	return out
}

func TestDetectTasks_Checkboxes(t *testing.T) {
	text := "Plan:\n- [ ] buy groceries\n- [x] send the report\n"
	got := DetectTasks(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %v", titles(got))
	}
	if got[0].Title != "buy groceries" || got[1].Title != "send the report" {
		t.Errorf("unexpected titles: %v", titles(got))
	}
}

func TestDetectTasks_TodoMarkers(t *testing.T) {
	got := DetectTasks("TODO: refactor the login flow\nfixme- broken link on pricing page")
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %v", titles(got))
	}
}

func TestDetectTasks_RemindPhrasings(t *testing.T) {
	got := DetectTasks("Oh, remind me to call the dentist tomorrow. Also don't forget to water the plants!")
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %v", titles(got))
	}
	if got[0].Title != "call the dentist tomorrow" {
		t.Errorf("first title: got %q", got[0].Title)
	}
	if got[1].Title != "water the plants" {
		t.Errorf("second title: got %q", got[1].Title)
	}
}

func TestDetectTasks_Commitments(t *testing.T) {
	got := DetectTasks("I need to prepare the quarterly deck before Friday")
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %v", titles(got))
	}
	if got[0].Title != "prepare the quarterly deck before Friday" {
		t.Errorf("title: got %q", got[0].Title)
	}
	if got[0].Priority != PriorityNormal {
		t.Errorf("priority: got %q", got[0].Priority)
	}
}

func TestDetectTasks_ImperativeVerbGate(t *testing.T) {
	got := DetectTasks("Schedule a checkup with the doctor.")
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %v", titles(got))
	}

	// Imperative-looking sentence without an action verb is ignored.
	if got := DetectTasks("Weather looks nice outside today."); len(got) != 0 {
		t.Errorf("expected no tasks, got %v", titles(got))
	}
}

func TestDetectTasks_Dedup(t *testing.T) {
	got := DetectTasks("- [ ] call mom\nremind me to call mom")
	if len(got) != 1 {
		t.Fatalf("expected 1 deduplicated task, got %v", titles(got))
	}
}

func TestDetectTasks_Empty(t *testing.T) {
	if got := DetectTasks(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}
