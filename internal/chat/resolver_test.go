package chat

import (
	"strings"
	"testing"

	"github.com/zenithlabs/zenith/internal/tasks"
)

func taskList(titles ...string) []*tasks.Task {
	out := make([]*tasks.Task, len(titles))
	for i, title := range titles {
		out[i] = &tasks.Task{ID: tasks.GenerateTaskID(), Title: title}
	}
	return out
}

func TestFindCandidates_ExactTierWins(t *testing.T) {
	list := taskList("Buy groceries", "Buy groceries and milk", "buy groceries")

	got := FindCandidates("buy groceries", list)
	if len(got) != 2 {
		t.Fatalf("expected 2 exact matches, got %d", len(got))
	}
	// The longer title is a substring match only; exact tier excludes it.
	for _, c := range got {
		if c.Title == "Buy groceries and milk" {
			t.Error("substring match leaked into exact tier")
		}
	}
}

func TestFindCandidates_Substring(t *testing.T) {
	list := taskList("Buy groceries and milk", "Call the bank")

	got := FindCandidates("buy groceries", list)
	if len(got) != 1 || got[0].Title != "Buy groceries and milk" {
		t.Fatalf("got %+v", got)
	}
}

func TestFindCandidates_TokenOverlapRanked(t *testing.T) {
	list := taskList(
		"Write the launch announcement",
		"Review launch checklist with the team",
		"Water the plants",
	)

	got := FindCandidates("launch announcement draft", list)
	if len(got) != 2 {
		t.Fatalf("expected 2 overlap matches, got %d", len(got))
	}
	if got[0].Title != "Write the launch announcement" {
		t.Errorf("best match first: got %q", got[0].Title)
	}
}

func TestFindCandidates_EmptyPayload(t *testing.T) {
	list := taskList("Anything at all")
	if got := FindCandidates("   ", list); got != nil {
		t.Errorf("expected nil for blank payload, got %+v", got)
	}
}

func TestFindCandidates_NoMatch(t *testing.T) {
	list := taskList("Water the plants")
	if got := FindCandidates("quarterly report", list); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestConfirmationPrompt(t *testing.T) {
	single := &PendingAction{Type: CommandDelete, Candidates: taskList("Buy groceries"), OriginalPayload: "groceries"}
	if msg := ConfirmationPrompt(single); !strings.Contains(msg, "yes or no") {
		t.Errorf("single-candidate prompt: %q", msg)
	}

	multi := &PendingAction{Type: CommandComplete, Candidates: taskList("a task one", "a task two"), OriginalPayload: "task"}
	msg := ConfirmationPrompt(multi)
	if !strings.Contains(msg, "1. a task one") || !strings.Contains(msg, "2. a task two") {
		t.Errorf("numbered list missing: %q", msg)
	}
	if !strings.Contains(msg, "cancel") {
		t.Errorf("cancel instruction missing: %q", msg)
	}
}
