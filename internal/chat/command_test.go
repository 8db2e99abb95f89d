package chat

import "testing"

func TestParseCommand_List(t *testing.T) {
	cases := []struct {
		in   string
		want CommandType
	}{
		{"what are my tasks?", CommandList},
		{"show me my tasks", CommandList},
		{"list tasks", CommandList},
		{"what are my tasks for today?", CommandListToday},
		{"show my tasks today", CommandListToday},
		{"tasks for today", CommandListToday},
	}
	for _, c := range cases {
		got := ParseCommand(c.in)
		if got.Type != c.want {
			t.Errorf("ParseCommand(%q) = %v, want %v", c.in, got.Type, c.want)
		}
	}
}

func TestParseCommand_Add(t *testing.T) {
	got := ParseCommand("remind me to call the dentist")
	if got.Type != CommandAdd || got.Payload != "call the dentist" {
		t.Errorf("got %+v", got)
	}

	got = ParseCommand("add a task: buy groceries")
	if got.Type != CommandAdd || got.Payload != "buy groceries" {
		t.Errorf("got %+v", got)
	}

	got = ParseCommand("create task water the plants")
	if got.Type != CommandAdd || got.Payload != "water the plants" {
		t.Errorf("got %+v", got)
	}
}

func TestParseCommand_Delete(t *testing.T) {
	got := ParseCommand("delete buy groceries")
	if got.Type != CommandDelete || got.Payload != "buy groceries" {
		t.Errorf("got %+v", got)
	}

	got = ParseCommand("remove the task: old draft")
	if got.Type != CommandDelete || got.Payload != "old draft" {
		t.Errorf("got %+v", got)
	}
}

func TestParseCommand_Complete(t *testing.T) {
	got := ParseCommand("complete send the report")
	if got.Type != CommandComplete || got.Payload != "send the report" {
		t.Errorf("got %+v", got)
	}

	got = ParseCommand("done with the quarterly review")
	if got.Type != CommandComplete || got.Payload != "quarterly review" {
		t.Errorf("got %+v", got)
	}
}

func TestParseCommand_EmptyPayload(t *testing.T) {
	for _, in := range []string{"add a task:", "delete ...", "remind me to ?"} {
		if got := ParseCommand(in); got.Type != CommandNone {
			t.Errorf("ParseCommand(%q) = %+v, want none", in, got)
		}
	}
}

func TestParseCommand_None(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"how do I stay motivated?",
		"I deleted my old notes yesterday",
	} {
		if got := ParseCommand(in); got.Type != CommandNone {
			t.Errorf("ParseCommand(%q) = %+v, want none", in, got)
		}
	}
}
