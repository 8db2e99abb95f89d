package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/tasks"
)

// fakeTaskStore is an in-memory tasks.Store for engine tests.
type fakeTaskStore struct {
	items   []*tasks.Task
	failAll bool
}

func (f *fakeTaskStore) Create(t *tasks.Task) error {
	if f.failAll {
		return errors.New("store offline")
	}
	if t.ID == "" {
		t.ID = tasks.GenerateTaskID()
	}
	f.items = append(f.items, t)
	return nil
}

func (f *fakeTaskStore) Get(id string) (*tasks.Task, error) {
	for _, t := range f.items {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tasks.ErrNotFound
}

func (f *fakeTaskStore) List() ([]*tasks.Task, error) {
	if f.failAll {
		return nil, errors.New("store offline")
	}
	return f.items, nil
}

func (f *fakeTaskStore) ListOpen() ([]*tasks.Task, error) {
	if f.failAll {
		return nil, errors.New("store offline")
	}
	var open []*tasks.Task
	for _, t := range f.items {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open, nil
}

func (f *fakeTaskStore) Update(t *tasks.Task) error { return nil }

func (f *fakeTaskStore) SetCompleted(id string, completed bool) error {
	if f.failAll {
		return errors.New("store offline")
	}
	t, err := f.Get(id)
	if err != nil {
		return err
	}
	t.Completed = completed
	return nil
}

func (f *fakeTaskStore) Delete(id string) error {
	if f.failAll {
		return errors.New("store offline")
	}
	for i, t := range f.items {
		if t.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return tasks.ErrNotFound
}

// fakeMemoryStore records adds; other methods are unused by the engine.
type fakeMemoryStore struct {
	added []*memory.Entry
}

func (f *fakeMemoryStore) Add(category memory.Category, content, context string) (*memory.Entry, error) {
	e := &memory.Entry{ID: "mem_test", Category: category, Content: content, Context: context}
	f.added = append(f.added, e)
	return e, nil
}

func (f *fakeMemoryStore) Get(id string) (*memory.Entry, error) { return nil, memory.ErrNotFound }
func (f *fakeMemoryStore) List() ([]*memory.Entry, error)       { return f.added, nil }
func (f *fakeMemoryStore) ByCategory(memory.Category, int) ([]*memory.Entry, error) {
	return nil, nil
}
func (f *fakeMemoryStore) Search(string, int) ([]*memory.Entry, error)  { return nil, nil }
func (f *fakeMemoryStore) UpdateContent(string, string) error           { return nil }
func (f *fakeMemoryStore) UpdateCategory(string, memory.Category) error { return nil }
func (f *fakeMemoryStore) Delete(string) error                          { return nil }
func (f *fakeMemoryStore) PruneOlderThan(int) (int, error)              { return 0, nil }
func (f *fakeMemoryStore) Clear() error                                 { return nil }

// fakeTransport replies with a canned string, or fails.
type fakeTransport struct {
	reply string
	err   error
	calls int
}

func (f *fakeTransport) Reply(_ context.Context, _ []Message, _ string, onDelta func(string)) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if onDelta != nil {
		onDelta(f.reply)
	}
	return f.reply, nil
}

type fixture struct {
	engine    *Engine
	tasks     *fakeTaskStore
	memories  *fakeMemoryStore
	transport *fakeTransport
	authed    bool
}

func newFixture(t *testing.T, titles ...string) *fixture {
	t.Helper()
	f := &fixture{
		tasks:     &fakeTaskStore{},
		memories:  &fakeMemoryStore{},
		transport: &fakeTransport{reply: "Stay the course."},
		authed:    true,
	}
	for _, title := range titles {
		f.tasks.Create(&tasks.Task{Title: title})
	}
	f.engine = NewEngine(Options{
		Tasks:         f.tasks,
		Memories:      f.memories,
		Transport:     f.transport,
		Authenticated: func() bool { return f.authed },
		AutoSave:      true,
	})
	return f
}

func (f *fixture) turn(t *testing.T, input string) string {
	t.Helper()
	reply, err := f.engine.Turn(context.Background(), input)
	if err != nil {
		t.Fatalf("Turn(%q): %v", input, err)
	}
	return reply
}

func TestEngine_DeleteSubstringConfirmYes(t *testing.T) {
	f := newFixture(t, "Buy groceries and milk")

	prompt := f.turn(t, "delete buy groceries")
	if !strings.Contains(prompt, "Buy groceries and milk") {
		t.Fatalf("confirmation prompt: %q", prompt)
	}
	if !f.engine.Pending() {
		t.Fatal("expected pending action")
	}

	reply := f.turn(t, "yes")
	if !strings.Contains(reply, "Deleted") {
		t.Errorf("reply: %q", reply)
	}
	if f.engine.Pending() {
		t.Error("pending state not cleared")
	}
	if len(f.tasks.items) != 0 {
		t.Errorf("task not deleted: %+v", f.tasks.items)
	}
}

func TestEngine_AmbiguousConfirmFlow(t *testing.T) {
	f := newFixture(t, "Draft the report", "Review the report", "Send the report")

	prompt := f.turn(t, "delete report")
	if !strings.Contains(prompt, "1.") || !strings.Contains(prompt, "3.") {
		t.Fatalf("numbered prompt: %q", prompt)
	}

	// Out of range keeps the state alive without mutating.
	reply := f.turn(t, "5")
	if !strings.Contains(reply, "out of range") {
		t.Errorf("reply: %q", reply)
	}
	if !f.engine.Pending() || len(f.tasks.items) != 3 {
		t.Fatal("out-of-range reply must not consume state or mutate")
	}

	// "2" selects the second candidate, 1-based.
	reply = f.turn(t, "2")
	if !strings.Contains(reply, "Review the report") {
		t.Errorf("reply: %q", reply)
	}
	if len(f.tasks.items) != 2 {
		t.Errorf("expected 2 remaining tasks, got %d", len(f.tasks.items))
	}
	for _, task := range f.tasks.items {
		if task.Title == "Review the report" {
			t.Error("selected task still present")
		}
	}
}

func TestEngine_CancelClearsPending(t *testing.T) {
	f := newFixture(t, "Draft the report", "Send the report")

	f.turn(t, "delete report")
	reply := f.turn(t, "cancel")
	if !strings.Contains(reply, "cancelled") {
		t.Errorf("reply: %q", reply)
	}
	if f.engine.Pending() {
		t.Error("pending state survived cancel")
	}
	if len(f.tasks.items) != 2 {
		t.Error("cancel must not mutate")
	}
}

func TestEngine_YesWithMultipleCandidatesReprompts(t *testing.T) {
	f := newFixture(t, "Draft the report", "Send the report")

	f.turn(t, "delete report")
	reply := f.turn(t, "yes")
	if !strings.Contains(reply, "number") {
		t.Errorf("reply: %q", reply)
	}
	if !f.engine.Pending() {
		t.Error("pending state must survive an ambiguous yes")
	}
}

func TestEngine_PendingBlocksNewCommands(t *testing.T) {
	f := newFixture(t, "Buy groceries")

	f.turn(t, "delete buy groceries")
	// A command-shaped reply is treated as confirmation input, not parsed.
	reply := f.turn(t, "add a task: new thing")
	if !strings.Contains(reply, "didn't catch that") {
		t.Errorf("reply: %q", reply)
	}
	if len(f.tasks.items) != 1 {
		t.Errorf("no task should be created while pending, have %d", len(f.tasks.items))
	}
}

func TestEngine_UnauthenticatedMutationBlocked(t *testing.T) {
	f := newFixture(t, "Buy groceries")
	f.authed = false

	f.turn(t, "delete buy groceries")
	reply := f.turn(t, "yes")
	if reply != authRequiredMessage {
		t.Errorf("reply: %q", reply)
	}
	if f.engine.Pending() {
		t.Error("pending state must clear on auth failure")
	}
	if len(f.tasks.items) != 1 {
		t.Error("unauthenticated mutation went through")
	}
}

func TestEngine_MutationFailureClearsPending(t *testing.T) {
	f := newFixture(t, "Buy groceries")

	f.turn(t, "delete buy groceries")
	f.tasks.failAll = true
	reply := f.turn(t, "yes")
	if !strings.Contains(reply, "store offline") {
		t.Errorf("failure reason missing: %q", reply)
	}
	if f.engine.Pending() {
		t.Error("pending state must clear even on mutation failure")
	}
}

func TestEngine_NoCandidates(t *testing.T) {
	f := newFixture(t, "Water the plants")

	reply := f.turn(t, "delete quarterly report")
	if !strings.Contains(reply, "couldn't find") {
		t.Errorf("reply: %q", reply)
	}
	if f.engine.Pending() {
		t.Error("no pending state should be created for zero candidates")
	}
}

func TestEngine_AddTask(t *testing.T) {
	f := newFixture(t)

	reply := f.turn(t, "remind me to call the dentist")
	if !strings.Contains(reply, "call the dentist") {
		t.Errorf("reply: %q", reply)
	}
	if len(f.tasks.items) != 1 || f.tasks.items[0].Title != "call the dentist" {
		t.Errorf("tasks: %+v", f.tasks.items)
	}
	if f.transport.calls != 0 {
		t.Error("command must not reach the transport")
	}
}

func TestEngine_ListTasks(t *testing.T) {
	f := newFixture(t, "Buy groceries", "Send the report")

	reply := f.turn(t, "what are my tasks?")
	if !strings.Contains(reply, "Buy groceries") || !strings.Contains(reply, "Send the report") {
		t.Errorf("reply: %q", reply)
	}
}

func TestEngine_ConversationAutoExtracts(t *testing.T) {
	f := newFixture(t)

	reply := f.turn(t, "I've decided to launch my startup next month")
	if reply != "Stay the course." {
		t.Errorf("reply: %q", reply)
	}
	if f.transport.calls != 1 {
		t.Errorf("transport calls: %d", f.transport.calls)
	}
	if len(f.memories.added) != 1 {
		t.Fatalf("expected 1 auto-saved memory, got %+v", f.memories.added)
	}
	m := f.memories.added[0]
	if m.Category != memory.CategoryDecision || m.Content != "launch my startup next month" {
		t.Errorf("memory: %+v", m)
	}
	if len(f.engine.History()) != 2 {
		t.Errorf("history length: %d", len(f.engine.History()))
	}
}

func TestEngine_MemoryIntentWithoutClauseSkipsAutoExtract(t *testing.T) {
	f := newFixture(t)

	// Flags save intent but carries no remember/save/note clause, so
	// there is nothing to confirm; the turn converses instead. The
	// intent still suppresses auto-extraction for the exchange.
	reply := f.turn(t, "This is important, I am trying to build a company")
	if reply != "Stay the course." {
		t.Errorf("reply: %q", reply)
	}
	if f.transport.calls != 1 {
		t.Errorf("transport calls: %d", f.transport.calls)
	}
	if len(f.memories.added) != 0 {
		t.Fatalf("auto-extraction ran on a memory-intent turn: %+v", f.memories.added)
	}
	if f.engine.Pending() {
		t.Error("no confirmation should be pending")
	}
}

func TestEngine_ExplicitRememberConfirmation(t *testing.T) {
	f := newFixture(t)

	prompt := f.turn(t, "remember that my biggest fear is failure")
	if !strings.Contains(prompt, "my biggest fear is failure") {
		t.Fatalf("prompt: %q", prompt)
	}
	if f.transport.calls != 0 {
		t.Error("explicit remember must skip the transport")
	}
	if len(f.memories.added) != 0 {
		t.Error("nothing should be saved before confirmation")
	}

	reply := f.turn(t, "yes")
	if !strings.Contains(reply, "Saved") {
		t.Errorf("reply: %q", reply)
	}
	if len(f.memories.added) != 1 {
		t.Fatalf("memories: %+v", f.memories.added)
	}
	m := f.memories.added[0]
	if m.Category != memory.CategoryDecision || m.Context != "explicit user request" {
		t.Errorf("memory: %+v", m)
	}
}

func TestEngine_ExplicitRememberDeclined(t *testing.T) {
	f := newFixture(t)

	f.turn(t, "remember that my biggest fear is failure")
	reply := f.turn(t, "no")
	if !strings.Contains(reply, "won't save") {
		t.Errorf("reply: %q", reply)
	}
	if len(f.memories.added) != 0 {
		t.Error("declined memory was saved")
	}
	if f.engine.Pending() {
		t.Error("pending memory state survived decline")
	}
}

func TestEngine_TransportFailure(t *testing.T) {
	f := newFixture(t)
	f.transport.err = errors.New("rate limited")

	_, err := f.engine.Turn(context.Background(), "how do I stay motivated?")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if len(f.engine.History()) != 0 {
		t.Error("failed turn must not be appended to the transcript")
	}
}
