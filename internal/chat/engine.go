package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/tasks"
)

// Message is one transcript entry handed to the transport as context.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Transport streams a mentor reply for a user message given the prior
// transcript. onDelta is invoked for each streamed chunk; the full reply
// is returned once the stream ends.
type Transport interface {
	Reply(ctx context.Context, history []Message, userMessage string, onDelta func(chunk string)) (string, error)
}

// Options configures an Engine.
type Options struct {
	Tasks         tasks.Store
	Memories      memory.Store
	Transport     Transport
	Bus           *events.Bus
	Authenticated func() bool
	AutoSave      bool
	SessionID     string
	Logger        *slog.Logger
}

// Engine processes one conversation. It is single-turn sequential: a
// turn is fully handled before the next input is accepted, and at most
// one confirmation (task action or explicit memory save) is pending at
// a time.
type Engine struct {
	tasks     tasks.Store
	memories  memory.Store
	transport Transport
	bus       *events.Bus
	authed    func() bool
	autoSave  bool
	sessionID string
	log       *slog.Logger

	pending       *PendingAction
	pendingMemory string
	history       []Message
}

// NewEngine creates a conversation engine.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	authed := opts.Authenticated
	if authed == nil {
		authed = func() bool { return true }
	}
	return &Engine{
		tasks:     opts.Tasks,
		memories:  opts.Memories,
		transport: opts.Transport,
		bus:       opts.Bus,
		authed:    authed,
		autoSave:  opts.AutoSave,
		sessionID: opts.SessionID,
		log:       logger.With("session", opts.SessionID),
	}
}

// Pending reports whether a confirmation is awaiting the user's reply.
func (e *Engine) Pending() bool { return e.pending != nil || e.pendingMemory != "" }

// History returns the transcript accumulated so far.
func (e *Engine) History() []Message { return e.history }

// Turn processes one user input and returns the assistant-visible reply.
// A non-nil error means the mentor transport failed; nothing is appended
// to the transcript in that case.
func (e *Engine) Turn(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	e.publish(events.EventUserMessage, map[string]any{"content": input})

	// A pending confirmation owns the turn: no new command is parsed
	// until it resolves or is cancelled.
	if e.pending != nil {
		return e.resolvePending(input), nil
	}
	if e.pendingMemory != "" {
		return e.resolveMemoryConfirmation(input), nil
	}

	cmd := ParseCommand(input)
	switch cmd.Type {
	case CommandList:
		return e.listTasks(false)
	case CommandListToday:
		return e.listTasks(true)
	case CommandAdd:
		return e.addTask(cmd.Payload), nil
	case CommandDelete, CommandComplete:
		return e.beginTaskAction(cmd), nil
	}

	if memory.IsMemoryRequest(input) {
		if content, ok := memory.ExtractMemoryRequest(input); ok {
			e.pendingMemory = content
			return fmt.Sprintf("Should I save this to your memory bank? %q (yes/no)", content), nil
		}
		// Explicit save intent with no extractable clause: talk it
		// through, but the intent still suppresses auto-extraction.
		return e.converse(ctx, input, false)
	}

	return e.converse(ctx, input, true)
}

func (e *Engine) listTasks(todayOnly bool) (string, error) {
	open, err := e.tasks.ListOpen()
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	if todayOnly {
		var due []*tasks.Task
		for _, t := range open {
			if t.DueToday(timeNow()) {
				due = append(due, t)
			}
		}
		open = due
	}

	if len(open) == 0 {
		if todayOnly {
			return "Nothing is due today. Clear runway.", nil
		}
		return "Your task list is empty.", nil
	}

	var b strings.Builder
	if todayOnly {
		fmt.Fprintf(&b, "Due today (%d):\n", len(open))
	} else {
		fmt.Fprintf(&b, "Open tasks (%d):\n", len(open))
	}
	for i, t := range open {
		fmt.Fprintf(&b, "%d. %s", i+1, t.Title)
		if t.Priority == tasks.PriorityHigh {
			b.WriteString(" [high]")
		}
		if t.Deadline != nil {
			fmt.Fprintf(&b, " (due %s)", t.Deadline.Format("Jan 2"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Engine) addTask(title string) string {
	if !e.authed() {
		return authRequiredMessage
	}
	t := &tasks.Task{Title: title, Priority: tasks.PriorityNormal}
	if err := e.tasks.Create(t); err != nil {
		e.log.Warn("task create failed", "error", err)
		return fmt.Sprintf("I couldn't add that task: %v", err)
	}
	e.publish(events.EventTaskCreated, map[string]any{"task_id": t.ID, "title": t.Title})
	return fmt.Sprintf("Added task: %s", t.Title)
}

func (e *Engine) beginTaskAction(cmd Command) string {
	var snapshot []*tasks.Task
	var err error
	if cmd.Type == CommandComplete {
		snapshot, err = e.tasks.ListOpen()
	} else {
		snapshot, err = e.tasks.List()
	}
	if err != nil {
		e.log.Warn("task snapshot failed", "error", err)
		return fmt.Sprintf("I couldn't read your tasks: %v", err)
	}

	candidates := FindCandidates(cmd.Payload, snapshot)
	if len(candidates) == 0 {
		return fmt.Sprintf("I couldn't find a task matching %q.", cmd.Payload)
	}

	e.pending = &PendingAction{
		Type:            cmd.Type,
		Candidates:      candidates,
		OriginalPayload: cmd.Payload,
	}
	return ConfirmationPrompt(e.pending)
}

// resolvePending interprets the turn as a reply to the active task
// confirmation. Invalid replies re-prompt and keep the state alive;
// everything else consumes it.
func (e *Engine) resolvePending(input string) string {
	reply := strings.ToLower(strings.TrimSpace(input))
	p := e.pending

	switch reply {
	case "cancel", "no":
		e.pending = nil
		return "Okay, cancelled. The task is untouched."
	case "yes", "y":
		if len(p.Candidates) == 1 {
			return e.executeAction(p, p.Candidates[0])
		}
		return fmt.Sprintf("There are %d matches. Reply with a number between 1 and %d, or \"cancel\".",
			len(p.Candidates), len(p.Candidates))
	}

	if n, err := strconv.Atoi(reply); err == nil {
		if n < 1 || n > len(p.Candidates) {
			return fmt.Sprintf("That's out of range. Reply with a number between 1 and %d, or \"cancel\".",
				len(p.Candidates))
		}
		return e.executeAction(p, p.Candidates[n-1])
	}

	return "I didn't catch that. Reply with a number, \"yes\", or \"cancel\"."
}

// executeAction performs the confirmed mutation. The pending state is
// cleared unconditionally, even when the mutation fails.
func (e *Engine) executeAction(p *PendingAction, target *tasks.Task) string {
	e.pending = nil

	if !e.authed() {
		return authRequiredMessage
	}

	switch p.Type {
	case CommandComplete:
		if err := e.tasks.SetCompleted(target.ID, true); err != nil {
			e.log.Warn("task complete failed", "task", target.ID, "error", err)
			return fmt.Sprintf("I couldn't complete %q: %v", target.Title, err)
		}
		e.publish(events.EventTaskCompleted, map[string]any{"task_id": target.ID, "title": target.Title})
		return fmt.Sprintf("Done. %q is marked complete.", target.Title)
	default:
		if err := e.tasks.Delete(target.ID); err != nil {
			e.log.Warn("task delete failed", "task", target.ID, "error", err)
			return fmt.Sprintf("I couldn't delete %q: %v", target.Title, err)
		}
		e.publish(events.EventTaskDeleted, map[string]any{"task_id": target.ID, "title": target.Title})
		return fmt.Sprintf("Deleted %q.", target.Title)
	}
}

func (e *Engine) resolveMemoryConfirmation(input string) string {
	reply := strings.ToLower(strings.TrimSpace(input))
	content := e.pendingMemory

	switch reply {
	case "yes", "y":
		e.pendingMemory = ""
		entry, err := e.memories.Add(memory.CategoryDecision, content, "explicit user request")
		if err != nil {
			e.log.Warn("memory save failed", "error", err)
			return fmt.Sprintf("I couldn't save that: %v", err)
		}
		e.publish(events.EventMemorySaved, map[string]any{"memory_id": entry.ID, "category": string(entry.Category)})
		return "Saved to your memory bank."
	case "no", "cancel":
		e.pendingMemory = ""
		return "Okay, I won't save it."
	}
	return fmt.Sprintf("Should I save %q? Reply yes or no.", content)
}

// converse routes the input to the mentor transport and, when extract is
// set, auto-extracts memories from the completed exchange. Transport
// failure surfaces as an error with no transcript append.
func (e *Engine) converse(ctx context.Context, input string, extract bool) (string, error) {
	reply, err := e.transport.Reply(ctx, e.history, input, func(chunk string) {
		e.publish(events.EventAssistantStream, map[string]any{"delta": chunk})
	})
	if err != nil {
		e.publish(events.EventMentorError, map[string]any{"error": err.Error()})
		return "", fmt.Errorf("mentor reply: %w", err)
	}

	e.history = append(e.history,
		Message{Role: "user", Content: input},
		Message{Role: "assistant", Content: reply},
	)
	e.publish(events.EventAssistantMessage, map[string]any{"content": reply})

	if extract && e.autoSave {
		e.saveExtracted(input, reply)
	}
	return reply, nil
}

// saveExtracted persists auto-extracted memories. Fire and forget:
// failures are logged, never surfaced to the conversation.
func (e *Engine) saveExtracted(userMessage, reply string) {
	for _, m := range memory.Extract(userMessage, reply) {
		entry, err := e.memories.Add(m.Category, m.Content, m.Context)
		if err != nil {
			e.log.Warn("auto memory save failed", "category", m.Category, "error", err)
			continue
		}
		e.publish(events.EventMemorySaved, map[string]any{
			"memory_id": entry.ID,
			"category":  string(entry.Category),
			"auto":      true,
		})
	}
}

func (e *Engine) publish(t events.EventType, payload map[string]any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.NewEventWithSession(t, events.SourceEngine, payload, e.sessionID))
}

const authRequiredMessage = "You need to be signed in to manage tasks."

// timeNow is swapped out in tests.
var timeNow = time.Now
