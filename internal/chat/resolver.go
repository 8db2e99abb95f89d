package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zenithlabs/zenith/internal/memory"
	"github.com/zenithlabs/zenith/internal/tasks"
)

// PendingAction is a delete/complete confirmation awaiting the user's
// next turn. At most one is active per engine; while pending, all input
// is interpreted as a reply to the confirmation.
type PendingAction struct {
	Type            CommandType
	Candidates      []*tasks.Task
	OriginalPayload string
}

// FindCandidates resolves a payload against the task collection using
// tiered matching that short-circuits at the first non-empty tier:
// case-insensitive exact title match, then substring containment, then
// token-overlap similarity ranked descending. An empty payload resolves
// to nothing.
func FindCandidates(payload string, list []*tasks.Task) []*tasks.Task {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil
	}
	lower := strings.ToLower(payload)

	var exact []*tasks.Task
	for _, t := range list {
		if strings.EqualFold(t.Title, payload) {
			exact = append(exact, t)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var contains []*tasks.Task
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Title), lower) {
			contains = append(contains, t)
		}
	}
	if len(contains) > 0 {
		return contains
	}

	type scored struct {
		task  *tasks.Task
		score float64
	}
	var ranked []scored
	for _, t := range list {
		if s := memory.TokenSimilarity(payload, t.Title); s > 0 {
			ranked = append(ranked, scored{t, s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]*tasks.Task, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.task)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// actionVerb renders the pending action type for user-facing prompts.
func actionVerb(t CommandType) string {
	if t == CommandComplete {
		return "complete"
	}
	return "delete"
}

// ConfirmationPrompt renders the message asking the user to confirm a
// pending action: yes/no for a single candidate, a 1-based numbered list
// otherwise.
func ConfirmationPrompt(p *PendingAction) string {
	if len(p.Candidates) == 1 {
		return fmt.Sprintf("Do you want to %s %q? Reply yes or no.",
			actionVerb(p.Type), p.Candidates[0].Title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d tasks matching %q:\n", len(p.Candidates), p.OriginalPayload)
	for i, t := range p.Candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.Title)
	}
	fmt.Fprintf(&b, "Reply with a number to %s it, or \"cancel\".", actionVerb(p.Type))
	return b.String()
}
