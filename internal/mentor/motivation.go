package mentor

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Motivation is a short coded nudge shown at session open and pushed by
// the daily scheduler job.
type Motivation struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

var motivations = []Motivation{
	{Code: "RISE-5", Text: "Small steps every day beat big plans tomorrow."},
	{Code: "FOCUS-3", Text: "Block distractions for 25 minutes and ship something."},
	{Code: "START-1", Text: "Start before you're ready — momentum beats perfection."},
	{Code: "BOLD-7", Text: "Make one bold choice today that your future self will thank you for."},
	{Code: "LEARN-2", Text: "Learn by doing: ship, measure, iterate."},
	{Code: "HABIT-9", Text: "Compound progress: 1% better every day."},
}

// LocalMotivation picks from the curated list, seeded by the minute so
// repeated calls within the same minute agree.
func LocalMotivation(now time.Time) Motivation {
	seed := now.Unix() / 60
	return motivations[int(seed%int64(len(motivations)))]
}

const motivationSystemPrompt = "You are a short-form motivation generator. Respond with a JSON object with fields `code` and `text` only."

// Motivation asks the model for a fresh one-liner, falling back to the
// curated list when the model is unreachable or returns malformed JSON.
func (m *Mentor) Motivation(ctx context.Context) Motivation {
	raw, err := m.Generate(ctx, motivationSystemPrompt,
		"Generate one short motivational nudge for today.")
	if err != nil {
		m.log.Warn("motivation generation failed, using local", "error", err)
		return LocalMotivation(time.Now())
	}

	var out Motivation
	raw = strings.TrimSpace(raw)
	// Models sometimes fence the JSON.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil || out.Text == "" {
		m.log.Warn("motivation response malformed, using local", "raw", raw)
		return LocalMotivation(time.Now())
	}
	return out
}
