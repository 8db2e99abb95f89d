package tasks

import (
	"regexp"
	"strings"
)

// DetectedTask is a task candidate found in free text.
type DetectedTask struct {
	Title    string
	Priority Priority
}

var (
	checkboxRe   = regexp.MustCompile(`[-*]\s*\[.?\]\s*(.+)`)
	todoMarkerRe = regexp.MustCompile(`(?i)(?:todo|fixme)[:\-]\s*(.+)`)
	remindRe     = regexp.MustCompile(`(?i)(?:remind me to|remember to|don't forget to|dont forget to)\s+([^.!?\n]+)`)
	needRe       = regexp.MustCompile(`(?i)(?:i need to|i should|i must|i have to|i'll|i will)\s+([^.!?\n]+)`)
	imperativeRe = regexp.MustCompile(`(?:^|\.|\n)\s*([A-Z][a-z]+\s+[a-zA-Z0-9\s\-:,]{3,100}?)\s*(?:\.|\n|$)`)
	quoteStripRe = regexp.MustCompile("[\"'`]+")
)

// imperativeVerbs gates the loose imperative-sentence pattern to lines that
// start with a verb that usually signals an actionable item.
var imperativeVerbs = []string{
	"schedule", "call", "write", "email", "follow up", "research", "create",
	"book", "prepare", "review", "finish", "complete", "deploy", "build",
	"design", "test",
}

// DetectTasks scans free text for task-like statements: markdown checkboxes,
// TODO/FIXME markers, "remind me to" phrasings, first-person commitments,
// and imperative sentences. Duplicate titles are collapsed.
func DetectTasks(text string) []DetectedTask {
	if text == "" {
		return nil
	}

	var out []DetectedTask
	seen := make(map[string]bool)
	add := func(title string) {
		title = strings.TrimSpace(title)
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		out = append(out, DetectedTask{Title: title, Priority: PriorityNormal})
	}

	for _, m := range checkboxRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range todoMarkerRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range remindRe.FindAllStringSubmatch(text, -1) {
		add(quoteStripRe.ReplaceAllString(m[1], ""))
	}
	for _, m := range needRe.FindAllStringSubmatch(text, -1) {
		if title := strings.TrimSpace(m[1]); len(title) > 3 {
			add(title)
		}
	}
	for _, m := range imperativeRe.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		lower := strings.ToLower(candidate)
		for _, v := range imperativeVerbs {
			if strings.HasPrefix(lower, v) && len(candidate) < 140 {
				add(candidate)
				break
			}
		}
	}

	return out
}
