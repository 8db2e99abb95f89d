package memory

import (
	"fmt"
	"strings"
)

// summarySection maps bank categories onto a heading in the mentor's
// context summary, with a cap on how many entries it contributes.
type summarySection struct {
	heading    string
	categories []Category
	limit      int
}

var summarySections = []summarySection{
	{"KEY GOALS", []Category{CategoryGoal}, 5},
	{"ONGOING CHALLENGES", []Category{CategoryChallenge}, 3},
	{"PAST INSIGHTS", []Category{CategoryInsight}, 5},
	{"RECENT PROGRESS", []Category{CategoryProgress, CategoryBreakthrough}, 3},
}

// Summary renders the memory bank as a compact text block suitable for
// inclusion in the mentor's system prompt. Returns the empty string when
// the bank holds nothing relevant.
func Summary(store Store) (string, error) {
	var b strings.Builder
	for _, sec := range summarySections {
		var collected []*Entry
		for _, cat := range sec.categories {
			if len(collected) >= sec.limit {
				break
			}
			entries, err := store.ByCategory(cat, sec.limit-len(collected))
			if err != nil {
				return "", fmt.Errorf("summarize %s memories: %w", cat, err)
			}
			collected = append(collected, entries...)
		}
		if len(collected) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", sec.heading)
		for _, e := range collected {
			fmt.Fprintf(&b, "- %s\n", e.Content)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
