// Package chat implements Zenith's conversational engine: classifying
// user utterances into task commands, resolving fuzzy task references
// with a confirmation sub-dialogue, and routing everything else to the
// mentor transport with automatic memory extraction.
package chat

import (
	"regexp"
	"strings"
)

// CommandType classifies a user utterance.
type CommandType string

const (
	CommandNone      CommandType = "none"
	CommandList      CommandType = "list"
	CommandListToday CommandType = "list_today"
	CommandAdd       CommandType = "add"
	CommandDelete    CommandType = "delete"
	CommandComplete  CommandType = "complete"
)

// Command is the result of classifying one utterance. Payload is set for
// add, delete, and complete.
type Command struct {
	Type    CommandType
	Payload string
}

var (
	listRe  = regexp.MustCompile(`(?i)^(?:what(?:'s| is| are| do i have)?\b.*\btasks?\b.*|(?:show|list)\b.*\btasks?\b.*|(?:my\s+)?tasks?\s+(?:for\s+)?today)\s*\??$`)
	todayRe = regexp.MustCompile(`(?i)\btoday\b`)

	addRe    = regexp.MustCompile(`(?i)^(?:add|create)\s+(?:a\s+|new\s+)*task\s*[:\s]\s*(.+)$`)
	remindRe = regexp.MustCompile(`(?i)^remind\s+me\s+to\s+(.+)$`)

	deleteRe   = regexp.MustCompile(`(?i)^(?:delete|remove)\s+(?:(?:the|my)\s+)?(?:task\s*)?[:\s]*(.+)$`)
	completeRe = regexp.MustCompile(`(?i)^(?:complete|done|finish|finished)\s+(?:with\s+)?(?:(?:the|my)\s+)?(?:task\s*)?[:\s]*(.+)$`)
)

// ParseCommand classifies a raw utterance into a task command, applying
// patterns in priority order with first match winning. Unmatched input
// and command-shaped input with an empty payload classify as none. Pure
// classification with no side effects.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{Type: CommandNone}
	}

	if listRe.MatchString(input) {
		if todayRe.MatchString(input) {
			return Command{Type: CommandListToday}
		}
		return Command{Type: CommandList}
	}
	if m := addRe.FindStringSubmatch(input); m != nil {
		return payloadCommand(CommandAdd, m[1])
	}
	if m := remindRe.FindStringSubmatch(input); m != nil {
		return payloadCommand(CommandAdd, m[1])
	}
	if m := deleteRe.FindStringSubmatch(input); m != nil {
		return payloadCommand(CommandDelete, m[1])
	}
	if m := completeRe.FindStringSubmatch(input); m != nil {
		return payloadCommand(CommandComplete, m[1])
	}
	return Command{Type: CommandNone}
}

func payloadCommand(t CommandType, payload string) Command {
	payload = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(payload), ".!?"))
	if payload == "" {
		return Command{Type: CommandNone}
	}
	return Command{Type: t, Payload: payload}
}
