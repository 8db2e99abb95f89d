package memory

import (
	"regexp"
	"strings"
)

// Extracted is a memory candidate produced from one conversation turn.
// It is not persisted; callers decide whether to store it.
type Extracted struct {
	Category   Category `json:"category"`
	Content    string   `json:"content"`
	Confidence float64  `json:"confidence"`
	Context    string   `json:"context,omitempty"`
}

// minConfidence is the floor below which candidates are discarded.
const minConfidence = 0.75

// similarityThreshold is the token-Jaccard score above which two
// candidates are considered duplicates.
const similarityThreshold = 0.7

// rule is one extraction category: an ordered list of patterns applied to
// either the user message or the assistant reply, with a fixed confidence.
type rule struct {
	category   Category
	confidence float64
	context    string
	fromReply  bool
	minLength  int
	patterns   []*regexp.Regexp
}

// Extraction rules in evaluation order. When two categories capture
// overlapping text, the earlier category wins through deduplication.
var extractionRules = []rule{
	{
		category:   CategoryGoal,
		confidence: 0.9,
		context:    "User explicitly stated goal",
		minLength:  10,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:my\s+)?(?:goal|aim|objective|target|dream|vision)(?:\s+is|\s+to)?\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)\bi(?:'m| am)?\s+(?:trying|planning|going)\s+to\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)\bi\s+(?:need|have|want)\s+to\s+([^.!?]+)`),
		},
	},
	{
		category:   CategoryChallenge,
		confidence: 0.85,
		context:    "User mentioned a challenge",
		minLength:  10,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi(?:'m| am)?\s+(?:struggling with|having trouble with|facing)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)(?:\bproblem|\bchallenge|\bissue)\s+(?:is|with)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)(?:stuck|blocked|struggling)\s+(?:on|with)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)(?:can'?t|cannot|unable to)\s+([^.!?]+)`),
		},
	},
	{
		category:   CategoryBreakthrough,
		confidence: 0.88,
		context:    "User achieved a win",
		minLength:  10,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi\s+(?:finally\s+)?(?:did|completed|finished|achieved|accomplished)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)\bi\s+(?:finally\s+)?(?:figured out|realized|understood)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)(?:breakthrough|victory)\s+(?:was|with|on)\s+([^.!?]+)`),
		},
	},
	{
		category:   CategoryDecision,
		confidence: 0.87,
		context:    "User made a commitment",
		minLength:  10,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bi(?:'ve| have)?\s+(?:decided|committed)(?:\s+to)?\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)\bi\s+will\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)(?:from now on|starting\s+(?:now|today)|i'?m\s+going\s+to\s+start)\s+([^.!?]+)`),
		},
	},
	{
		category:   CategoryInsight,
		confidence: 0.8,
		context:    "Key insight from mentoring",
		fromReply:  true,
		minLength:  15,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:the\s+key\s+is|remember|important|crucial|vital)\s+([^.!?]+)`),
			regexp.MustCompile(`(?i)you\s+(?:need to|must|should)\s+focus\s+on\s+([^.!?]+)`),
		},
	},
}

// trivialContent is content too generic to be worth remembering.
var trivialContent = map[string]bool{
	"this": true, "that": true, "it": true,
	"something": true, "anything": true, "everything": true, "nothing": true,
	"ok": true, "sure": true, "yes": true, "no": true,
	"a lot": true, "more": true, "less": true,
}

// Extract scans a conversation turn for memorable statements. Goals,
// challenges, breakthroughs, and decisions are read from the user message;
// insights from the assistant reply. Trivial captures are dropped,
// near-duplicates collapsed keeping the first occurrence, and only
// candidates above the confidence floor are returned. Pure function.
func Extract(userMessage, assistantReply string) []Extracted {
	var candidates []Extracted

	for _, r := range extractionRules {
		source := userMessage
		if r.fromReply {
			source = assistantReply
		}
		for _, p := range r.patterns {
			for _, m := range p.FindAllStringSubmatch(source, -1) {
				content := strings.TrimSpace(m[1])
				if isTrivial(content, r.minLength) {
					continue
				}
				candidates = append(candidates, Extracted{
					Category:   r.category,
					Content:    content,
					Confidence: r.confidence,
					Context:    r.context,
				})
			}
		}
	}

	return filterConfident(dedupe(candidates))
}

// isTrivial reports whether content is too generic or too short to keep.
func isTrivial(content string, minLength int) bool {
	lower := strings.ToLower(content)
	if trivialContent[lower] {
		return true
	}
	if len(strings.Fields(lower)) < 2 {
		return true
	}
	return len(content) < minLength
}

// dedupe collapses candidates whose contents are near-duplicates,
// keeping the first occurrence in iteration order.
func dedupe(candidates []Extracted) []Extracted {
	var out []Extracted
	for _, c := range candidates {
		duplicate := false
		for _, kept := range out {
			if TokenSimilarity(kept.Content, c.Content) > similarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, c)
		}
	}
	return out
}

func filterConfident(candidates []Extracted) []Extracted {
	var out []Extracted
	for _, c := range candidates {
		if c.Confidence > minConfidence {
			out = append(out, c)
		}
	}
	return out
}

// TokenSimilarity computes the Jaccard similarity between the lower-cased
// whitespace token sets of a and b.
func TokenSimilarity(a, b string) float64 {
	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	intersection := 0
	for tok := range aTokens {
		if bTokens[tok] {
			intersection++
		}
	}
	union := len(aTokens) + len(bTokens) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(strings.TrimSpace(s))) {
		set[tok] = true
	}
	return set
}

var memoryRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)remember\s+(?:that|this|when|how)\b`),
	regexp.MustCompile(`(?i)save\s+(?:this|that|my)\b`),
	regexp.MustCompile(`(?i)(?:please\s+)?remember\s+(?:me|what|i)\b`),
	regexp.MustCompile(`(?i)(?:don'?t|never)\s+forget`),
	regexp.MustCompile(`(?i)this\s+is\s+(?:important|critical|vital)`),
	regexp.MustCompile(`(?i)make\s+(?:a\s+)?note\s+of`),
}

// IsMemoryRequest reports whether the user is explicitly asking to
// remember something ("remember that...", "save this", "don't forget").
func IsMemoryRequest(message string) bool {
	for _, p := range memoryRequestPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}

var (
	explicitRequestRe = regexp.MustCompile(`(?i)(?:remember|save|note)\s+(?:(?:that|this|when|how)\s+)?:?\s*(.+?)\s*(?:[.!?]|$)`)
	quotedRe          = regexp.MustCompile(`["']([^"']+)["']`)
)

// ExtractMemoryRequest pulls the clause the user asked to remember: the
// text following the remember/save/note keyword up to sentence-ending
// punctuation, falling back to the first quoted span. Returns false when
// neither form is present.
func ExtractMemoryRequest(message string) (string, bool) {
	if m := explicitRequestRe.FindStringSubmatch(message); m != nil {
		if content := strings.TrimSpace(m[1]); content != "" {
			return content, true
		}
	}
	if m := quotedRe.FindStringSubmatch(message); m != nil {
		if content := strings.TrimSpace(m[1]); content != "" {
			return content, true
		}
	}
	return "", false
}
