package feedback

import (
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

// genericPhrases are canned comments the generation service tends to repeat.
// Matching is a plain substring test, so paraphrases slip through.
var genericPhrases = []string{
	"consider tightening wording",
	"check punctuation, capitalization, and grammar",
	"strengthen the transition",
	"add more concrete support",
	"clarify the main claim",
	"explain the reasoning step more explicitly",
	"improve clarity, persuasiveness, and coherence",
}

// IsGeneric reports whether content is blank or contains a canned phrase
func IsGeneric(content string) bool {
	normalized := strings.ToLower(strings.TrimSpace(content))
	if normalized == "" {
		return true
	}
	for _, p := range genericPhrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

// Enforcer rewrites generic or repeated feedback into sentence-grounded
// templates. It remembers content already used per type, so one Enforcer
// belongs to exactly one pipeline run.
type Enforcer struct {
	sentences map[int]model.Sentence
	used      map[model.FeedbackType]map[string]bool
}

// NewEnforcer creates an Enforcer for one run over sentences
func NewEnforcer(sentences []model.Sentence) *Enforcer {
	byID := make(map[int]model.Sentence, len(sentences))
	for _, s := range sentences {
		byID[s.ID] = s
	}
	return &Enforcer{
		sentences: byID,
		used:      make(map[model.FeedbackType]map[string]bool),
	}
}

// Apply returns entries with generic or same-type repeated content replaced.
// Entries pointing at unknown sentences are dropped.
func (e *Enforcer) Apply(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, entry := range entries {
		sentence, ok := e.sentences[entry.SentenceID]
		if !ok {
			continue
		}

		used := e.used[entry.Type]
		if used == nil {
			used = make(map[string]bool)
			e.used[entry.Type] = used
		}

		if IsGeneric(entry.Content) || used[normalizeContent(entry.Content)] {
			tpl := SpecificFeedback(entry.Type, sentence)
			entry.Content = tpl.Content
			entry.Why = tpl.Why
			entry.How = tpl.How
		}

		entry.SentenceText = sentence.Content
		used[normalizeContent(entry.Content)] = true
		out = append(out, entry)
	}
	return out
}

func normalizeContent(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
