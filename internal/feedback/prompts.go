package feedback

import (
	"fmt"
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

const supplementDigestLimit = 60

func typeList() string {
	names := make([]string, len(model.FeedbackTypes))
	for i, t := range model.FeedbackTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// SystemPrompt describes the schema, the eight types and the target count
func SystemPrompt(target int) string {
	return fmt.Sprintf(`You are an expert writing tutor. Given an essay broken into numbered sentences, produce actionable feedback items.

Each feedback item is a JSON object with:
- content: the feedback text (1-2 sentences, clear and constructive)
- type: one of %s
- sentenceId: the 1-based id of the sentence the feedback refers to
- sentenceText: the exact sentence text
- why: a short explanation of why this feedback matters
- how: optional array of 1-3 revision strategies, each with "title" and "strategy" strings

Return ONLY a valid JSON array of such objects, no other text.
Generate around %d feedback items, and at least %d.
Cover as many different sentences as possible, mixing high-level structure issues with sentence-level writing issues.
Be concrete and specific; avoid generic comments.
Within one type, feedback for different sentences must not reuse templated wording; tie every item to details of its sentence.`,
		typeList(), target, MinimumCount(target))
}

func numberedSentences(sentences []model.Sentence) string {
	lines := make([]string, len(sentences))
	for i, s := range sentences {
		lines[i] = fmt.Sprintf("[%d] %s", s.ID, s.Content)
	}
	return strings.Join(lines, "\n")
}

// UserPrompt lists every sentence with its id
func UserPrompt(sentences []model.Sentence) string {
	return "Essay sentences (id in brackets):\n\n" + numberedSentences(sentences)
}

// SupplementPrompt asks for more, non-repeating items and embeds a digest of
// up to 60 existing entries
func SupplementPrompt(sentences []model.Sentence, existing []model.Entry, target int) string {
	digest := existing
	if len(digest) > supplementDigestLimit {
		digest = digest[:supplementDigestLimit]
	}
	lines := make([]string, len(digest))
	for i, e := range digest {
		lines[i] = fmt.Sprintf("(%d) %s: %s", e.SentenceID, e.Type, e.Content)
	}

	return fmt.Sprintf("Essay sentences (id in brackets):\n\n%s\n\nExisting feedback items (do not repeat these ideas):\n%s\n\nGenerate additional distinct feedback to reach around %d total items.",
		numberedSentences(sentences), strings.Join(lines, "\n"), target)
}

// FormulaPrompt restricts review to math-bearing sentences
func FormulaPrompt(formulaSentences []model.Sentence) string {
	return fmt.Sprintf(`You are reviewing mathematical writing in an essay.
For each sentence below that contains formulas, produce concrete checks on mathematical correctness and notation consistency.
Look for inconsistent symbols, undefined variables, impossible equalities, dimensional mismatch, and ambiguous notation.
Return ONLY a JSON array using the same schema:
content, type, sentenceId, sentenceText, why, how.
Use type "%s" or "%s".

Formula-related sentences:
%s`, model.TypeReasoning, model.TypeOthers, numberedSentences(formulaSentences))
}
