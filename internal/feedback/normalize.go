package feedback

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/essayfb/internal/model"
)

var typeByKey = map[string]model.FeedbackType{
	"claim":        model.TypeClaim,
	"reasoning":    model.TypeReasoning,
	"evidence":     model.TypeEvidence,
	"rebuttal":     model.TypeRebuttal,
	"others":       model.TypeOthers,
	"organization": model.TypeOrganization,
	"word usage":   model.TypeWordUsage,
	"word-usage":   model.TypeWordUsage,
	"orthography":  model.TypeOrthography,
}

// CanonicalType maps a free-form label onto one of the eight canonical types.
// Case and runs of whitespace are ignored; anything unrecognized is Others.
func CanonicalType(label string) model.FeedbackType {
	key := strings.ToLower(strings.Join(strings.Fields(label), " "))
	if t, ok := typeByKey[key]; ok {
		return t
	}
	return model.TypeOthers
}

// Normalize validates raw candidates against the sentence sequence and
// canonicalizes the survivors. Candidates with an out-of-range or
// non-integer sentence id, or blank content or why, are dropped.
func Normalize(raw []RawEntry, sentences []model.Sentence, source model.Source) []model.Entry {
	out := make([]model.Entry, 0, len(raw))
	for _, r := range raw {
		id, ok := sentenceID(r.SentenceID)
		if !ok || id < 1 || id > len(sentences) {
			continue
		}
		sentence := sentences[id-1]

		content := trimmedString(r.Content)
		why := trimmedString(r.Why)
		if content == "" || why == "" {
			continue
		}

		label, _ := r.Type.(string)
		out = append(out, model.Entry{
			Content:      content,
			Type:         CanonicalType(label),
			SentenceID:   sentence.ID,
			SentenceText: sentence.Content,
			Why:          why,
			How:          howItems(r.How),
			Source:       source,
		})
	}
	return out
}

// DedupeKey identifies an entry as sentence id, canonical type and
// lowercased trimmed content
func DedupeKey(e model.Entry) string {
	return fmt.Sprintf("%d|%s|%s", e.SentenceID, e.Type, strings.ToLower(strings.TrimSpace(e.Content)))
}

// Dedupe keeps the first entry for each DedupeKey, preserving order
func Dedupe(entries []model.Entry) []model.Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		key := DedupeKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

func sentenceID(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.Abs(f) > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func howItems(v any) []model.HowItem {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.HowItem, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		title, ok := obj["title"].(string)
		if !ok {
			title = "Improve"
		}
		strategy, _ := obj["strategy"].(string)
		out = append(out, model.HowItem{Title: title, Strategy: strategy})
	}
	return out
}
